package mesh

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/notargets/gocfd/DG3D/mesh/readers"
)

// ReadMeshFile loads a tetrahedral mesh through the gocfd readers. Files
// ending in .gz are decompressed first. Cell labels come from element groups
// whose names end in an integer; without such groups the partition tags are
// used instead.
func ReadMeshFile(path string) (*Mesh, error) {
	if strings.HasSuffix(path, ".gz") {
		plain, cleanup, err := gunzipToTemp(path)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		path = plain
	}

	msh, err := readers.ReadMeshFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mesh file %s: %w", path, err)
	}

	VX := make([]float64, len(msh.Vertices))
	VY := make([]float64, len(msh.Vertices))
	VZ := make([]float64, len(msh.Vertices))
	for i, v := range msh.Vertices {
		VX[i] = v[0]
		VY[i] = v[1]
		VZ[i] = v[2]
	}

	K := len(msh.EtoV)
	labels := make([][]int, K)
	var labelled bool
	for _, group := range msh.ElementGroups {
		l, ok := labelFromName(group.Name)
		if !ok {
			continue
		}
		for _, gel := range group.Elements {
			el := int(gel)
			if el < 0 || el >= K {
				return nil, fmt.Errorf("%w: group %q references element %d (have %d)",
					ErrInvalidMesh, group.Name, el, K)
			}
			labels[el] = append(labels[el], l)
			labelled = true
		}
	}
	if !labelled && len(msh.EToP) == K {
		for k, p := range msh.EToP {
			labels[k] = []int{p}
		}
	}

	m, err := NewMesh(VX, VY, VZ, msh.EtoV, labels)
	if err != nil {
		return nil, fmt.Errorf("mesh file %s: %w", path, err)
	}
	return m, nil
}

// gunzipToTemp expands a gzip file next to the system temp dir, keeping the
// inner extension so the reader can pick the format
func gunzipToTemp(path string) (string, func(), error) {
	in, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer in.Close()

	zr, err := gzip.NewReader(in)
	if err != nil {
		return "", nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer zr.Close()

	inner := strings.TrimSuffix(filepath.Base(path), ".gz")
	out, err := os.CreateTemp("", "wrapmesh_*_"+inner)
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.Remove(out.Name()) }
	if _, err = io.Copy(out, zr); err != nil {
		out.Close()
		cleanup()
		return "", nil, fmt.Errorf("decompressing %s: %w", path, err)
	}
	if err = out.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return out.Name(), cleanup, nil
}
