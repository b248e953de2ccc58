package mesh

import (
	"fmt"
)

// BoxConfig describes a structured tetrahedral box mesh
type BoxConfig struct {
	Min, Max [3]float64
	Cells    [3]int // Hexahedra per direction, each split into 6 tets
	// Label assigns labels to a cell from its centroid, nil leaves cells unlabelled
	Label func(centroid [3]float64) []int
}

// kuhnTets splits a hexahedron into 6 tetrahedra around the diagonal from
// corner 0 to corner 7. Corner c has offsets (c&1, c>>1&1, c>>2&1). Every
// hex uses the same diagonal so neighbouring hexes share conforming faces.
var kuhnTets = [6][4]int{
	{0, 1, 3, 7},
	{0, 1, 5, 7},
	{0, 2, 3, 7},
	{0, 2, 6, 7},
	{0, 4, 5, 7},
	{0, 4, 6, 7},
}

// NewBoxMesh generates a conforming tetrahedral mesh of an axis aligned box
func NewBoxMesh(cfg BoxConfig) (*Mesh, error) {
	nx, ny, nz := cfg.Cells[0], cfg.Cells[1], cfg.Cells[2]
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, fmt.Errorf("%w: invalid box dimensions %v", ErrInvalidMesh, cfg.Cells)
	}
	for d := 0; d < 3; d++ {
		if cfg.Max[d] <= cfg.Min[d] {
			return nil, fmt.Errorf("%w: empty box extent along axis %d", ErrInvalidMesh, d)
		}
	}

	Nv := (nx + 1) * (ny + 1) * (nz + 1)
	VX, VY, VZ := make([]float64, Nv), make([]float64, Nv), make([]float64, Nv)
	vid := func(i, j, k int) int { return i + (nx+1)*(j+(ny+1)*k) }
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				v := vid(i, j, k)
				VX[v] = lerp(cfg.Min[0], cfg.Max[0], i, nx)
				VY[v] = lerp(cfg.Min[1], cfg.Max[1], j, ny)
				VZ[v] = lerp(cfg.Min[2], cfg.Max[2], k, nz)
			}
		}
	}

	K := 6 * nx * ny * nz
	EToV := make([][]int, 0, K)
	var labels [][]int
	if cfg.Label != nil {
		labels = make([][]int, 0, K)
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				var corner [8]int
				for c := 0; c < 8; c++ {
					corner[c] = vid(i+(c&1), j+(c>>1&1), k+(c>>2&1))
				}
				for _, tet := range kuhnTets {
					verts := []int{corner[tet[0]], corner[tet[1]], corner[tet[2]], corner[tet[3]]}
					EToV = append(EToV, verts)
					if cfg.Label != nil {
						var c [3]float64
						for _, v := range verts {
							c[0] += VX[v] / 4
							c[1] += VY[v] / 4
							c[2] += VZ[v] / 4
						}
						labels = append(labels, cfg.Label(c))
					}
				}
			}
		}
	}
	return NewMesh(VX, VY, VZ, EToV, labels)
}

func lerp(a, b float64, i, n int) float64 {
	if i == n {
		return b
	}
	return a + (b-a)*float64(i)/float64(n)
}
