package mesh

import (
	"fmt"
	"sort"

	"github.com/notargets/wrapmesh/element"
)

type faceSignature struct {
	elem, face int
}

// buildConnectivity counts unique edges and faces and links cells through
// shared faces. Faces are matched on their sorted vertex triple.
func (m *Mesh) buildConnectivity() {
	K := len(m.EToV)
	m.EToE = make([][]int, K)
	m.EToF = make([][]int, K)
	m.VToE = make([][]int, len(m.VX))

	edges := make(map[[2]int]struct{})
	faces := make(map[[3]int]faceSignature)

	for k, verts := range m.EToV {
		m.EToE[k] = []int{k, k, k, k}
		m.EToF[k] = []int{0, 1, 2, 3}

		for _, v := range verts {
			m.VToE[v] = append(m.VToE[v], k)
		}
		for _, ev := range element.TetEdges {
			a, b := verts[ev[0]], verts[ev[1]]
			if a > b {
				a, b = b, a
			}
			edges[[2]int{a, b}] = struct{}{}
		}
		for f, fv := range element.TetFaces {
			v := []int{verts[fv[0]], verts[fv[1]], verts[fv[2]]}
			sort.Ints(v)
			key := [3]int{v[0], v[1], v[2]}
			if existing, found := faces[key]; found {
				// Found matching face - connect them
				m.EToE[k][f] = existing.elem
				m.EToF[k][f] = existing.face
				m.EToE[existing.elem][existing.face] = k
				m.EToF[existing.elem][existing.face] = f
			} else {
				faces[key] = faceSignature{k, f}
			}
		}
	}

	m.numEdges = len(edges)
	m.numFaces = len(faces)
	m.numBoundaryFaces = 0
	for k := range m.EToE {
		for f := range m.EToE[k] {
			if m.EToE[k][f] == k {
				m.numBoundaryFaces++
			}
		}
	}
}

// Adjacency selects how neighbouring cells are found when growing a region
type Adjacency uint8

const (
	VertexAdjacency Adjacency = iota // cells sharing at least one vertex
	FaceAdjacency                    // cells sharing a face
)

func (a Adjacency) String() string {
	if a == FaceAdjacency {
		return "face"
	}
	return "vertex"
}

// Neighbors returns the cells adjacent to cell k, excluding k
func (m *Mesh) Neighbors(k int, adj Adjacency) []int {
	var out []int
	seen := map[int]bool{k: true}
	switch adj {
	case FaceAdjacency:
		for _, nbr := range m.EToE[k] {
			if !seen[nbr] {
				seen[nbr] = true
				out = append(out, nbr)
			}
		}
	default:
		for _, v := range m.EToV[k] {
			for _, nbr := range m.VToE[v] {
				if !seen[nbr] {
					seen[nbr] = true
					out = append(out, nbr)
				}
			}
		}
	}
	sort.Ints(out)
	return out
}

// Grow extends a set of cells by the given number of adjacency layers and
// returns the sorted result. layers < 0 grows until no new cells are added.
func (m *Mesh) Grow(cells []int, layers int, adj Adjacency) ([]int, error) {
	in := make([]bool, len(m.EToV))
	frontier := make([]int, 0, len(cells))
	for _, k := range cells {
		if k < 0 || k >= len(m.EToV) {
			return nil, fmt.Errorf("%w: cell %d out of range (have %d)", ErrInvalidMesh, k, len(m.EToV))
		}
		if !in[k] {
			in[k] = true
			frontier = append(frontier, k)
		}
	}
	for layer := 0; layer != layers && len(frontier) > 0; layer++ {
		var next []int
		for _, k := range frontier {
			for _, nbr := range m.Neighbors(k, adj) {
				if !in[nbr] {
					in[nbr] = true
					next = append(next, nbr)
				}
			}
		}
		frontier = next
	}
	out := make([]int, 0, len(in))
	for k, ok := range in {
		if ok {
			out = append(out, k)
		}
	}
	return out, nil
}
