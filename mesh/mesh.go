// Package mesh holds labelled tetrahedral meshes and the sub-meshes derived
// from them. A derived mesh keeps non-owning references into its root mesh so
// fields on related meshes can be matched vertex by vertex.
package mesh

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

var (
	ErrInvalidMesh         = errors.New("invalid mesh")
	ErrDegenerateCell      = errors.New("degenerate cell")
	ErrDimensionOutOfRange = errors.New("dimension out of range")
)

// Mesh is an immutable tetrahedral mesh with integer cell labels. The
// exported slices are read-only views, writing to them invalidates the
// cached geometry and connectivity.
type Mesh struct {
	id uuid.UUID

	// Vertex coordinates
	VX, VY, VZ []float64
	// Element to vertex connectivity, 4 vertices per cell
	EToV [][]int
	// Subdomain labels of each cell, zero or more per cell
	CellLabels [][]int

	// Connectivity, EToE[k][f] == k marks a boundary face
	EToE [][]int
	EToF [][]int
	VToE [][]int // Vertex to incident cells

	numEdges, numFaces, numBoundaryFaces int

	geometry []cellGeometry

	// Back references, nil for a root mesh
	root       *Mesh
	rootVertex []int
	rootCell   []int
}

// NewMesh validates the input and builds connectivity and cell geometry.
// labels may be nil, otherwise it needs one entry per cell. The mesh keeps
// its own copies of the inputs.
func NewMesh(VX, VY, VZ []float64, EToV [][]int, labels [][]int) (*Mesh, error) {
	if len(VX) != len(VY) || len(VX) != len(VZ) {
		return nil, fmt.Errorf("%w: coordinate lengths differ (%d, %d, %d)",
			ErrInvalidMesh, len(VX), len(VY), len(VZ))
	}
	if labels != nil && len(labels) != len(EToV) {
		return nil, fmt.Errorf("%w: %d label sets for %d cells", ErrInvalidMesh, len(labels), len(EToV))
	}
	Nv := len(VX)
	for k, verts := range EToV {
		if len(verts) != 4 {
			return nil, fmt.Errorf("%w: cell %d has %d vertices, only tetrahedra are supported",
				ErrInvalidMesh, k, len(verts))
		}
		for i, v := range verts {
			if v < 0 || v >= Nv {
				return nil, fmt.Errorf("%w: cell %d references vertex %d (have %d)", ErrInvalidMesh, k, v, Nv)
			}
			for _, w := range verts[:i] {
				if v == w {
					return nil, fmt.Errorf("%w: cell %d repeats vertex %d", ErrInvalidMesh, k, v)
				}
			}
		}
	}

	m := &Mesh{
		id:         uuid.New(),
		VX:         append([]float64(nil), VX...),
		VY:         append([]float64(nil), VY...),
		VZ:         append([]float64(nil), VZ...),
		EToV:       make([][]int, len(EToV)),
		CellLabels: make([][]int, len(EToV)),
	}
	for k, verts := range EToV {
		m.EToV[k] = append([]int(nil), verts...)
	}
	for k := range m.CellLabels {
		if labels != nil {
			m.CellLabels[k] = normalizeLabels(labels[k])
		}
	}
	if err := m.buildGeometry(); err != nil {
		return nil, err
	}
	m.buildConnectivity()
	return m, nil
}

// ID identifies this mesh instance
func (m *Mesh) ID() uuid.UUID { return m.id }

// TopologicalDimension is 3 for tetrahedral meshes
func (m *Mesh) TopologicalDimension() int { return 3 }

func (m *Mesh) NumVertices() int { return len(m.VX) }

func (m *Mesh) NumCells() int { return len(m.EToV) }

func (m *Mesh) NumBoundaryFaces() int { return m.numBoundaryFaces }

// Size returns the number of topological entities of dimension dim:
// vertices, edges, faces and cells for 0 through 3
func (m *Mesh) Size(dim int) (int, error) {
	switch dim {
	case 0:
		return len(m.VX), nil
	case 1:
		return m.numEdges, nil
	case 2:
		return m.numFaces, nil
	case 3:
		return len(m.EToV), nil
	}
	return 0, fmt.Errorf("%w: %d not in [0,%d]", ErrDimensionOutOfRange, dim, m.TopologicalDimension())
}

// Vertex returns the coordinates of vertex v
func (m *Mesh) Vertex(v int) [3]float64 {
	return [3]float64{m.VX[v], m.VY[v], m.VZ[v]}
}

// Root returns the mesh this one was ultimately extracted from, or m itself
func (m *Mesh) Root() *Mesh {
	if m.root == nil {
		return m
	}
	return m.root
}

// IsRoot reports whether m was loaded or generated rather than extracted
func (m *Mesh) IsRoot() bool { return m.root == nil }

// RootVertex maps a local vertex index to the root mesh numbering
func (m *Mesh) RootVertex(v int) int {
	if m.rootVertex == nil {
		return v
	}
	return m.rootVertex[v]
}

// RootCell maps a local cell index to the root mesh numbering
func (m *Mesh) RootCell(k int) int {
	if m.rootCell == nil {
		return k
	}
	return m.rootCell[k]
}

// SharesRoot reports whether both meshes derive from the same root mesh
func (m *Mesh) SharesRoot(other *Mesh) bool {
	return other != nil && m.Root() == other.Root()
}

func normalizeLabels(labels []int) []int {
	if len(labels) == 0 {
		return nil
	}
	out := append([]int(nil), labels...)
	sort.Ints(out)
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}
