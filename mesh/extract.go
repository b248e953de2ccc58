package mesh

import (
	"fmt"
)

// Extract builds a child mesh from the listed cells. Cells keep their local
// vertex order and labels; vertices are renumbered in order of first
// appearance. The child references the root of m, not m itself.
func (m *Mesh) Extract(cells []int) (*Mesh, error) {
	globalToLocal := make(map[int]int)
	var localToGlobal []int

	EToV := make([][]int, len(cells))
	labels := make([][]int, len(cells))
	rootCell := make([]int, len(cells))
	for i, k := range cells {
		if k < 0 || k >= len(m.EToV) {
			return nil, fmt.Errorf("%w: cell %d out of range (have %d)", ErrInvalidMesh, k, len(m.EToV))
		}
		EToV[i] = make([]int, 4)
		for j, v := range m.EToV[k] {
			local, found := globalToLocal[v]
			if !found {
				local = len(localToGlobal)
				globalToLocal[v] = local
				localToGlobal = append(localToGlobal, v)
			}
			EToV[i][j] = local
		}
		labels[i] = m.CellLabels[k]
		rootCell[i] = m.RootCell(k)
	}

	Nv := len(localToGlobal)
	VX, VY, VZ := make([]float64, Nv), make([]float64, Nv), make([]float64, Nv)
	rootVertex := make([]int, Nv)
	for local, v := range localToGlobal {
		VX[local], VY[local], VZ[local] = m.VX[v], m.VY[v], m.VZ[v]
		rootVertex[local] = m.RootVertex(v)
	}

	child, err := NewMesh(VX, VY, VZ, EToV, labels)
	if err != nil {
		return nil, err
	}
	child.root = m.Root()
	child.rootVertex = rootVertex
	child.rootCell = rootCell
	return child, nil
}
