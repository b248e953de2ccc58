package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// LocateTolerance is the barycentric slack allowed when testing containment
const LocateTolerance = 1e-10

// cellGeometry stores the inverse affine map of a cell, taking
// x - x0 to the barycentric weights of vertices 1, 2 and 3
type cellGeometry struct {
	origin   [3]float64
	inv      [9]float64
	min, max [3]float64
	volume   float64
}

func (m *Mesh) buildGeometry() error {
	m.geometry = make([]cellGeometry, len(m.EToV))
	A := mat.NewDense(3, 3, nil)
	var Ainv mat.Dense
	for k, verts := range m.EToV {
		g := &m.geometry[k]
		g.origin = m.Vertex(verts[0])
		g.min, g.max = g.origin, g.origin
		for col := 1; col < 4; col++ {
			p := m.Vertex(verts[col])
			for d := 0; d < 3; d++ {
				A.Set(d, col-1, p[d]-g.origin[d])
				g.min[d] = math.Min(g.min[d], p[d])
				g.max[d] = math.Max(g.max[d], p[d])
			}
		}
		det := mat.Det(A)
		g.volume = math.Abs(det) / 6
		if g.volume <= 1e-14*cellScale(g)*cellScale(g)*cellScale(g) {
			return fmt.Errorf("%w: cell %d has volume %g", ErrDegenerateCell, k, g.volume)
		}
		if err := Ainv.Inverse(A); err != nil {
			return fmt.Errorf("%w: cell %d: %v", ErrDegenerateCell, k, err)
		}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				g.inv[3*i+j] = Ainv.At(i, j)
			}
		}
	}
	return nil
}

func cellScale(g *cellGeometry) float64 {
	s := 0.0
	for d := 0; d < 3; d++ {
		s = math.Max(s, g.max[d]-g.min[d])
	}
	return s
}

// CellVolume returns the volume of cell k
func (m *Mesh) CellVolume(k int) float64 { return m.geometry[k].volume }

// Barycentric returns the barycentric weights of p with respect to the four
// vertices of cell k
func (m *Mesh) Barycentric(k int, p [3]float64) [4]float64 {
	g := &m.geometry[k]
	d := [3]float64{p[0] - g.origin[0], p[1] - g.origin[1], p[2] - g.origin[2]}
	var lam [4]float64
	for i := 0; i < 3; i++ {
		lam[i+1] = g.inv[3*i]*d[0] + g.inv[3*i+1]*d[1] + g.inv[3*i+2]*d[2]
	}
	lam[0] = 1 - lam[1] - lam[2] - lam[3]
	return lam
}

// Locate finds a cell containing p and returns its reference coordinates
// (r,s,t) in that cell. The scan is linear with a bounding box prefilter.
func (m *Mesh) Locate(p [3]float64) (cell int, rst [3]float64, ok bool) {
	for k := range m.geometry {
		g := &m.geometry[k]
		if !g.contains(p) {
			continue
		}
		lam := m.Barycentric(k, p)
		if lam[0] < -LocateTolerance || lam[1] < -LocateTolerance ||
			lam[2] < -LocateTolerance || lam[3] < -LocateTolerance {
			continue
		}
		return k, [3]float64{2*lam[1] - 1, 2*lam[2] - 1, 2*lam[3] - 1}, true
	}
	return -1, rst, false
}

func (g *cellGeometry) contains(p [3]float64) bool {
	for d := 0; d < 3; d++ {
		slack := LocateTolerance * (1 + g.max[d] - g.min[d])
		if p[d] < g.min[d]-slack || p[d] > g.max[d]+slack {
			return false
		}
	}
	return true
}

// Bounds returns the axis aligned bounding box of the mesh
func (m *Mesh) Bounds() (min, max [3]float64) {
	if len(m.VX) == 0 {
		return
	}
	min, max = m.Vertex(0), m.Vertex(0)
	for v := range m.VX {
		p := m.Vertex(v)
		for d := 0; d < 3; d++ {
			min[d] = math.Min(min[d], p[d])
			max[d] = math.Max(max[d], p[d])
		}
	}
	return
}
