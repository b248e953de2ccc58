package element

import (
	"fmt"

	"github.com/notargets/wrapmesh/element/library/gonudg"
	"gonum.org/v1/gonum/mat"
)

// Tetrahedron local topology. Edges and faces reference the local vertices
// (-1,-1,-1), (1,-1,-1), (-1,1,-1), (-1,-1,1).
var (
	TetEdges = [6][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	TetFaces = [4][3]int{{0, 1, 2}, {0, 1, 3}, {1, 2, 3}, {0, 2, 3}}
)

// LagrangeTet is the nodal Lagrange tetrahedron on an equispaced lattice.
// The nodal basis is built from the orthonormal PKD basis through the
// Vandermonde matrix, l(r) = Vinv^T P(r).
type LagrangeTet struct {
	N       int
	Np      int
	R, S, T []float64
	// Weights holds the integer barycentric weights of each node, summing to N
	// (to 1 for the order 0 centroid node, which is weighted (1,1,1,1)).
	Weights [][4]int
	V, Vinv *mat.Dense
}

var _ ReferenceElement = (*LagrangeTet)(nil)

// NewLagrangeTet builds the reference element of the given order
func NewLagrangeTet(order int) (*LagrangeTet, error) {
	if order < 0 {
		return nil, fmt.Errorf("invalid element order %d", order)
	}
	r, s, t, lattice := gonudg.EquispacedNodes3D(order)
	lt := &LagrangeTet{
		N:       order,
		Np:      len(r),
		R:       r,
		S:       s,
		T:       t,
		Weights: make([][4]int, len(r)),
	}
	for n, ijk := range lattice {
		if order == 0 {
			lt.Weights[n] = [4]int{1, 1, 1, 1}
			continue
		}
		lt.Weights[n] = [4]int{order - ijk[0] - ijk[1] - ijk[2], ijk[0], ijk[1], ijk[2]}
	}

	lt.V = gonudg.Vandermonde3D(order, r, s, t)
	lt.Vinv = mat.NewDense(lt.Np, lt.Np, nil)
	if err := lt.Vinv.Inverse(lt.V); err != nil {
		return nil, fmt.Errorf("failed to invert Vandermonde matrix: %w", err)
	}
	return lt, nil
}

// Basis evaluates all Np nodal basis functions at reference point (r,s,t)
func (lt *LagrangeTet) Basis(r, s, t float64) []float64 {
	P := gonudg.Vandermonde3D(lt.N, []float64{r}, []float64{s}, []float64{t})
	var phi mat.Dense
	phi.Mul(P, lt.Vinv)
	return phi.RawRowView(0)
}

func (lt *LagrangeTet) GetProperties() ElementProperties {
	rg := lt.GetReferenceGeometry()
	props := ElementProperties{
		Name:      fmt.Sprintf("Lagrange Tetrahedron Order %d", lt.N),
		ShortName: fmt.Sprintf("Tet%d", lt.N),
		Order:     lt.N,
		Np:        lt.Np,
		NVp:       len(rg.VertexPoints),
		NIp:       len(rg.InteriorPoints),
	}
	if len(rg.EdgePoints) > 0 {
		props.NEp = len(rg.EdgePoints[0])
	}
	if len(rg.FacePoints) > 0 {
		props.NFp = len(rg.FacePoints[0])
	}
	return props
}

// GetReferenceGeometry classifies every node by the lowest dimensional
// entity whose closure contains it
func (lt *LagrangeTet) GetReferenceGeometry() ReferenceGeometry {
	rg := ReferenceGeometry{
		R:          append([]float64(nil), lt.R...),
		S:          append([]float64(nil), lt.S...),
		T:          append([]float64(nil), lt.T...),
		EdgePoints: make([][]int, len(TetEdges)),
		FacePoints: make([][]int, len(TetFaces)),
	}
	if lt.N == 0 {
		rg.InteriorPoints = []int{0}
		return rg
	}
	rg.VertexPoints = make([]int, 4)
	for n, w := range lt.Weights {
		support := make([]int, 0, 4)
		for v, wv := range w {
			if wv > 0 {
				support = append(support, v)
			}
		}
		switch len(support) {
		case 1:
			rg.VertexPoints[support[0]] = n
		case 2:
			for e, ev := range TetEdges {
				if ev[0] == support[0] && ev[1] == support[1] {
					rg.EdgePoints[e] = append(rg.EdgePoints[e], n)
				}
			}
		case 3:
			for f, fv := range TetFaces {
				if isFace(fv, support) {
					rg.FacePoints[f] = append(rg.FacePoints[f], n)
				}
			}
		default:
			rg.InteriorPoints = append(rg.InteriorPoints, n)
		}
	}
	return rg
}

func isFace(fv [3]int, support []int) bool {
	for _, s := range support {
		if s != fv[0] && s != fv[1] && s != fv[2] {
			return false
		}
	}
	return true
}

// ReferenceToBarycentric converts reference coordinates to the barycentric
// weights of the four local vertices
func ReferenceToBarycentric(r, s, t float64) [4]float64 {
	return [4]float64{-(1 + r + s + t) / 2, (1 + r) / 2, (1 + s) / 2, (1 + t) / 2}
}
