package fem

import (
	"fmt"
)

// Function holds nodal values on a function space. Values are ordered node
// major, Values[node*ValueDim+c].
type Function struct {
	space  *FunctionSpace
	Values []float64
}

// NewFunction returns the zero function on V
func NewFunction(V *FunctionSpace) *Function {
	return &Function{space: V, Values: make([]float64, V.NumDOFs())}
}

func (f *Function) FunctionSpace() *FunctionSpace { return f.space }

// Copy returns a function on the same space with its own storage
func (f *Function) Copy() *Function {
	return &Function{space: f.space, Values: append([]float64(nil), f.Values...)}
}

// Eval evaluates all components of f at physical point p
func (f *Function) Eval(p [3]float64) ([]float64, error) {
	V := f.space
	k, rst, ok := V.mesh.Locate(p)
	if !ok {
		return nil, fmt.Errorf("%w: (%g, %g, %g)", ErrPointOutsideMesh, p[0], p[1], p[2])
	}
	phi := V.elem.Basis(rst[0], rst[1], rst[2])
	out := make([]float64, V.valueDim)
	for n, node := range V.cellNodes[k] {
		for c := range out {
			out[c] += phi[n] * f.Values[V.DOF(node, c)]
		}
	}
	return out, nil
}

// EvalScalar evaluates the first component of f at p
func (f *Function) EvalScalar(p [3]float64) (float64, error) {
	v, err := f.Eval(p)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}
