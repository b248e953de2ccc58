package fem

import (
	"fmt"
)

// Expression is a field given analytically in physical coordinates
type Expression interface {
	ValueDim() int
	Eval(x [3]float64) ([]float64, error)
}

// ExpressionFunc adapts a scalar Go function to an Expression
type ExpressionFunc func(x [3]float64) float64

func (ef ExpressionFunc) ValueDim() int { return 1 }

func (ef ExpressionFunc) Eval(x [3]float64) ([]float64, error) {
	return []float64{ef(x)}, nil
}

type constant []float64

// Constant is the expression with the given value everywhere, one argument
// per component
func Constant(values ...float64) Expression {
	return constant(append([]float64(nil), values...))
}

func (c constant) ValueDim() int { return len(c) }

func (c constant) Eval([3]float64) ([]float64, error) { return c, nil }

// Interpolate evaluates expr at the nodes of V
func Interpolate(expr Expression, V *FunctionSpace) (*Function, error) {
	if expr.ValueDim() != V.valueDim {
		return nil, fmt.Errorf("%w: expression has %d components, space has %d",
			ErrValueShape, expr.ValueDim(), V.valueDim)
	}
	f := NewFunction(V)
	for node := 0; node < V.NumNodes(); node++ {
		x := V.NodeCoordinates(node)
		val, err := expr.Eval(x)
		if err != nil {
			return nil, fmt.Errorf("interpolating at node %d (%g, %g, %g): %w", node, x[0], x[1], x[2], err)
		}
		if len(val) != V.valueDim {
			return nil, fmt.Errorf("%w: expression returned %d values, want %d",
				ErrValueShape, len(val), V.valueDim)
		}
		copy(f.Values[node*V.valueDim:], val)
	}
	return f, nil
}
