package submesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/wrapmesh/expression"
	"github.com/notargets/wrapmesh/fem"
	"github.com/notargets/wrapmesh/mesh"
	"github.com/notargets/wrapmesh/utils"
)

func interpolate(t *testing.T, src string, m *mesh.Mesh, degree int) *fem.Function {
	t.Helper()
	V, err := fem.NewFunctionSpace(m, fem.Lagrange, degree)
	require.NoError(t, err)
	f, err := fem.Interpolate(expression.MustCompile(src), V)
	require.NoError(t, err)
	return f
}

func assertEqualAtPoint(t *testing.T, f, g *fem.Function, p [3]float64) {
	t.Helper()
	fv, err := f.Eval(p)
	require.NoError(t, err)
	gv, err := g.Eval(p)
	require.NoError(t, err)
	assert.InDeltaSlice(t, fv, gv, 1e-7, "at %v", p)
}

func assertValueAtPoint(t *testing.T, f *fem.Function, p [3]float64, want float64) {
	t.Helper()
	v, err := f.EvalScalar(p)
	require.NoError(t, err)
	assert.InDelta(t, want, v, 1e-7, "at %v", p)
}

func TestCut(t *testing.T) {
	sub, err := Create(wrappedMesh(t), Label(1))
	require.NoError(t, err)

	f := interpolate(t, "sin(x[0])", sub.WithShell(), 2)
	fCut, err := sub.Cut(f)
	require.NoError(t, err)

	assert.Same(t, sub.WithShell(), f.FunctionSpace().Mesh())
	assert.Same(t, sub.Mesh, fCut.FunctionSpace().Mesh())
	assert.Equal(t, fem.Lagrange, fCut.FunctionSpace().Family())
	assert.Equal(t, 2, fCut.FunctionSpace().Degree())
	for _, p := range insidePoints {
		assertEqualAtPoint(t, f, fCut, p)
	}
	_, err = fCut.Eval([3]float64{1.2, 1.2, 1.2})
	assert.ErrorIs(t, err, fem.ErrPointOutsideMesh)

	// Cutting from the parent works as well, onto the same cached space
	g := interpolate(t, "x[1]*x[2]", sub.Parent(), 2)
	gCut, err := sub.Cut(g)
	require.NoError(t, err)
	assert.Same(t, fCut.FunctionSpace(), gCut.FunctionSpace())
	for _, p := range insidePoints {
		assertEqualAtPoint(t, g, gCut, p)
	}
}

func TestExpand(t *testing.T) {
	parent := wrappedMesh(t)
	sub, err := Create(parent, Label(1))
	require.NoError(t, err)
	assert.Same(t, parent, sub.WithShell())

	f := interpolate(t, "sin(x[0])", sub.Mesh, 2)
	fExpanded, err := sub.Expand(f, nil)
	require.NoError(t, err)

	assert.Same(t, sub.Mesh, f.FunctionSpace().Mesh())
	assert.Same(t, sub.WithShell(), fExpanded.FunctionSpace().Mesh())
	for _, p := range insidePoints {
		assertEqualAtPoint(t, f, fExpanded, p)
	}
	for _, p := range outsidePoints {
		assertValueAtPoint(t, fExpanded, p, 0)
	}
}

func TestExpandDontOverwrite(t *testing.T) {
	parent := wrappedMesh(t)
	sub, err := Create(parent, Label(1))
	require.NoError(t, err)

	f := interpolate(t, "sin(x[0])", sub.Mesh, 2)
	Vcomplete, err := fem.NewFunctionSpace(parent, fem.Lagrange, 2)
	require.NoError(t, err)
	fComplete, err := fem.Interpolate(fem.Constant(2.0), Vcomplete)
	require.NoError(t, err)
	before := append([]float64(nil), fComplete.Values...)

	fExpanded, err := sub.Expand(f, fComplete)
	require.NoError(t, err)
	for _, p := range insidePoints {
		assertEqualAtPoint(t, f, fExpanded, p)
	}
	for _, p := range outsidePoints {
		assertValueAtPoint(t, fExpanded, p, 2.0)
	}

	assert.Equal(t, before, fComplete.Values)
	for i := range fExpanded.Values {
		fExpanded.Values[i] = -7
	}
	assert.Equal(t, before, fComplete.Values)
	for _, p := range outsidePoints {
		assertValueAtPoint(t, fComplete, p, 2.0)
	}
}

func TestExpandOntoPartialShell(t *testing.T) {
	parent := wrappedMesh(t)
	sub, err := Create(parent, Label(1), WithShellLabels())
	require.NoError(t, err)
	require.NotSame(t, parent, sub.WithShell())

	f := interpolate(t, "x[0] + x[1]", sub.Mesh, 1)
	bg := interpolate(t, "-1", parent, 1)
	out, err := sub.Expand(f, bg)
	require.NoError(t, err)
	assert.Same(t, sub.WithShell(), out.FunctionSpace().Mesh())

	for _, p := range insidePoints {
		assertEqualAtPoint(t, f, out, p)
	}
	// Shell vertex outside the selection takes the background
	assertValueAtPoint(t, out, [3]float64{1.5, 1.5, 1.5}, -1)
	_, err = out.Eval(outsidePoints[0])
	assert.ErrorIs(t, err, fem.ErrPointOutsideMesh)

	// A background that only covers the sub-mesh leaves shell nodes unset
	partial := interpolate(t, "3", sub.Mesh, 1)
	_, err = sub.Expand(f, partial)
	assert.ErrorIs(t, err, ErrIncompatibleFunctionSpace)
}

func TestCutExpandRoundTrip(t *testing.T) {
	for _, family := range []fem.Family{fem.Lagrange, fem.DiscontinuousLagrange} {
		t.Run(family.String(), func(t *testing.T) {
			sub, err := Create(wrappedMesh(t), Label(1))
			require.NoError(t, err)
			V, err := fem.NewFunctionSpace(sub.Mesh, family, 1)
			require.NoError(t, err)
			f, err := fem.Interpolate(fem.ExpressionFunc(func(x [3]float64) float64 {
				return 1 + x[0] - 2*x[2]
			}), V)
			require.NoError(t, err)

			expanded, err := sub.Expand(f, nil)
			require.NoError(t, err)
			back, err := sub.Cut(expanded)
			require.NoError(t, err)
			assert.Same(t, sub.Mesh, back.FunctionSpace().Mesh())
			for _, p := range insidePoints {
				assertEqualAtPoint(t, f, back, p)
			}
			want, _ := f.EvalScalar(insidePoints[0])
			got, _ := back.EvalScalar(insidePoints[0])
			assert.InDelta(t, 1+0.1-0.6, got, 1e-12)
			assert.InDelta(t, want, got, 1e-12)
		})
	}
}

func TestVectorTransfer(t *testing.T) {
	sub, err := Create(wrappedMesh(t), Label(1))
	require.NoError(t, err)
	W, err := fem.NewVectorFunctionSpace(sub.WithShell(), fem.Lagrange, 2, 3)
	require.NoError(t, err)
	f, err := fem.Interpolate(expression.MustCompile("x[0]", "x[1]*x[1]", "cos(x[2])"), W)
	require.NoError(t, err)

	fCut, err := sub.Cut(f)
	require.NoError(t, err)
	assert.Equal(t, 3, fCut.FunctionSpace().ValueDim())
	for _, p := range insidePoints {
		assertEqualAtPoint(t, f, fCut, p)
	}

	fBack, err := sub.Expand(fCut, nil)
	require.NoError(t, err)
	for _, p := range insidePoints {
		assertEqualAtPoint(t, f, fBack, p)
	}
	v, err := fBack.Eval(insidePoints[1])
	require.NoError(t, err)
	assert.InDelta(t, 0.3, v[0], 1e-12)
	assert.InDelta(t, 0.25, v[1], 1e-12)
	assert.InDelta(t, math.Cos(0.8), v[2], 1e-2)
}

func TestTransferErrors(t *testing.T) {
	parent := wrappedMesh(t)
	sub, err := Create(parent, Label(1))
	require.NoError(t, err)

	onSub := interpolate(t, "x", sub.Mesh, 1)
	_, err = sub.Cut(onSub)
	assert.ErrorIs(t, err, ErrIncompatibleFunctionSpace)

	onShell := interpolate(t, "x", sub.WithShell(), 1)
	_, err = sub.Expand(onShell, nil)
	assert.ErrorIs(t, err, ErrIncompatibleFunctionSpace)

	unrelated := interpolate(t, "x", wrappedMesh(t), 1)
	_, err = sub.Cut(unrelated)
	assert.ErrorIs(t, err, ErrIncompatibleFunctionSpace)

	// A field on a different region does not cover the sub-mesh
	other, err := Create(parent, Label(1000))
	require.NoError(t, err)
	_, err = sub.Cut(interpolate(t, "x", other.Mesh, 1))
	assert.ErrorIs(t, err, ErrIncompatibleFunctionSpace)

	wrongDegree := interpolate(t, "2", parent, 2)
	_, err = sub.Expand(onSub, wrongDegree)
	assert.ErrorIs(t, err, ErrIncompatibleFunctionSpace)

	Vdg, err := fem.NewFunctionSpace(parent, fem.DiscontinuousLagrange, 1)
	require.NoError(t, err)
	_, err = sub.Expand(onSub, fem.NewFunction(Vdg))
	assert.ErrorIs(t, err, ErrIncompatibleFunctionSpace)
}

func TestTransferObserved(t *testing.T) {
	rec := &recorder{}
	sub, err := Create(wrappedMesh(t), Label(1), WithObserver(rec))
	require.NoError(t, err)

	f := interpolate(t, "x", sub.WithShell(), 1)
	fCut, err := sub.Cut(f)
	require.NoError(t, err)
	_, err = sub.Expand(fCut, nil)
	require.NoError(t, err)

	assert.Equal(t, sub.NumVertices(), rec.transfers["cut"])
	assert.Equal(t, sub.WithShell().NumVertices(), rec.transfers["expand"])
}

func TestConnectorsAreCachedAndVerified(t *testing.T) {
	sub, err := Create(wrappedMesh(t), Label(1), WithShellLabels(1001))
	require.NoError(t, err)

	for _, family := range []fem.Family{fem.Lagrange, fem.DiscontinuousLagrange} {
		V, err := fem.NewFunctionSpace(sub.Mesh, family, 2)
		require.NoError(t, err)
		W, err := sub.SpaceOnShell(V)
		require.NoError(t, err)

		dc, err := sub.connector(V, W, true)
		require.NoError(t, err)
		assert.NoError(t, dc.Verify())
		assert.NotEmpty(t, dc.Missing)
		again, err := sub.connector(V, W, true)
		require.NoError(t, err)
		assert.Same(t, dc, again)

		onParent, err := fem.NewFunctionSpace(sub.Parent(), family, 2)
		require.NoError(t, err)
		_, err = sub.connector(V, onParent, false)
		assert.ErrorIs(t, err, utils.ErrUnmatchedDOF)
	}
}

func TestUnion(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 5, 8}, union([]int{1, 3, 8}, []int{2, 3, 5}))
	assert.Equal(t, []int{4}, union(nil, []int{4}))
	assert.Empty(t, union(nil, nil))
}
