package submesh

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/notargets/wrapmesh/fem"
	"github.com/notargets/wrapmesh/mesh"
	"github.com/notargets/wrapmesh/utils"
)

type spaceKey struct {
	mesh     uuid.UUID
	family   fem.Family
	degree   int
	valueDim int
}

type transferKey struct {
	src, dst uuid.UUID
	family   fem.Family
	degree   int
	valueDim int
}

// space returns the cached function space on the sub-mesh or its shell with
// the element of V
func (s *SubMesh) space(target *mesh.Mesh, V *fem.FunctionSpace) (*fem.FunctionSpace, error) {
	key := spaceKey{target.ID(), V.Family(), V.Degree(), V.ValueDim()}

	s.mu.Lock()
	defer s.mu.Unlock()
	if W, found := s.spaces[key]; found {
		return W, nil
	}
	W, err := fem.NewVectorFunctionSpace(target, V.Family(), V.Degree(), V.ValueDim())
	if err != nil {
		return nil, err
	}
	s.spaces[key] = W
	return W, nil
}

// connector returns the cached connector from src to dst, building and
// verifying it on first use
func (s *SubMesh) connector(src, dst *fem.FunctionSpace, allowMissing bool) (*utils.DOFConnector, error) {
	key := transferKey{src.Mesh().ID(), dst.Mesh().ID(), src.Family(), src.Degree(), src.ValueDim()}

	s.mu.Lock()
	defer s.mu.Unlock()
	if dc, found := s.connectors[key]; found {
		return dc, nil
	}
	dc, err := utils.NewDOFConnector(src, dst, allowMissing)
	if err != nil {
		return nil, err
	}
	if err = dc.Verify(); err != nil {
		return nil, err
	}
	s.connectors[key] = dc
	return dc, nil
}

// SpaceOnSubMesh returns the cached sub-mesh space with the element of V
func (s *SubMesh) SpaceOnSubMesh(V *fem.FunctionSpace) (*fem.FunctionSpace, error) {
	return s.space(s.Mesh, V)
}

// SpaceOnShell returns the cached shell space with the element of V
func (s *SubMesh) SpaceOnShell(V *fem.FunctionSpace) (*fem.FunctionSpace, error) {
	return s.space(s.shell, V)
}

// Cut restricts f to the sub-mesh. f may live on the shell, the parent or
// any mesh sharing their root that covers the sub-mesh.
func (s *SubMesh) Cut(f *fem.Function) (*fem.Function, error) {
	start := time.Now()
	V := f.FunctionSpace()
	switch {
	case V.Mesh() == s.Mesh:
		return nil, fmt.Errorf("%w: field already lives on the sub-mesh", ErrIncompatibleFunctionSpace)
	case !V.Mesh().SharesRoot(s.Mesh):
		return nil, fmt.Errorf("%w: field mesh %s is unrelated to the sub-mesh", ErrIncompatibleFunctionSpace, V.Mesh().ID())
	}

	W, err := s.space(s.Mesh, V)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompatibleFunctionSpace, err)
	}
	dc, err := s.connector(V, W, false)
	if err != nil {
		return nil, fmt.Errorf("%w: cut: %v", ErrIncompatibleFunctionSpace, err)
	}

	out := fem.NewFunction(W)
	if err = dc.Apply(f.Values, out.Values); err != nil {
		return nil, fmt.Errorf("%w: cut: %v", ErrIncompatibleFunctionSpace, err)
	}
	s.observe("cut", W, start)
	return out, nil
}

// Expand extends f from the sub-mesh to the shell. Shell nodes outside the
// sub-mesh take the value of background, or zero when background is nil.
// The result always has its own storage.
func (s *SubMesh) Expand(f, background *fem.Function) (*fem.Function, error) {
	start := time.Now()
	V := f.FunctionSpace()
	if V.Mesh() != s.Mesh {
		return nil, fmt.Errorf("%w: field does not live on the sub-mesh", ErrIncompatibleFunctionSpace)
	}

	W, err := s.space(s.shell, V)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompatibleFunctionSpace, err)
	}
	out := fem.NewFunction(W)

	var bgMissing []int
	if background != nil {
		B := background.FunctionSpace()
		if !fem.Compatible(B, W) {
			return nil, fmt.Errorf("%w: background is %s P%d (dim %d), field is %s P%d (dim %d)",
				ErrIncompatibleFunctionSpace, B.Family(), B.Degree(), B.ValueDim(),
				V.Family(), V.Degree(), V.ValueDim())
		}
		bg, err := s.connector(B, W, true)
		if err != nil {
			return nil, fmt.Errorf("%w: background: %v", ErrIncompatibleFunctionSpace, err)
		}
		if err = bg.Apply(background.Values, out.Values); err != nil {
			return nil, fmt.Errorf("%w: background: %v", ErrIncompatibleFunctionSpace, err)
		}
		bgMissing = bg.Missing
	}

	dc, err := s.connector(V, W, true)
	if err != nil {
		return nil, fmt.Errorf("%w: expand: %v", ErrIncompatibleFunctionSpace, err)
	}
	if err = dc.Apply(f.Values, out.Values); err != nil {
		return nil, fmt.Errorf("%w: expand: %v", ErrIncompatibleFunctionSpace, err)
	}

	if len(bgMissing) > 0 {
		placed := make(map[int]bool, len(dc.Place))
		for _, idx := range dc.Place {
			placed[idx] = true
		}
		for _, idx := range bgMissing {
			if !placed[idx] {
				x := W.NodeCoordinates(idx / W.ValueDim())
				return nil, fmt.Errorf("%w: background does not cover shell node at (%g, %g, %g)",
					ErrIncompatibleFunctionSpace, x[0], x[1], x[2])
			}
		}
	}
	s.observe("expand", W, start)
	return out, nil
}

func (s *SubMesh) observe(op string, W *fem.FunctionSpace, start time.Time) {
	elapsed := time.Since(start)
	s.opts.observer.ObserveTransfer(op, W.NumDOFs(), elapsed)
	s.opts.logger.Debug("transfer",
		"op", op,
		"space", W.String(),
		"elapsed", elapsed,
	)
}
