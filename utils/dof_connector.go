package utils

import (
	"errors"
	"fmt"

	"github.com/notargets/wrapmesh/fem"
)

var ErrUnmatchedDOF = errors.New("destination dof has no source")

// DOFConnector manages pick and place indices between two function spaces
// built on meshes with a common root. Values move as
// dst[Place[i]] = src[Pick[i]].
type DOFConnector struct {
	Src, Dst *fem.FunctionSpace
	ValueDim int

	Pick    []int // Source DOF indices
	Place   []int // Destination DOF indices, parallel to Pick
	Missing []int // Destination DOFs with no source counterpart
}

// NewDOFConnector matches every destination node to the source node with the
// same topological key. With allowMissing false, an unmatched destination
// node is an error.
func NewDOFConnector(src, dst *fem.FunctionSpace, allowMissing bool) (*DOFConnector, error) {
	// Validate inputs
	if src == nil || dst == nil {
		return nil, fmt.Errorf("nil function space")
	}
	if src.Family() != dst.Family() || src.Degree() != dst.Degree() {
		return nil, fmt.Errorf("element mismatch: %s P%d -> %s P%d",
			src.Family(), src.Degree(), dst.Family(), dst.Degree())
	}
	if src.ValueDim() != dst.ValueDim() {
		return nil, fmt.Errorf("value dimension mismatch: %d -> %d", src.ValueDim(), dst.ValueDim())
	}
	if !src.Mesh().SharesRoot(dst.Mesh()) {
		return nil, fmt.Errorf("meshes %s and %s do not share a root mesh",
			src.Mesh().ID(), dst.Mesh().ID())
	}

	dc := &DOFConnector{
		Src:      src,
		Dst:      dst,
		ValueDim: dst.ValueDim(),
		Pick:     make([]int, 0, dst.NumDOFs()),
		Place:    make([]int, 0, dst.NumDOFs()),
	}
	if err := dc.BuildIndices(allowMissing); err != nil {
		return nil, err
	}
	return dc, nil
}

// BuildIndices constructs the pick and place indices
func (dc *DOFConnector) BuildIndices(allowMissing bool) error {
	dc.Pick, dc.Place, dc.Missing = dc.Pick[:0], dc.Place[:0], nil
	for node := 0; node < dc.Dst.NumNodes(); node++ {
		srcNode, found := dc.Src.NodeIndex(dc.Dst.NodeKey(node))
		for c := 0; c < dc.ValueDim; c++ {
			if !found {
				dc.Missing = append(dc.Missing, dc.Dst.DOF(node, c))
				continue
			}
			dc.Pick = append(dc.Pick, dc.Src.DOF(srcNode, c))
			dc.Place = append(dc.Place, dc.Dst.DOF(node, c))
		}
		if !found && !allowMissing {
			x := dc.Dst.NodeCoordinates(node)
			return fmt.Errorf("%w: node %d at (%g, %g, %g)", ErrUnmatchedDOF, node, x[0], x[1], x[2])
		}
	}
	return nil
}

// Apply scatters picked source values into dst. Missing entries of dst are
// left untouched.
func (dc *DOFConnector) Apply(src, dst []float64) error {
	if len(src) != dc.Src.NumDOFs() {
		return fmt.Errorf("source length %d does not match %d dofs", len(src), dc.Src.NumDOFs())
	}
	if len(dst) != dc.Dst.NumDOFs() {
		return fmt.Errorf("destination length %d does not match %d dofs", len(dst), dc.Dst.NumDOFs())
	}
	for i, idx := range dc.Pick {
		dst[dc.Place[i]] = src[idx]
	}
	return nil
}

// Verify checks index validity and conservation properties
func (dc *DOFConnector) Verify() error {
	// Verify 1: Local validity - all indices are within bounds
	nSrc, nDst := dc.Src.NumDOFs(), dc.Dst.NumDOFs()
	for _, idx := range dc.Pick {
		if idx < 0 || idx >= nSrc {
			return fmt.Errorf("invalid pick index %d (max %d)", idx, nSrc-1)
		}
	}

	// Verify 2: Correspondence - pick and place arrays have same length
	if len(dc.Pick) != len(dc.Place) {
		return fmt.Errorf("length mismatch: pick=%d, place=%d", len(dc.Pick), len(dc.Place))
	}

	// Verify 3: Conservation - every destination dof is placed or missing exactly once
	covered := make([]int, nDst)
	for _, idx := range append(append([]int(nil), dc.Place...), dc.Missing...) {
		if idx < 0 || idx >= nDst {
			return fmt.Errorf("invalid place index %d (max %d)", idx, nDst-1)
		}
		covered[idx]++
	}
	for idx, n := range covered {
		if n != 1 {
			return fmt.Errorf("conservation error: destination dof %d covered %d times", idx, n)
		}
	}
	return nil
}
