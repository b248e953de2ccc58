// Package submesh derives labelled sub-meshes from a parent tetrahedral mesh
// and moves fields between a sub-mesh and its shell.
//
// A SubMesh holds the selected cells as its own mesh plus a shell mesh. The
// shell is the selection grown by adjacency layers within the parent, joined
// with the cells carrying a wrapping shell label. Cut restricts a field from
// any mesh with the same root onto the sub-mesh. Expand extends a field on
// the sub-mesh onto the shell, filling the remaining nodes from a background
// field or with zero.
package submesh

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/notargets/wrapmesh/fem"
	"github.com/notargets/wrapmesh/mesh"
	"github.com/notargets/wrapmesh/utils"
)

var (
	ErrInvalidSelection          = errors.New("invalid selection")
	ErrIncompatibleFunctionSpace = errors.New("incompatible function space")
	ErrDimensionOutOfRange       = mesh.ErrDimensionOutOfRange
)

// SubMesh is an immutable selection of parent cells. The embedded mesh is
// the selection itself, so Size and the other mesh queries apply to it.
type SubMesh struct {
	*mesh.Mesh

	parent    *mesh.Mesh
	shell     *mesh.Mesh
	selection Selection
	cells     []int // Selected parent cells
	opts      options

	mu         sync.Mutex
	spaces     map[spaceKey]*fem.FunctionSpace
	connectors map[transferKey]*utils.DOFConnector
}

// Create selects cells of parent and builds the sub-mesh and its shell
func Create(parent *mesh.Mesh, sel Selection, opts ...Option) (*SubMesh, error) {
	start := time.Now()
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if parent == nil {
		return nil, fmt.Errorf("%w: nil parent mesh", ErrInvalidSelection)
	}
	if len(sel.Labels) == 0 {
		return nil, fmt.Errorf("%w: no labels given", ErrInvalidSelection)
	}
	var known bool
	for _, l := range sel.Labels {
		if parent.HasLabel(l) {
			known = true
			break
		}
	}
	if !known && !o.allowEmpty {
		return nil, fmt.Errorf("%w: labels %v not present on mesh (have %v)",
			ErrInvalidSelection, sel.Labels, parent.Labels())
	}

	cells := sel.Cells(parent)
	if len(cells) == 0 && !o.allowEmpty {
		return nil, fmt.Errorf("%w: %s matches no cells", ErrInvalidSelection, sel)
	}

	sub, err := parent.Extract(cells)
	if err != nil {
		return nil, fmt.Errorf("extracting sub-mesh: %w", err)
	}

	shell := parent
	if !o.fullShell {
		grown, err := parent.Grow(cells, o.shellLayers, o.adjacency)
		if err != nil {
			return nil, fmt.Errorf("growing shell: %w", err)
		}
		if len(cells) > 0 && len(o.shellLabels) > 0 {
			grown = union(grown, Labels(o.shellLabels...).Cells(parent))
		}
		if len(grown) < parent.NumCells() {
			if shell, err = parent.Extract(grown); err != nil {
				return nil, fmt.Errorf("extracting shell: %w", err)
			}
		}
	}

	sm := &SubMesh{
		Mesh:       sub,
		parent:     parent,
		shell:      shell,
		selection:  Selection{Labels: append([]int(nil), sel.Labels...), Invert: sel.Invert},
		cells:      cells,
		opts:       o,
		spaces:     make(map[spaceKey]*fem.FunctionSpace),
		connectors: make(map[transferKey]*utils.DOFConnector),
	}

	elapsed := time.Since(start)
	o.observer.ObserveCreate(sub.NumCells(), shell.NumCells(), elapsed)
	o.logger.Debug("created sub-mesh",
		"selection", sel.String(),
		"cells", sub.NumCells(),
		"vertices", sub.NumVertices(),
		"shell_cells", shell.NumCells(),
		"shell_is_parent", shell == parent,
		"elapsed", elapsed,
	)
	return sm, nil
}

// union merges two sorted cell lists
func union(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b) || (i < len(a) && a[i] < b[j]):
			out = append(out, a[i])
			i++
		case i == len(a) || b[j] < a[i]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// Parent returns the mesh the sub-mesh was created from
func (s *SubMesh) Parent() *mesh.Mesh { return s.parent }

// WithShell returns the selection grown by the configured shell layers plus
// the shell labelled cells. When the shell covers the whole parent this is
// the parent itself.
func (s *SubMesh) WithShell() *mesh.Mesh { return s.shell }

func (s *SubMesh) Selection() Selection { return s.selection }

// ParentCells returns the parent indices of the selected cells
func (s *SubMesh) ParentCells() []int { return append([]int(nil), s.cells...) }

// Summary describes the sub-mesh and shell entity counts
func (s *SubMesh) Summary() string {
	sizes := func(m *mesh.Mesh) string {
		var out string
		for dim := 0; dim <= m.TopologicalDimension(); dim++ {
			n, _ := m.Size(dim)
			out += fmt.Sprintf(" %8d", n)
		}
		return out
	}
	return fmt.Sprintf("selection %s\n%-10s%9s%9s%9s%9s\n%-10s%s\n%-10s%s\n",
		s.selection, "", "vertices", "edges", "faces", "cells",
		"sub", sizes(s.Mesh), "shell", sizes(s.shell))
}
