package submesh

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/wrapmesh/internal/logging"
	"github.com/notargets/wrapmesh/mesh"
)

func TestSelection(t *testing.T) {
	s := Labels(1, 3)
	assert.Equal(t, "{1,3}", s.String())
	inv := s.Inverted()
	assert.True(t, inv.Invert)
	assert.False(t, s.Invert)
	assert.Equal(t, "not {1,3}", inv.String())
	assert.False(t, inv.Inverted().Invert)

	m := slabMesh(t)
	all := m.NumCells()
	assert.Len(t, Label(2).Cells(m), all/2)
	assert.Len(t, s.Cells(m), all/2)
	assert.Len(t, inv.Cells(m), all/2)
	assert.Empty(t, Labels(7).Cells(m))
	assert.Len(t, Labels(7).Inverted().Cells(m), all)
}

func TestShellLargerThanSubMesh(t *testing.T) {
	parent := wrappedMesh(t)

	tests := []struct {
		name     string
		opts     []Option
		isParent bool
	}{
		{"Default", nil, true},
		{"ShellLabelsOnly", []Option{WithShellLayers(0)}, true},
		{"OneVertexLayer", []Option{WithShellLabels()}, false},
		{"OneFaceLayer", []Option{WithShellLabels(), WithShellAdjacency(mesh.FaceAdjacency)}, false},
		{"OneQuadrant", []Option{WithShellLabels(1003)}, false},
		{"Unbounded", []Option{WithShellLabels(), WithShellLayers(-1)}, true},
		{"FullShell", []Option{WithShellLabels(), WithFullShell()}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := Create(parent, Label(1), tt.opts...)
			require.NoError(t, err)

			n0, err := sub.Size(0)
			require.NoError(t, err)
			s0, err := sub.WithShell().Size(0)
			require.NoError(t, err)
			assert.Equal(t, 125, n0)
			assert.Less(t, n0, s0)

			n3, _ := sub.Size(3)
			assert.Equal(t, 6*4*4*4, n3)
			assert.Equal(t, tt.isParent, sub.WithShell() == parent)
			assert.Same(t, parent, sub.Parent())
			assert.True(t, sub.SharesRoot(parent))
			assert.Len(t, sub.ParentCells(), n3)
		})
	}
}

func TestFaceShellThinnerThanVertexShell(t *testing.T) {
	parent := wrappedMesh(t)
	vsub, err := Create(parent, Label(1), WithShellLabels())
	require.NoError(t, err)
	fsub, err := Create(parent, Label(1), WithShellLabels(), WithShellAdjacency(mesh.FaceAdjacency))
	require.NoError(t, err)
	assert.Less(t, fsub.WithShell().NumCells(), vsub.WithShell().NumCells())

	zero, err := Create(parent, Label(1), WithShellLabels(), WithShellLayers(0))
	require.NoError(t, err)
	assert.Equal(t, zero.NumCells(), zero.WithShell().NumCells())
}

func TestMultipleSubdomains(t *testing.T) {
	parent := slabMesh(t)
	mesh1, err := Create(parent, Label(1))
	require.NoError(t, err)
	mesh3, err := Create(parent, Label(3))
	require.NoError(t, err)
	mesh13, err := Create(parent, Labels(1, 3))
	require.NoError(t, err)

	for dim := 0; dim <= 3; dim++ {
		n1, err := mesh1.Size(dim)
		require.NoError(t, err)
		n3, err := mesh3.Size(dim)
		require.NoError(t, err)
		n13, err := mesh13.Size(dim)
		require.NoError(t, err)
		assert.Equal(t, n1+n3, n13, "dim %d", dim)
	}
	n3, _ := mesh13.Size(3)
	assert.Equal(t, 2*6*16, n3)
}

func TestMultipleSubdomainsInverted(t *testing.T) {
	parent := wrappedMesh(t)
	for _, opts := range [][]Option{nil, {WithShellLabels()}, {WithShellLabels(1000, 1001)}, {WithFullShell()}} {
		sub, err := Create(parent, Label(1), opts...)
		require.NoError(t, err)

		inner, err := Create(sub.WithShell(), Labels(shellLabels...).Inverted())
		require.NoError(t, err)
		want, _ := sub.Size(3)
		got, _ := inner.Size(3)
		assert.Equal(t, want, got)
		assert.True(t, inner.SharesRoot(sub.Mesh))
		assert.Same(t, sub.WithShell(), inner.Parent())
	}
}

func TestCreateInvalidSelection(t *testing.T) {
	parent := wrappedMesh(t)

	_, err := Create(parent, Selection{})
	assert.ErrorIs(t, err, ErrInvalidSelection)

	_, err = Create(parent, Label(42))
	assert.ErrorIs(t, err, ErrInvalidSelection)

	everything := Labels(append([]int{1}, shellLabels...)...).Inverted()
	_, err = Create(parent, everything)
	assert.ErrorIs(t, err, ErrInvalidSelection)

	_, err = Create(nil, Label(1))
	assert.ErrorIs(t, err, ErrInvalidSelection)

	// Empty labels stay an error even when empty selections are allowed
	_, err = Create(parent, Selection{}, WithEmptySelection(true))
	assert.ErrorIs(t, err, ErrInvalidSelection)

	empty, err := Create(parent, Label(42), WithEmptySelection(true))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.NumCells())
	assert.Equal(t, 0, empty.NumVertices())
	assert.Equal(t, 0, empty.WithShell().NumCells())

	empty, err = Create(parent, everything, WithEmptySelection(true))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.NumCells())
}

func TestSizeOutOfRange(t *testing.T) {
	sub, err := Create(wrappedMesh(t), Label(1))
	require.NoError(t, err)
	_, err = sub.Size(4)
	assert.ErrorIs(t, err, ErrDimensionOutOfRange)
	_, err = sub.WithShell().Size(-1)
	assert.ErrorIs(t, err, ErrDimensionOutOfRange)
}

func TestNestedSelection(t *testing.T) {
	parent := wrappedMesh(t)
	sub, err := Create(parent, Label(1), WithShellLabels())
	require.NoError(t, err)
	nested, err := Create(sub.WithShell(), Label(1), WithShellLabels())
	require.NoError(t, err)
	assert.Equal(t, sub.NumCells(), nested.NumCells())
	assert.Same(t, parent, nested.Root())
	assert.Equal(t, sub.WithShell().NumCells(), nested.WithShell().NumCells())
}

type recorder struct {
	mu        sync.Mutex
	creates   int
	transfers map[string]int
}

func (r *recorder) ObserveCreate(cells, shellCells int, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
}

func (r *recorder) ObserveTransfer(op string, dofs int, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.transfers == nil {
		r.transfers = make(map[string]int)
	}
	r.transfers[op] += dofs
}

func TestLoggerAndObserver(t *testing.T) {
	var buf bytes.Buffer
	rec := &recorder{}
	sub, err := Create(wrappedMesh(t), Label(1),
		WithLogger(logging.NewWithWriter(&buf, slog.LevelDebug)),
		WithObserver(rec),
		WithLogger(nil),
		WithObserver(nil),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.creates)
	assert.Contains(t, buf.String(), "created sub-mesh")
	assert.Contains(t, buf.String(), "shell_cells=")
	assert.Contains(t, sub.Summary(), "selection {1}")
}
