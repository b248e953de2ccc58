package submesh

import (
	"log/slog"
	"time"

	"github.com/notargets/wrapmesh/internal/logging"
	"github.com/notargets/wrapmesh/mesh"
)

// Observer receives timing and size information for sub-mesh operations
type Observer interface {
	// ObserveCreate reports the selected and shell cell counts of a new sub-mesh
	ObserveCreate(cells, shellCells int, d time.Duration)
	// ObserveTransfer reports a cut or expand and the number of destination dofs
	ObserveTransfer(op string, dofs int, d time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveCreate(int, int, time.Duration)      {}
func (nopObserver) ObserveTransfer(string, int, time.Duration) {}

// DefaultShellLabels are the labels of the wrapping shell regions around a
// domain. Cells carrying them join every shell unless WithShellLabels
// overrides the set.
var DefaultShellLabels = []int{1000, 1001, 1002, 1003}

type options struct {
	shellLayers int
	shellLabels []int
	fullShell   bool
	adjacency   mesh.Adjacency
	allowEmpty  bool
	logger      *slog.Logger
	observer    Observer
}

func defaultOptions() options {
	return options{
		shellLayers: 1,
		shellLabels: DefaultShellLabels,
		adjacency:   mesh.VertexAdjacency,
		logger:      logging.NewNop(),
		observer:    nopObserver{},
	}
}

// Option configures Create
type Option func(*options)

// WithShellLayers sets how many adjacency layers surround the selection in
// WithShell. A negative value grows until no more cells are reachable.
func WithShellLayers(n int) Option {
	return func(o *options) { o.shellLayers = n }
}

// WithShellLabels replaces the labels whose cells are added to the grown
// shell. With no labels the shell is the adjacency layers alone.
func WithShellLabels(labels ...int) Option {
	return func(o *options) { o.shellLabels = append([]int(nil), labels...) }
}

// WithFullShell makes the shell the whole parent mesh
func WithFullShell() Option {
	return func(o *options) { o.fullShell = true }
}

// WithShellAdjacency chooses whether shell layers grow through shared
// vertices (the default) or shared faces
func WithShellAdjacency(adj mesh.Adjacency) Option {
	return func(o *options) { o.adjacency = adj }
}

// WithEmptySelection(true) returns an empty sub-mesh instead of
// ErrInvalidSelection when the labels are absent or match no cell
func WithEmptySelection(allow bool) Option {
	return func(o *options) { o.allowEmpty = allow }
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}
