// Package metrics records sub-mesh activity as Prometheus metrics. The
// collectors live on a private registry that is written out as a node
// exporter text file, since the CLI is short lived.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics implements submesh.Observer
type Metrics struct {
	Registry *prometheus.Registry

	creates       prometheus.Counter
	selectedCells prometheus.Gauge
	shellCells    prometheus.Gauge
	transfers     *prometheus.CounterVec
	dofs          *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		creates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wrapmesh_submesh_creates_total",
			Help: "Total number of sub-meshes created",
		}),
		selectedCells: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wrapmesh_submesh_cells",
			Help: "Cells in the most recently created sub-mesh",
		}),
		shellCells: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wrapmesh_shell_cells",
			Help: "Cells in the shell of the most recently created sub-mesh",
		}),
		transfers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wrapmesh_transfers_total",
				Help: "Total number of field transfers",
			},
			[]string{"op"},
		),
		dofs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wrapmesh_transfer_dofs_total",
				Help: "Destination degrees of freedom written by field transfers",
			},
			[]string{"op"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wrapmesh_operation_duration_seconds",
				Help:    "Duration of sub-mesh operations",
				Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
			},
			[]string{"op"},
		),
	}
	m.Registry.MustRegister(m.creates, m.selectedCells, m.shellCells, m.transfers, m.dofs, m.duration)
	return m
}

func (m *Metrics) ObserveCreate(cells, shellCells int, d time.Duration) {
	m.creates.Inc()
	m.selectedCells.Set(float64(cells))
	m.shellCells.Set(float64(shellCells))
	m.duration.WithLabelValues("create").Observe(d.Seconds())
}

func (m *Metrics) ObserveTransfer(op string, dofs int, d time.Duration) {
	m.transfers.WithLabelValues(op).Inc()
	m.dofs.WithLabelValues(op).Add(float64(dofs))
	m.duration.WithLabelValues(op).Observe(d.Seconds())
}

// WriteToTextfile writes all collected metrics in the text exposition format
func (m *Metrics) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
