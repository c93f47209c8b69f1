/*
PURPOSE:
  Counts sweep outcomes in a Prometheus registry and optionally exports it as a
  node_exporter textfile after every cell.

REQUIREMENTS:
  User-specified:
  - Progress of a long sweep must be observable from outside the process.

  Implementation-discovered:
  - Each sweep owns its registry, so tests and repeated sweeps never collide
    on the default registerer.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go (Start, RecordCell, RecordWrite, Flush)

ERROR HANDLING:
  - Flush returns textfile errors; the sweep logs them and continues.

IMPLEMENTATION RULES:
  - Metric names carry the genai_sweep_ prefix.
  - Register through promauto.With(registry), never the global registry.

USAGE:
  m := metrics.New("/var/lib/node_exporter/genai.prom")
  m.RecordCell(seqlen, model, outcome, duration, true)

SELF-HEALING INSTRUCTIONS:
  - If node_exporter ignores the file, check the .prom suffix and permissions.

RELATED FILES:
  - internal/engine/runner.go

MAINTENANCE:
  - Keep label sets small; seqlen x model is bounded by the sweep.
*/

package metrics

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/daryltucker/genai-sweep/internal/model"
)

// Metrics holds the sweep collectors. Each sweep gets its own registry.
type Metrics struct {
	registry *prometheus.Registry
	textfile string

	CellsTotal     *prometheus.CounterVec
	Throughput     *prometheus.GaugeVec
	RunDuration    prometheus.Histogram
	MatrixWrites   prometheus.Counter
	CellsRemaining prometheus.Gauge
}

// New creates collectors. textfile may be empty to disable export.
func New(textfile string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		textfile: textfile,
		CellsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "genai_sweep_cells_total",
			Help: "Cells processed, by outcome",
		}, []string{"outcome"}),
		Throughput: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "genai_sweep_throughput_tokens_per_second",
			Help: "Last measured throughput per model and seqlen",
		}, []string{"model", "seqlen"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "genai_sweep_run_duration_seconds",
			Help:    "Wall time of benchmark invocations",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
		MatrixWrites: factory.NewCounter(prometheus.CounterOpts{
			Name: "genai_sweep_matrix_writes_total",
			Help: "Successful rewrites of the result CSV",
		}),
		CellsRemaining: factory.NewGauge(prometheus.GaugeOpts{
			Name: "genai_sweep_cells_remaining",
			Help: "Cells not yet processed in the current sweep",
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Start sets the number of cells the sweep will process.
func (m *Metrics) Start(cells int) {
	m.CellsRemaining.Set(float64(cells))
}

// RecordCell counts one finished cell. ran is false when no process was started.
func (m *Metrics) RecordCell(seqlen int, modelName string, o model.Outcome, d time.Duration, ran bool) {
	m.CellsTotal.WithLabelValues(string(o.Kind)).Inc()
	if o.HasValue() {
		m.Throughput.WithLabelValues(modelName, strconv.Itoa(seqlen)).Set(o.Throughput)
	}
	if ran {
		m.RunDuration.Observe(d.Seconds())
	}
	m.CellsRemaining.Dec()
}

// RecordWrite counts one matrix rewrite.
func (m *Metrics) RecordWrite() {
	m.MatrixWrites.Inc()
}

// Flush writes the textfile, if configured.
func (m *Metrics) Flush() error {
	if m.textfile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(m.textfile), 0755); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(m.textfile, m.registry)
}
