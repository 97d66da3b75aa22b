package metrics

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Drop reasons.
const (
	ReasonUnmatched     = "unmatched"
	ReasonOutOfWindow   = "out_of_window"
	ReasonDuplicate     = "duplicate"
	ReasonUnknownSize   = "unknown_size"
	ReasonInvalidRow    = "invalid_row"
	ReasonInvalidWindow = "invalid_window"
)

var Reasons = []string{
	ReasonUnmatched, ReasonOutOfWindow, ReasonDuplicate, ReasonUnknownSize, ReasonInvalidRow, ReasonInvalidWindow,
}

// Table labels of the loaded rows counter.
const (
	TableDeployment = "deployment"
	TableUsage      = "usage"
)

// Recorder holds the counters of one run in its own registry.
type Recorder struct {
	registry    *prometheus.Registry
	rowsLoaded  *prometheus.CounterVec
	rowsDropped *prometheus.CounterVec
	emitted     prometheus.Counter
	duration    prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		rowsLoaded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workload_profiler_rows_loaded_total",
				Help: "Rows read from the trace files",
			},
			[]string{"table"},
		),
		rowsDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workload_profiler_rows_dropped_total",
				Help: "Rows dropped before emission",
			},
			[]string{"reason"},
		),
		emitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "workload_profiler_profiles_emitted_total",
			Help: "Workload profiles written to the output",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "workload_profiler_run_duration_seconds",
			Help: "Wall time of the last run",
		}),
	}
	r.registry.MustRegister(r.rowsLoaded, r.rowsDropped, r.emitted, r.duration)
	// every reason shows up in the output, even at zero
	for _, reason := range Reasons {
		r.rowsDropped.WithLabelValues(reason)
	}
	return r
}

func (r *Recorder) RowsLoaded(table string, n int) {
	r.rowsLoaded.WithLabelValues(table).Add(float64(n))
}

func (r *Recorder) RowsDropped(reason string, n int) {
	r.rowsDropped.WithLabelValues(reason).Add(float64(n))
}

func (r *Recorder) ProfilesEmitted(n int) {
	r.emitted.Add(float64(n))
}

func (r *Recorder) RunDuration(d time.Duration) {
	r.duration.Set(d.Seconds())
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the metrics in the node-exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.Wrapf(err, "write metrics to %s", path)
	}
	return nil
}
