package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the scanner's Prometheus collectors.
type Recorder struct {
	instruments  *prometheus.CounterVec
	matches      *prometheus.CounterVec
	scanDuration *prometheus.HistogramVec
	scanErrors   *prometheus.CounterVec
	lastScan     prometheus.Gauge
}

// New registers the collectors on reg. Passing a fresh registry keeps tests
// independent of the default one.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		instruments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scanner_instruments_total",
				Help: "Instruments evaluated, by interval and outcome",
			},
			[]string{"interval", "outcome"},
		),
		matches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scanner_matches_total",
				Help: "Instruments that matched the signal",
			},
			[]string{"interval"},
		),
		scanDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scanner_scan_duration_seconds",
				Help:    "Duration of a full universe scan for one interval",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
			[]string{"interval"},
		),
		scanErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scanner_scan_errors_total",
				Help: "Interval scans that failed before evaluating instruments",
			},
			[]string{"interval"},
		),
		lastScan: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "scanner_last_scan_timestamp_seconds",
				Help: "Unix time of the last completed report",
			},
		),
	}

	reg.MustRegister(r.instruments, r.matches, r.scanDuration, r.scanErrors, r.lastScan)
	return r
}

func (r *Recorder) ObserveInstrument(interval, outcome string) {
	r.instruments.WithLabelValues(interval, outcome).Inc()
}

func (r *Recorder) ObserveScan(interval string, matches int, d time.Duration) {
	r.matches.WithLabelValues(interval).Add(float64(matches))
	r.scanDuration.WithLabelValues(interval).Observe(d.Seconds())
}

func (r *Recorder) ObserveScanError(interval string) {
	r.scanErrors.WithLabelValues(interval).Inc()
}

func (r *Recorder) SetLastScan(t time.Time) {
	r.lastScan.Set(float64(t.Unix()))
}
