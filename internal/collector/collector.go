package collector

import (
	"github.com/prometheus/client_golang/prometheus"
)

type ScanMetrics struct {
	LinesScanned *prometheus.CounterVec
	LinesMatched *prometheus.CounterVec
	LinesSkipped *prometheus.CounterVec
}

func NewScanMetrics() *ScanMetrics {
	return &ScanMetrics{
		LinesScanned: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "querylog_lines_scanned_total",
				Help: "Total number of input lines read.",
			},
			[]string{"file"},
		),
		LinesMatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "querylog_lines_matched_total",
				Help: "Total number of run-query lines converted to CSV rows.",
			},
			[]string{"file"},
		),
		LinesSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "querylog_lines_skipped_total",
				Help: "Total number of non-matching lines skipped.",
			},
			[]string{"file"},
		),
	}
}

func (m *ScanMetrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		m.LinesScanned,
		m.LinesMatched,
		m.LinesSkipped,
	)
}

// ProcessLine records one scanned line and its classification.
func (m *ScanMetrics) ProcessLine(file string, matched bool) {
	m.LinesScanned.WithLabelValues(file).Inc()
	if matched {
		m.LinesMatched.WithLabelValues(file).Inc()
	} else {
		m.LinesSkipped.WithLabelValues(file).Inc()
	}
}
