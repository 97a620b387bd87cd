package collector

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestProcessLine(t *testing.T) {
	m := NewScanMetrics()
	m.Register(prometheus.NewRegistry())

	m.ProcessLine("a.log", true)
	m.ProcessLine("a.log", false)
	m.ProcessLine("a.log", false)

	tests := []struct {
		name    string
		counter prometheus.Counter
		want    float64
	}{
		{"scanned", m.LinesScanned.WithLabelValues("a.log"), 3},
		{"matched", m.LinesMatched.WithLabelValues("a.log"), 1},
		{"skipped", m.LinesSkipped.WithLabelValues("a.log"), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.counter); got != tt.want {
				t.Errorf("%s = %v; want %v", tt.name, got, tt.want)
			}
		})
	}
}
