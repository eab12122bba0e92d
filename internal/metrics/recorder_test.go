package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.ObserveTurn("support", "greeting")
	r.ObserveTurn("support", "greeting")
	r.ObserveResolution("knowledge", 10*time.Millisecond)
	r.ObserveStrategyFailure("completion", "quota")
	r.ObserveHandoff("persistence", true)
	r.ObserveHandoff("notifier", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.turnsTotal.WithLabelValues("support", "greeting")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.resolutionsTotal.WithLabelValues("knowledge")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.strategyFailures.WithLabelValues("completion", "quota")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.handoffsTotal.WithLabelValues("persistence", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.handoffsTotal.WithLabelValues("notifier", "error")))
}

func TestRecordersRegisterIndependently(t *testing.T) {
	assert.NotPanics(t, func() {
		NewPrometheusRecorder(prometheus.NewRegistry())
		NewPrometheusRecorder(prometheus.NewRegistry())
	})
}
