package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordFetch("nav", nil)
	r.RecordFetch("nav", nil)
	r.RecordFetch("price", errors.New("timeout"))
	r.SetDegraded(2)
	r.RecordSignal("513100", 1.25, 63)
	r.RecordAdvisor(nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.fetchesTotal.WithLabelValues("nav", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetchesTotal.WithLabelValues("price", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.degradedFunds))
	assert.Equal(t, 1.25, testutil.ToFloat64(r.premium.WithLabelValues("513100")))
	assert.Equal(t, 63.0, testutil.ToFloat64(r.score.WithLabelValues("513100")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.advisorCalls.WithLabelValues("ok")))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.RecordFetch("nav", nil)
		r.RecordFetchDuration("513100", 0.2)
		r.SetDegraded(1)
		r.RecordSignal("513100", 0, 0)
		r.RecordAdvisor(errors.New("x"))
	})
}
