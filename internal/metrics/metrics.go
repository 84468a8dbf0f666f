package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder publishes pipeline metrics. A nil *Recorder is valid and records nothing.
type Recorder struct {
	fetchesTotal  *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	degradedFunds prometheus.Gauge
	premium       *prometheus.GaugeVec
	score         *prometheus.GaugeVec
	advisorCalls  *prometheus.CounterVec
}

// New registers the metrics with reg; nil uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		fetchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "premiumsentinel_fetches_total",
				Help: "Upstream feed requests by feed and outcome",
			},
			[]string{"feed", "outcome"},
		),
		fetchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "premiumsentinel_fetch_duration_seconds",
				Help:    "Duration of a full per-fund fetch in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"ticker"},
		),
		degradedFunds: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "premiumsentinel_degraded_funds",
				Help: "Funds with an empty series in the last portfolio fetch",
			},
		),
		premium: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "premiumsentinel_premium_rate",
				Help: "Latest premium rate in percent",
			},
			[]string{"ticker"},
		),
		score: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "premiumsentinel_score",
				Help: "Latest composite score",
			},
			[]string{"ticker"},
		),
		advisorCalls: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "premiumsentinel_advisor_requests_total",
				Help: "Advisory text requests by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// RecordFetch counts one feed request.
func (r *Recorder) RecordFetch(feed string, err error) {
	if r == nil {
		return
	}
	r.fetchesTotal.WithLabelValues(feed, outcome(err)).Inc()
}

// RecordFetchDuration observes a per-fund fetch latency.
func (r *Recorder) RecordFetchDuration(ticker string, seconds float64) {
	if r == nil {
		return
	}
	r.fetchDuration.WithLabelValues(ticker).Observe(seconds)
}

// SetDegraded sets the degraded fund count of the last batch.
func (r *Recorder) SetDegraded(n int) {
	if r == nil {
		return
	}
	r.degradedFunds.Set(float64(n))
}

// RecordSignal publishes the latest premium and score of a fund.
func (r *Recorder) RecordSignal(ticker string, premium float64, score int) {
	if r == nil {
		return
	}
	r.premium.WithLabelValues(ticker).Set(premium)
	r.score.WithLabelValues(ticker).Set(float64(score))
}

// RecordAdvisor counts one advisory request.
func (r *Recorder) RecordAdvisor(err error) {
	if r == nil {
		return
	}
	r.advisorCalls.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
