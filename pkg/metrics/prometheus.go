package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal    *prometheus.CounterVec
	runDuration  *prometheus.HistogramVec
	scrapesTotal *prometheus.CounterVec
	scrapeDur    *prometheus.HistogramVec
	predictions  *prometheus.CounterVec
	confidence   prometheus.Gauge
	errorsTotal  *prometheus.CounterVec
	lastPrice    *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solpulse_runs_total",
				Help: "Total analysis runs by outcome",
			},
			[]string{"outcome"},
		),
		runDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solpulse_run_duration_seconds",
				Help:    "Analysis run duration in seconds",
				Buckets: []float64{1, 2.5, 5, 10, 20, 40, 60, 90, 120},
			},
			[]string{"outcome"},
		),
		scrapesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solpulse_scrapes_total",
				Help: "Total source scrapes by outcome",
			},
			[]string{"source", "outcome"},
		),
		scrapeDur: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solpulse_scrape_duration_seconds",
				Help:    "Source scrape duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		predictions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solpulse_predictions_total",
				Help: "Total predictions by direction",
			},
			[]string{"direction"},
		),
		confidence: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "solpulse_prediction_confidence",
				Help: "Confidence of the most recent prediction",
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "solpulse_last_price",
				Help: "Last recorded price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordRun records one analysis run and its duration.
func (r *Recorder) RecordRun(outcome string, seconds float64) {
	r.runsTotal.WithLabelValues(outcome).Inc()
	r.runDuration.WithLabelValues(outcome).Observe(seconds)
}

// RecordScrape records one source scrape and its duration.
func (r *Recorder) RecordScrape(source, outcome string, seconds float64) {
	r.scrapesTotal.WithLabelValues(source, outcome).Inc()
	r.scrapeDur.WithLabelValues(source).Observe(seconds)
}

// RecordPrediction records the outcome of a prediction.
func (r *Recorder) RecordPrediction(direction string, confidence float64) {
	r.predictions.WithLabelValues(direction).Inc()
	r.confidence.Set(confidence)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
