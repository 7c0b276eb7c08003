package monitoring

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal         *prometheus.CounterVec
	RunDuration       prometheus.Histogram
	PagesFetched      *prometheus.CounterVec
	ProductsRejected  *prometheus.CounterVec
	LocalizationTotal *prometheus.CounterVec
	DeliveriesTotal   *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storedeck_runs_total",
			Help: "Deck runs by outcome.",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "storedeck_run_duration_seconds",
			Help:    "Duration of deck runs.",
			Buckets: []float64{5, 15, 30, 60, 120, 300},
		}),
		PagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storedeck_candidate_pages_total",
			Help: "Candidate pages visited during discovery.",
		}, []string{"status"}), // ok, unused
		ProductsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storedeck_products_rejected_total",
			Help: "Product links rejected during detail fetching.",
		}, []string{"reason"}),
		LocalizationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storedeck_localization_total",
			Help: "Localization attempts by result.",
		}, []string{"result"}),
		DeliveriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storedeck_deliveries_total",
			Help: "Artifact deliveries by sink and status.",
		}, []string{"sink", "status"}),
	}
	reg.MustRegister(m.RunsTotal, m.RunDuration, m.PagesFetched, m.ProductsRejected, m.LocalizationTotal, m.DeliveriesTotal)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ObserveRun(outcome string, d time.Duration) {
	m.RunsTotal.WithLabelValues(outcome).Inc()
	m.RunDuration.Observe(d.Seconds())
}

func (m *Metrics) IncPages(status string, n int) {
	m.PagesFetched.WithLabelValues(status).Add(float64(n))
}

func (m *Metrics) IncRejected(reason string) {
	m.ProductsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncLocalization(result string) {
	m.LocalizationTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) IncDelivery(sink, status string) {
	m.DeliveriesTotal.WithLabelValues(sink, status).Inc()
}

// Handler exposes the registry for scraping
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Push sends the current values to a Pushgateway. CLI runs are too short
// lived to be scraped.
func (m *Metrics) Push(ctx context.Context, url string) error {
	return push.New(url, "storedeck").Gatherer(m.registry).PushContext(ctx)
}
