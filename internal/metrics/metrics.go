package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the pipeline counters served in daemon mode.
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal        prometheus.Counter
	ArticlesFetched  prometheus.Counter
	ArticlesScreened prometheus.Counter
	ArticlesFailed   prometheus.Counter
	ResultsSaved     prometheus.Counter
	APIRetries       prometheus.Counter
	ReportsSent      *prometheus.CounterVec
	ReportFailures   *prometheus.CounterVec
	RunDuration      prometheus.Summary
}

// New registers all pipeline metrics on a fresh registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.RunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "newsscreener",
		Name:      "runs_total",
		Help:      "Completed pipeline runs",
	})
	m.ArticlesFetched = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "newsscreener",
		Name:      "articles_fetched_total",
		Help:      "Articles pulled from feeds",
	})
	m.ArticlesScreened = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "newsscreener",
		Name:      "articles_screened_total",
		Help:      "Articles scored by the tier-1 model",
	})
	m.ArticlesFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "newsscreener",
		Name:      "articles_failed_total",
		Help:      "Articles whose screening batch failed",
	})
	m.ResultsSaved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "newsscreener",
		Name:      "results_saved_total",
		Help:      "Screening results persisted",
	})
	m.APIRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "newsscreener",
		Name:      "api_retries_total",
		Help:      "LLM API calls retried after a transient failure",
	})
	m.ReportsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "newsscreener",
		Name:      "reports_sent_total",
		Help:      "Reports delivered, by kind",
	}, []string{"kind"})
	m.ReportFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "newsscreener",
		Name:      "report_failures_total",
		Help:      "Report generations or deliveries that failed, by kind",
	}, []string{"kind"})
	m.RunDuration = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "newsscreener",
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of pipeline runs",
	})

	m.registry.MustRegister(
		m.RunsTotal,
		m.ArticlesFetched,
		m.ArticlesScreened,
		m.ArticlesFailed,
		m.ResultsSaved,
		m.APIRetries,
		m.ReportsSent,
		m.ReportFailures,
		m.RunDuration,
	)
	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
