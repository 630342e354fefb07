package prometheus

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"cinescope/internal/core/domain"
	ports "cinescope/internal/core/ports/output"
)

const namespace = "cinescope"

type recorder struct {
	downloads       *prom.CounterVec
	downloadBytes   prom.Counter
	downloadSeconds prom.Histogram
	failures        *prom.CounterVec
	loadSeconds     prom.Histogram
	rows            *prom.GaugeVec
	parseErrors     *prom.GaugeVec
}

// NewRecorder registers the dataset metrics on reg. A nil registerer
// returns a recorder that drops every observation.
func NewRecorder(reg prom.Registerer) ports.ProvisionMetrics {
	if reg == nil {
		return &recorder{}
	}
	r := &recorder{
		downloads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_provision_total",
			Help:      "Dataset provisioning attempts by outcome.",
		}, []string{"outcome"}),
		downloadBytes: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_download_bytes_total",
			Help:      "Bytes written while downloading the dataset.",
		}),
		downloadSeconds: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_download_duration_seconds",
			Help:      "Duration of successful dataset downloads.",
			Buckets:   prom.ExponentialBuckets(1, 2, 12),
		}),
		failures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_provision_failures_total",
			Help:      "Dataset provisioning failures by error kind.",
		}, []string{"kind"}),
		loadSeconds: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_load_duration_seconds",
			Help:      "Duration of parsing the dataset into memory.",
			Buckets:   prom.DefBuckets,
		}),
		rows: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows seen by the last dataset load.",
		}, []string{"state"}),
		parseErrors: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_parse_errors",
			Help:      "Unparseable fields per column in the last dataset load.",
		}, []string{"column"}),
	}
	reg.MustRegister(r.downloads, r.downloadBytes, r.downloadSeconds, r.failures, r.loadSeconds, r.rows, r.parseErrors)
	return r
}

func (r *recorder) ObserveDownload(outcome string, bytes int64, d time.Duration) {
	if r.downloads == nil {
		return
	}
	r.downloads.WithLabelValues(outcome).Inc()
	if outcome == ports.OutcomeDownloaded {
		r.downloadBytes.Add(float64(bytes))
		r.downloadSeconds.Observe(d.Seconds())
	}
}

func (r *recorder) ObserveFailure(kind string) {
	if r.failures == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	r.downloads.WithLabelValues(ports.OutcomeFailed).Inc()
	r.failures.WithLabelValues(kind).Inc()
}

func (r *recorder) ObserveLoad(report domain.LoadReport, d time.Duration) {
	if r.loadSeconds == nil {
		return
	}
	r.loadSeconds.Observe(d.Seconds())
	r.rows.WithLabelValues("read").Set(float64(report.RowsRead))
	r.rows.WithLabelValues("kept").Set(float64(report.RowsKept))
	r.rows.WithLabelValues("dropped").Set(float64(report.RowsDropped))
	r.rows.WithLabelValues("missing_year").Set(float64(report.MissingYear))
	for column, n := range report.ParseErrors {
		r.parseErrors.WithLabelValues(column).Set(float64(n))
	}
}
