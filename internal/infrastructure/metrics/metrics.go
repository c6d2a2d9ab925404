package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Voucher metrics
	VouchersCreated   prometheus.Counter
	VouchersDeleted   prometheus.Counter
	VouchersReversed  prometheus.Counter
	VoucherRejections *prometheus.CounterVec
	VoucherDuration   prometheus.Histogram
	VoucherAmount     prometheus.Histogram

	// Statement metrics
	StatementDuration prometheus.Histogram

	// Account metrics
	AccountsCreated prometheus.Counter
	AccountCache    *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Outbox metrics
	EventsPublished *prometheus.CounterVec

	// Storage metrics
	StorageRetries *prometheus.CounterVec
}

// New creates all metrics and registers them with reg. A nil reg uses the
// default Prometheus registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		VouchersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bookkeeper_vouchers_created_total",
			Help: "Total number of vouchers created",
		}),
		VouchersDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "bookkeeper_vouchers_deleted_total",
			Help: "Total number of vouchers deleted",
		}),
		VouchersReversed: factory.NewCounter(prometheus.CounterOpts{
			Name: "bookkeeper_vouchers_reversed_total",
			Help: "Total number of reversal vouchers created",
		}),
		VoucherRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_voucher_rejections_total",
				Help: "Vouchers rejected by validation, by reason",
			},
			[]string{"reason"},
		),
		VoucherDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookkeeper_voucher_create_duration_seconds",
			Help:    "Duration of voucher creation",
			Buckets: prometheus.DefBuckets,
		}),
		VoucherAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookkeeper_voucher_amount",
			Help:    "Total debit amount per voucher",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
		}),

		StatementDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookkeeper_statement_duration_seconds",
			Help:    "Duration of account statement projection",
			Buckets: prometheus.DefBuckets,
		}),

		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bookkeeper_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_account_cache_total",
				Help: "Account list cache lookups by result",
			},
			[]string{"result"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bookkeeper_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bookkeeper_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_outbox_events_published_total",
				Help: "Outbox events handed to the publisher, by event type and result",
			},
			[]string{"event_type", "result"},
		),

		StorageRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookkeeper_storage_retries_total",
				Help: "Transient storage errors that triggered a retry, by SQLSTATE",
			},
			[]string{"code"},
		),
	}
}
