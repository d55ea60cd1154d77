package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)

	HTTPRequestsBlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsBlocked,
			Help: HelpTextHTTPRequestsBlocked,
		},
		[]string{LabelReason},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Catalog Metrics
var (
	CatalogEntriesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCatalogEntriesSkipped,
			Help: HelpTextCatalogEntriesSkipped,
		},
		[]string{LabelSource},
	)

	CatalogReloads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCatalogReloads,
			Help: HelpTextCatalogReloads,
		},
	)
)

// Composite Metrics
var (
	CompositesBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCompositesBuilt,
			Help: HelpTextCompositesBuilt,
		},
		[]string{LabelKind},
	)

	CompositesReleased = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCompositesReleased,
			Help: HelpTextCompositesReleased,
		},
	)

	CompositeProfit = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameCompositeProfit,
			Help:    HelpTextCompositeProfit,
			Buckets: ProfitBuckets,
		},
		[]string{LabelKind},
	)

	BuildsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBuildsRejected,
			Help: HelpTextBuildsRejected,
		},
		[]string{LabelReason},
	)

	FeasibilityChecks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameFeasibilityChecks,
			Help: HelpTextFeasibilityChecks,
		},
	)
)
