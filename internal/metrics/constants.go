package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
	MetricNameHTTPRequestsBlocked  = "http_requests_blocked_total"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Resolution engine metric names
const (
	MetricNameCatalogEntriesSkipped = "catalog_entries_skipped_total"
	MetricNameCatalogReloads        = "catalog_reloads_total"
	MetricNameCompositesBuilt       = "composites_built_total"
	MetricNameCompositesReleased    = "composites_released_total"
	MetricNameCompositeProfit       = "composite_profit_coins"
	MetricNameBuildsRejected        = "composite_builds_rejected_total"
	MetricNameFeasibilityChecks     = "feasibility_checks_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

const (
	HelpTextHTTPRequestsTotal     = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration   = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight  = "Current number of HTTP requests being served"
	HelpTextHTTPRequestsBlocked   = "Requests refused by the client guard, by reason"
	HelpTextEventsPublished       = "Total number of events published"
	HelpTextEventHandlerErrors    = "Total number of event handler errors"
	HelpTextCatalogEntriesSkipped = "Recipe or set entries skipped because they failed to parse"
	HelpTextCatalogReloads        = "Number of times the recipe catalog was rebuilt"
	HelpTextCompositesBuilt       = "Composite transactions committed"
	HelpTextCompositesReleased    = "Composite transactions whose consumption was returned to the ledger"
	HelpTextCompositeProfit       = "Realized profit per composite transaction in coins"
	HelpTextBuildsRejected        = "Composite builds rejected before touching the ledger"
	HelpTextFeasibilityChecks     = "Feasibility evaluations performed"
)

// ============================================================================
// Metric Label Names and Values
// ============================================================================

const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelSource = "source"
	LabelKind   = "kind"
	LabelReason = "reason"
)

// Composite kinds
const (
	KindRecipe = "recipe"
	KindSet    = "set"
)

// Client guard block reasons
const (
	ReasonUnauthorized = "unauthorized"
	ReasonRateLimited  = "rate_limited"
)

// Build rejection reasons
const (
	ReasonNotReady        = "not_ready"
	ReasonOverConsumption = "over_consumption"
	ReasonInvalid         = "invalid"
	ReasonStorage         = "storage"
)

// ============================================================================
// Buckets
// ============================================================================

// HTTPLatencyBuckets are the request latency histogram buckets in seconds
var HTTPLatencyBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// ProfitBuckets span losses through large gains in coins
var ProfitBuckets = []float64{-10_000_000, -1_000_000, -100_000, -10_000, 0, 10_000, 100_000, 1_000_000, 10_000_000, 100_000_000}

// Log messages
const (
	LogMsgEventPayloadUnexpected = "Event payload has unexpected type"
	LogMsgMetricsRecorded        = "Event metrics recorded"
)
