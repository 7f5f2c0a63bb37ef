package metrics

// ============================================================================
// Metric Names
// ============================================================================

const namespace = "economy"

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameXPAwarded          = "xp_awarded_total"
	MetricNameCoinsAwarded       = "coins_awarded_total"
	MetricNameLevelUps           = "level_ups_total"
	MetricNamePrestiges          = "prestiges_total"
	MetricNameInvestmentActions  = "investment_actions_total"
	MetricNameIncomeCollected    = "income_collected_total"
	MetricNameTickDuration       = "property_tick_duration_seconds"
	MetricNamePropertiesTicked   = "properties_ticked_total"
	MetricNameRiskEvents         = "risk_events_total"
	MetricNameRateLimitRejected  = "rate_limit_rejected_total"
	MetricNameVoiceSessionsFlush = "voice_sessions_flushed_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextXPAwarded          = "Total XP awarded, by source"
	HelpTextCoinsAwarded       = "Total coins credited, by source"
	HelpTextLevelUps           = "Total levels gained, by source"
	HelpTextPrestiges          = "Total successful prestiges"
	HelpTextInvestmentActions  = "Investment operations, by action and outcome"
	HelpTextIncomeCollected    = "Total property income collected"
	HelpTextTickDuration       = "Duration of a full property sweep in seconds"
	HelpTextPropertiesTicked   = "Total properties processed by the sweep"
	HelpTextRiskEvents         = "Total risk events triggered, by property"
	HelpTextRateLimitRejected  = "Requests rejected by the rate limiter"
	HelpTextVoiceSessionsFlush = "Voice session awards sent by the chat adapter"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelType     = "type"
	LabelSource   = "source"
	LabelAction   = "action"
	LabelOutcome  = "outcome"
	LabelProperty = "property"
)

// Outcome label values
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets ranges from 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// TickDurationBuckets ranges from 10ms to 2 minutes
var TickDurationBuckets = []float64{.01, .05, .1, .5, 1, 5, 15, 30, 60, 120}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgEventPayloadUnexpected = "Event payload has unexpected shape"
	LogMsgMetricsRecorded        = "Metrics recorded for event"
)
