package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNameHTTPRequestsTotal,
			Help:      HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      MetricNameHTTPRequestDuration,
			Help:      HelpTextHTTPRequestDuration,
			Buckets:   HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      MetricNameHTTPRequestsInFlight,
			Help:      HelpTextHTTPRequestsInFlight,
		},
	)

	RateLimitRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNameRateLimitRejected,
			Help:      HelpTextRateLimitRejected,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNameEventsPublished,
			Help:      HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNameEventHandlerErrors,
			Help:      HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Progression Metrics
var (
	XPAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNameXPAwarded,
			Help:      HelpTextXPAwarded,
		},
		[]string{LabelSource},
	)

	CoinsAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNameCoinsAwarded,
			Help:      HelpTextCoinsAwarded,
		},
		[]string{LabelSource},
	)

	LevelUps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNameLevelUps,
			Help:      HelpTextLevelUps,
		},
		[]string{LabelSource},
	)

	Prestiges = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNamePrestiges,
			Help:      HelpTextPrestiges,
		},
	)

	VoiceSessionsFlushed = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNameVoiceSessionsFlush,
			Help:      HelpTextVoiceSessionsFlush,
		},
	)
)

// Investment Metrics
var (
	InvestmentActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNameInvestmentActions,
			Help:      HelpTextInvestmentActions,
		},
		[]string{LabelAction, LabelOutcome},
	)

	IncomeCollected = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNameIncomeCollected,
			Help:      HelpTextIncomeCollected,
		},
	)

	TickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      MetricNameTickDuration,
			Help:      HelpTextTickDuration,
			Buckets:   TickDurationBuckets,
		},
	)

	PropertiesTicked = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNamePropertiesTicked,
			Help:      HelpTextPropertiesTicked,
		},
	)

	RiskEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      MetricNameRiskEvents,
			Help:      HelpTextRiskEvents,
		},
		[]string{LabelProperty},
	)
)

// Outcome classifies an engine result for the outcome label
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case domain.IsRejection(err):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}

// RecordInvestmentAction increments the action counter for err's outcome
func RecordInvestmentAction(action string, err error) {
	InvestmentActions.WithLabelValues(action, Outcome(err)).Inc()
}
