package metrics

import (
	"context"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/event"
	"github.com/osse101/CommunityEconomy_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all economy events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	event.SubscribeAll(bus, e.HandleEvent)
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.LevelUp:
		p, err := event.DecodePayload[domain.LevelUpPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadUnexpected, "type", evt.Type, "error", err)
			return nil
		}
		LevelUps.WithLabelValues(p.Source).Add(float64(p.NewLevel - p.OldLevel))

	case event.PrestigeReached:
		Prestiges.Inc()

	case event.RiskEventTriggered:
		p, err := event.DecodePayload[domain.RiskEventPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadUnexpected, "type", evt.Type, "error", err)
			return nil
		}
		RiskEvents.WithLabelValues(p.PropertyName).Inc()

	case event.IncomeCollected:
		p, err := event.DecodePayload[domain.IncomeCollectedPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadUnexpected, "type", evt.Type, "error", err)
			return nil
		}
		IncomeCollected.Add(float64(p.Amount))

	case event.TickCompleted:
		p, err := event.DecodePayload[domain.TickSummaryPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadUnexpected, "type", evt.Type, "error", err)
			return nil
		}
		PropertiesTicked.Add(float64(p.PropertiesProcessed))
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
