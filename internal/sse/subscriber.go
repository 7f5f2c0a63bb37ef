package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{hub: hub, bus: bus}
}

// Subscribe registers the bridge handlers on the bus
func (s *Subscriber) Subscribe() {
	s.bus.Subscribe(event.LevelUp, s.handleLevelUp)
	s.bus.Subscribe(event.PrestigeReached, s.handlePrestige)
	s.bus.Subscribe(event.RiskEventTriggered, s.handleRiskEvent)
	s.bus.Subscribe(event.IncomeCollected, s.handleIncomeCollected)
	s.bus.Subscribe(event.TickCompleted, s.handleTickCompleted)

	slog.Info(LogMsgSubscribed, "types", []event.Type{
		event.LevelUp, event.PrestigeReached, event.RiskEventTriggered,
		event.IncomeCollected, event.TickCompleted,
	})
}

func (s *Subscriber) handleLevelUp(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[domain.LevelUpPayload](evt.Payload)
	if err != nil {
		return s.badPayload(evt, err)
	}
	s.send(EventTypeLevelUp, p.UserID, LevelUpPayload{
		OldLevel:    p.OldLevel,
		NewLevel:    p.NewLevel,
		CoinsReward: p.CoinsReward,
		Source:      p.Source,
	})
	return nil
}

func (s *Subscriber) handlePrestige(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[domain.PrestigePayload](evt.Payload)
	if err != nil {
		return s.badPayload(evt, err)
	}
	s.send(EventTypePrestige, p.UserID, PrestigePayload{
		NewPrestige:     p.NewPrestige,
		BoostMultiplier: p.BoostMultiplier,
		BoostEndTime:    p.BoostEndTime,
	})
	return nil
}

func (s *Subscriber) handleRiskEvent(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[domain.RiskEventPayload](evt.Payload)
	if err != nil {
		return s.badPayload(evt, err)
	}
	s.send(EventTypeRiskEvent, p.UserID, RiskEventPayload{Property: p.PropertyName, EventType: p.EventType})
	return nil
}

func (s *Subscriber) handleIncomeCollected(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[domain.IncomeCollectedPayload](evt.Payload)
	if err != nil {
		return s.badPayload(evt, err)
	}
	s.send(EventTypeIncomeCollected, p.UserID, IncomeCollectedPayload{Properties: p.Properties, Amount: p.Amount})
	return nil
}

// tick summaries go to every client
func (s *Subscriber) handleTickCompleted(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[domain.TickSummaryPayload](evt.Payload)
	if err != nil {
		return s.badPayload(evt, err)
	}
	s.send(EventTypeTickCompleted, "", TickCompletedPayload{
		PropertiesProcessed: p.PropertiesProcessed,
		RiskEvents:          p.RiskEvents,
	})
	return nil
}

func (s *Subscriber) send(eventType, userID string, payload interface{}) {
	if !s.hub.Broadcast(eventType, userID, payload) {
		slog.Warn(LogMsgEventDropped, "event_type", eventType, "user_id", userID)
		return
	}
	slog.Debug(LogMsgEventBroadcast, "event_type", eventType, "user_id", userID)
}

// A malformed payload is logged and swallowed so the publisher is not retried
func (s *Subscriber) badPayload(evt event.Event, err error) error {
	slog.Warn(LogMsgBadPayload, "event_type", evt.Type, "error", err)
	return nil
}
