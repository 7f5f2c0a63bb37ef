package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata carries event envelope details such as id, timestamp and source
type Metadata map[string]interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// Economy event types
const (
	LevelUp            Type = Type(domain.EventTypeLevelUp)
	PrestigeReached    Type = Type(domain.EventTypePrestige)
	RiskEventTriggered Type = Type(domain.EventTypeRiskEventTriggered)
	IncomeCollected    Type = Type(domain.EventTypeIncomeCollected)
	TickCompleted      Type = Type(domain.EventTypeTickCompleted)
)

// AllTypes lists every event type the engines publish
var AllTypes = []Type{LevelUp, PrestigeReached, RiskEventTriggered, IncomeCollected, TickCompleted}

func newEvent(t Type, payload interface{}, source string) Event {
	md := Metadata{
		MetadataKeyEventID:   uuid.NewString(),
		MetadataKeyTimestamp: time.Now().Unix(),
	}
	if source != "" {
		md[MetadataKeySource] = source
	}
	return Event{
		Version:  EventSchemaVersion,
		Type:     t,
		Payload:  payload,
		Metadata: md,
	}
}

// Type-safe event constructors

// NewLevelUpEvent creates a level-up event for an award from source
func NewLevelUpEvent(p domain.LevelUpPayload) Event {
	return newEvent(LevelUp, p, p.Source)
}

// NewPrestigeEvent creates a prestige event
func NewPrestigeEvent(p domain.PrestigePayload) Event {
	return newEvent(PrestigeReached, p, "")
}

// NewRiskEventTriggered creates a risk event notification for one property
func NewRiskEventTriggered(p domain.RiskEventPayload) Event {
	return newEvent(RiskEventTriggered, p, "")
}

// NewIncomeCollectedEvent creates an income collected event
func NewIncomeCollectedEvent(p domain.IncomeCollectedPayload) Event {
	return newEvent(IncomeCollected, p, "")
}

// NewTickCompletedEvent creates a sweep summary event
func NewTickCompletedEvent(p domain.TickSummaryPayload) Event {
	return newEvent(TickCompleted, p, "")
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber synchronously and joins their errors
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll subscribes a handler to every economy event type
func SubscribeAll(bus Bus, handler Handler) {
	for _, t := range AllTypes {
		bus.Subscribe(t, handler)
	}
}
