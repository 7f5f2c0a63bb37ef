package bootstrap

import (
	"log/slog"

	"github.com/osse101/CommunityEconomy_Go/internal/event"
	"github.com/osse101/CommunityEconomy_Go/internal/metrics"
	"github.com/osse101/CommunityEconomy_Go/internal/sse"
)

// RegisterEventHandlers attaches the metrics collector and the dashboard
// live feed to the bus
func RegisterEventHandlers(bus event.Bus, hub *sse.Hub) {
	metrics.NewEventMetricsCollector().Register(bus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	sse.NewSubscriber(hub, bus).Subscribe()
	slog.Info(LogMsgLiveFeedSubscribed, "clients", hub.ClientCount())
}
