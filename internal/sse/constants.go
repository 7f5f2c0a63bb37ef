package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 100

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 50

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 10
)

// KeepaliveInterval is how often an idle stream gets a ping
const KeepaliveInterval = 30 * time.Second

// Event types sent to dashboard clients
const (
	EventTypeLevelUp         = "level_up"
	EventTypePrestige        = "prestige"
	EventTypeRiskEvent       = "risk_event"
	EventTypeIncomeCollected = "income_collected"
	EventTypeTickCompleted   = "tick_completed"

	EventTypeConnected = "connected"
	EventTypeKeepalive = "keepalive"
)

// Query parameter holding a comma separated type filter
const QueryParamTypes = "types"

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventBroadcast     = "Broadcasting SSE event"
	LogMsgEventDropped       = "SSE broadcast buffer full, dropping event"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgBadPayload         = "Unexpected payload for SSE bridge"
	LogMsgSubscribed         = "SSE subscriber registered for event types"
)
