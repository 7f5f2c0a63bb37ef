package domain

// Event types follow the pattern: <entity>.<action>
const (
	// EventTypeLevelUp is published when an award pushes a user past one or more levels
	EventTypeLevelUp = "progression.level_up"

	// EventTypePrestige is published after a successful prestige reset
	EventTypePrestige = "progression.prestige"

	// EventTypeRiskEventTriggered is published when the tick puts a property into a risk event
	EventTypeRiskEventTriggered = "investment.risk_event"

	// EventTypeIncomeCollected is published when a user collects property income
	EventTypeIncomeCollected = "investment.income_collected"

	// EventTypeTickCompleted is published after each property sweep
	EventTypeTickCompleted = "investment.tick_completed"
)

// Reward sources, used as event metadata and metric labels
const (
	SourceMessage  = "message"
	SourceVoice    = "voice"
	SourceImage    = "image"
	SourceAdmin    = "admin"
	SourcePrestige = "prestige"
)

// LevelUpPayload describes a level change
type LevelUpPayload struct {
	UserID      string  `json:"user_id"`
	Username    string  `json:"username"`
	OldLevel    int     `json:"old_level"`
	NewLevel    int     `json:"new_level"`
	CoinsReward float64 `json:"coins_reward"`
	Source      string  `json:"source"`
}

// PrestigePayload describes a prestige reset
type PrestigePayload struct {
	UserID          string  `json:"user_id"`
	Username        string  `json:"username"`
	NewPrestige     int     `json:"new_prestige"`
	CoinsReward     float64 `json:"coins_reward"`
	BoostMultiplier float64 `json:"boost_multiplier"`
	BoostEndTime    int64   `json:"boost_end_time"`
}

// RiskEventPayload describes a newly triggered risk event
type RiskEventPayload struct {
	UserID       string  `json:"user_id"`
	PropertyName string  `json:"property_name"`
	EventType    string  `json:"event_type"`
	Maintenance  float64 `json:"maintenance"`
}

// IncomeCollectedPayload describes a successful collection
type IncomeCollectedPayload struct {
	UserID     string   `json:"user_id"`
	Properties []string `json:"properties"`
	Amount     int      `json:"amount"`
}

// TickSummaryPayload describes a completed property sweep
type TickSummaryPayload struct {
	PropertiesProcessed int     `json:"properties_processed"`
	UsersWithIncome     int     `json:"users_with_income"`
	IncomeAdded         float64 `json:"income_added"`
	RiskEvents          int     `json:"risk_events"`
	Failures            int     `json:"failures"`
}
