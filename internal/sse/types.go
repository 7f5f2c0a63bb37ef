package sse

// LevelUpPayload is pushed to the levelled-up user's streams
type LevelUpPayload struct {
	OldLevel    int     `json:"old_level"`
	NewLevel    int     `json:"new_level"`
	CoinsReward float64 `json:"coins_reward"`
	Source      string  `json:"source"`
}

// PrestigePayload is pushed after a prestige reset
type PrestigePayload struct {
	NewPrestige     int     `json:"new_prestige"`
	BoostMultiplier float64 `json:"boost_multiplier"`
	BoostEndTime    int64   `json:"boost_end_time"`
}

// RiskEventPayload tells the owner a property needs repair
type RiskEventPayload struct {
	Property  string `json:"property"`
	EventType string `json:"event_type"`
}

// IncomeCollectedPayload reports a collection
type IncomeCollectedPayload struct {
	Properties []string `json:"properties"`
	Amount     int      `json:"amount"`
}

// TickCompletedPayload is broadcast to every client
type TickCompletedPayload struct {
	PropertiesProcessed int `json:"properties_processed"`
	RiskEvents          int `json:"risk_events"`
}
