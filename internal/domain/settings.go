package domain

// Settings is the singleton configuration row controlling every reward rate.
// Validation tags are checked on every administrative update.
type Settings struct {
	XPEnabled         bool `json:"xp_enabled"`
	XPPerMessage      int  `json:"xp_per_message" validate:"min=1"`
	MinXPPerMessage   int  `json:"min_xp_per_message" validate:"min=0"`
	MaxXPPerMessage   int  `json:"max_xp_per_message" validate:"min=0,gtefield=MinXPPerMessage"`
	XPCooldownSeconds int  `json:"xp_cooldown" validate:"min=0"`
	BaseXPRequired    int  `json:"base_xp_required" validate:"min=1"`
	CoinsPerLevel     int  `json:"coins_per_level" validate:"min=0"`

	VoiceActiveXP      int     `json:"voice_active_xp" validate:"min=0"`
	VoiceInactiveXP    int     `json:"voice_inactive_xp" validate:"min=0"`
	VoiceActiveCoins   float64 `json:"voice_active_coins" validate:"min=0"`
	VoiceInactiveCoins float64 `json:"voice_inactive_coins" validate:"min=0"`
	StreamingXP        int     `json:"streaming_xp" validate:"min=0"`
	StreamingCoins     float64 `json:"streaming_coins" validate:"min=0"`
	ImageXP            int     `json:"image_xp" validate:"min=0"`

	LevelsPerPrestige       int     `json:"levels_per_prestige" validate:"min=1"`
	MaxPrestige             int     `json:"max_prestige" validate:"min=0"`
	PrestigeCoins           int     `json:"prestige_coins" validate:"min=0"`
	PrestigeBoostMultiplier float64 `json:"prestige_boost_multiplier" validate:"gte=1"`
	PrestigeBoostDuration   int64   `json:"prestige_boost_duration" validate:"min=0"`

	EventXPMultiplier   float64 `json:"event_xp_multiplier" validate:"gt=0"`
	EventCoinMultiplier float64 `json:"event_coin_multiplier" validate:"gt=0"`
}

// DefaultSettings returns the values used when the settings row is first created
func DefaultSettings() Settings {
	return Settings{
		XPEnabled:         true,
		XPPerMessage:      15,
		MinXPPerMessage:   5,
		MaxXPPerMessage:   15,
		XPCooldownSeconds: 60,
		BaseXPRequired:    75,
		CoinsPerLevel:     35,

		VoiceActiveXP:      2,
		VoiceInactiveXP:    1,
		VoiceActiveCoins:   1.0,
		VoiceInactiveCoins: 0.5,
		StreamingXP:        5,
		StreamingCoins:     3.0,
		ImageXP:            30,

		LevelsPerPrestige:       100,
		MaxPrestige:             5,
		PrestigeCoins:           2000,
		PrestigeBoostMultiplier: 1.5,
		PrestigeBoostDuration:   172800,

		EventXPMultiplier:   1.0,
		EventCoinMultiplier: 1.0,
	}
}

// XPRequired returns the XP needed to advance past level
func (s Settings) XPRequired(level int) int {
	return s.BaseXPRequired * level
}

// HasRandomMessageXP reports whether message XP is drawn from a range
func (s Settings) HasRandomMessageXP() bool {
	return s.MinXPPerMessage > 0 && s.MaxXPPerMessage > 0 && s.MinXPPerMessage != s.MaxXPPerMessage
}
