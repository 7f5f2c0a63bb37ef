package settings

import "github.com/osse101/CommunityEconomy_Go/internal/domain"

// Patch is a partial settings update; nil fields are left unchanged
type Patch struct {
	XPEnabled         *bool `json:"xp_enabled,omitempty"`
	XPPerMessage      *int  `json:"xp_per_message,omitempty"`
	MinXPPerMessage   *int  `json:"min_xp_per_message,omitempty"`
	MaxXPPerMessage   *int  `json:"max_xp_per_message,omitempty"`
	XPCooldownSeconds *int  `json:"xp_cooldown,omitempty"`
	BaseXPRequired    *int  `json:"base_xp_required,omitempty"`
	CoinsPerLevel     *int  `json:"coins_per_level,omitempty"`

	VoiceActiveXP      *int     `json:"voice_active_xp,omitempty"`
	VoiceInactiveXP    *int     `json:"voice_inactive_xp,omitempty"`
	VoiceActiveCoins   *float64 `json:"voice_active_coins,omitempty"`
	VoiceInactiveCoins *float64 `json:"voice_inactive_coins,omitempty"`
	StreamingXP        *int     `json:"streaming_xp,omitempty"`
	StreamingCoins     *float64 `json:"streaming_coins,omitempty"`
	ImageXP            *int     `json:"image_xp,omitempty"`

	LevelsPerPrestige       *int     `json:"levels_per_prestige,omitempty"`
	MaxPrestige             *int     `json:"max_prestige,omitempty"`
	PrestigeCoins           *int     `json:"prestige_coins,omitempty"`
	PrestigeBoostMultiplier *float64 `json:"prestige_boost_multiplier,omitempty"`
	PrestigeBoostDuration   *int64   `json:"prestige_boost_duration,omitempty"`

	EventXPMultiplier   *float64 `json:"event_xp_multiplier,omitempty"`
	EventCoinMultiplier *float64 `json:"event_coin_multiplier,omitempty"`
}

// Apply copies every set field onto s
func (p Patch) Apply(s *domain.Settings) {
	setBool(&s.XPEnabled, p.XPEnabled)
	setInt(&s.XPPerMessage, p.XPPerMessage)
	setInt(&s.MinXPPerMessage, p.MinXPPerMessage)
	setInt(&s.MaxXPPerMessage, p.MaxXPPerMessage)
	setInt(&s.XPCooldownSeconds, p.XPCooldownSeconds)
	setInt(&s.BaseXPRequired, p.BaseXPRequired)
	setInt(&s.CoinsPerLevel, p.CoinsPerLevel)

	setInt(&s.VoiceActiveXP, p.VoiceActiveXP)
	setInt(&s.VoiceInactiveXP, p.VoiceInactiveXP)
	setFloat(&s.VoiceActiveCoins, p.VoiceActiveCoins)
	setFloat(&s.VoiceInactiveCoins, p.VoiceInactiveCoins)
	setInt(&s.StreamingXP, p.StreamingXP)
	setFloat(&s.StreamingCoins, p.StreamingCoins)
	setInt(&s.ImageXP, p.ImageXP)

	setInt(&s.LevelsPerPrestige, p.LevelsPerPrestige)
	setInt(&s.MaxPrestige, p.MaxPrestige)
	setInt(&s.PrestigeCoins, p.PrestigeCoins)
	setFloat(&s.PrestigeBoostMultiplier, p.PrestigeBoostMultiplier)
	if p.PrestigeBoostDuration != nil {
		s.PrestigeBoostDuration = *p.PrestigeBoostDuration
	}

	setFloat(&s.EventXPMultiplier, p.EventXPMultiplier)
	setFloat(&s.EventCoinMultiplier, p.EventCoinMultiplier)
}

// IsEmpty reports whether the patch changes nothing
func (p Patch) IsEmpty() bool {
	return p.XPEnabled == nil && p.XPPerMessage == nil && p.MinXPPerMessage == nil &&
		p.MaxXPPerMessage == nil && p.XPCooldownSeconds == nil && p.BaseXPRequired == nil &&
		p.CoinsPerLevel == nil && p.VoiceActiveXP == nil && p.VoiceInactiveXP == nil &&
		p.VoiceActiveCoins == nil && p.VoiceInactiveCoins == nil && p.StreamingXP == nil &&
		p.StreamingCoins == nil && p.ImageXP == nil && p.LevelsPerPrestige == nil &&
		p.MaxPrestige == nil && p.PrestigeCoins == nil && p.PrestigeBoostMultiplier == nil &&
		p.PrestigeBoostDuration == nil && p.EventXPMultiplier == nil && p.EventCoinMultiplier == nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
