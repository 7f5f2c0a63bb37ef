package progression

import "github.com/osse101/CommunityEconomy_Go/internal/domain"

// Status describes what an award call did
type Status string

const (
	StatusAwarded    Status = "awarded"
	StatusDisabled   Status = "disabled"
	StatusOnCooldown Status = "on_cooldown"
)

// CoinSource tags who is moving coins. Only normal accrual honours the
// global XP toggle.
type CoinSource string

const (
	SourceNormalAccrual CoinSource = "normal_accrual"
	SourceAdminGrant    CoinSource = "admin_grant"
)

// IsValid reports whether s is a known source
func (s CoinSource) IsValid() bool {
	return s == SourceNormalAccrual || s == SourceAdminGrant
}

// MessageXPRequest awards XP for one chat message.
// Amount overrides the configured XP when set; zero multipliers mean 1.0.
type MessageXPRequest struct {
	UserID         string
	Username       string
	Amount         *int
	XPMultiplier   float64
	CoinMultiplier float64
}

// MessageXPResult is the outcome of a message award.
// Account is nil when the message was on cooldown.
type MessageXPResult struct {
	Status            Status          `json:"status"`
	Account           *domain.Account `json:"account,omitempty"`
	LeveledUp         bool            `json:"leveled_up"`
	PreviousLevel     int             `json:"previous_level"`
	LevelsGained      int             `json:"levels_gained"`
	XPGranted         int             `json:"xp_granted"`
	CoinsGranted      float64         `json:"coins_granted"`
	CooldownRemaining int64           `json:"cooldown_remaining,omitempty"`
}

// VoiceActivityRequest credits whole minutes spent in voice
type VoiceActivityRequest struct {
	UserID      string
	Username    string
	Minutes     int
	IsStreaming bool
	IsActive    bool
}

// ActivityResult is the outcome of a voice or image award
type ActivityResult struct {
	Status        Status          `json:"status"`
	Account       *domain.Account `json:"account,omitempty"`
	LeveledUp     bool            `json:"leveled_up"`
	PreviousLevel int             `json:"previous_level"`
	LevelsGained  int             `json:"levels_gained"`
	XPGranted     int             `json:"xp_granted"`
	CoinsGranted  float64         `json:"coins_granted"`
	LevelUpCoins  float64         `json:"level_up_coins"`
}

// CoinAdjustment adds (positive Delta) or removes coins
type CoinAdjustment struct {
	UserID   string
	Username string
	Delta    float64
	Source   CoinSource
}

// LevelAdjustment adds (positive Delta) or removes levels
type LevelAdjustment struct {
	UserID   string
	Username string
	Delta    int
}

// PrestigeResult is the outcome of a successful prestige
type PrestigeResult struct {
	Account         *domain.Account `json:"account"`
	NewPrestige     int             `json:"new_prestige"`
	CoinsGranted    float64         `json:"coins_granted"`
	BoostMultiplier float64         `json:"boost_multiplier"`
	BoostEndTime    int64           `json:"boost_end_time"`
}

// AccountSnapshot is the read view of an account with derived progress
type AccountSnapshot struct {
	Account             *domain.Account `json:"account"`
	XPRequired          int             `json:"xp_required"`
	CanPrestige         bool            `json:"can_prestige"`
	PrestigeBoostActive bool            `json:"prestige_boost_active"`
	BoostSecondsLeft    int64           `json:"boost_seconds_left"`
}
