package progression

// Leaderboard bounds
const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 50
)

// noMultiplier is applied to level-up coins on the voice and image paths
const noMultiplier = 1.0

// Log messages
const (
	LogMsgXPDisabled      = "XP gain disabled, skipping award"
	LogMsgOnCooldown      = "Message XP on cooldown"
	LogMsgMessageAwarded  = "Message XP awarded"
	LogMsgVoiceAwarded    = "Voice activity awarded"
	LogMsgImageAwarded    = "Image share awarded"
	LogMsgLevelUp         = "User leveled up"
	LogMsgCoinsAdjusted   = "Coins adjusted"
	LogMsgAccrualDisabled = "Coin accrual disabled, skipping adjustment"
	LogMsgPrestiged       = "User prestiged"
	LogMsgLevelsAdjusted  = "Levels adjusted"
	LogMsgPublishFailed   = "Failed to publish event"
)

// Error messages
const (
	ErrMsgLoadSettings = "failed to load settings"
	ErrMsgBeginTx      = "failed to begin transaction"
	ErrMsgLoadAccount  = "failed to load account"
	ErrMsgSaveAccount  = "failed to save account"
	ErrMsgCommitTx     = "failed to commit transaction"
	ErrMsgLeaderboard  = "failed to load leaderboard"
)
