package investment

// Action names used for metrics and outcomes
const (
	ActionPurchase    = "purchase"
	ActionSell        = "sell"
	ActionMaintain    = "maintain"
	ActionRepair      = "repair"
	ActionCollect     = "collect"
	ActionCollectAll  = "collect_all"
	ActionMaintainAll = "maintain_all"
)

// TickLockKey is the advisory lock id guarding the property sweep
const TickLockKey int64 = 0x45434f4e5449434b

// Status lines shown on the portfolio
const (
	TextAtCapacity     = "At maximum capacity"
	TextNeedsAttention = "Needs attention"
	TextFullInMinutes  = "Full in %d minutes"
	TextFullInHours    = "Full in %d hours"
	TextReadyToCollect = "Ready to collect!"
	TextCooldown       = "Cooldown: %dm %ds remaining"
)

// Log messages
const (
	LogMsgPurchased       = "Property purchased"
	LogMsgSold            = "Property sold"
	LogMsgMaintained      = "Property maintained"
	LogMsgRepaired        = "Property repaired"
	LogMsgCollected       = "Income collected"
	LogMsgFractionCleared = "Fractional income cleared"
	LogMsgMaintainedAll   = "All properties maintained"
	LogMsgTickStarted     = "Property update started"
	LogMsgTickCompleted   = "Property update complete"
	LogMsgTickSkipped     = "Property update already running elsewhere, skipping"
	LogMsgTickFailed      = "Failed to update property"
	LogMsgRiskEvent       = "Risk event triggered"
	LogMsgIncomeReset     = "Accumulated income reset"
	LogMsgUnknownProperty = "Owned property missing from catalog, skipping"
	LogMsgPublishFailed   = "Failed to publish event"
)

// Error messages
const (
	ErrMsgBeginTx         = "failed to begin transaction"
	ErrMsgCommitTx        = "failed to commit transaction"
	ErrMsgLoadAccount     = "failed to load account"
	ErrMsgUpdateCoins     = "failed to update coins"
	ErrMsgLoadInvestments = "failed to load investments"
	ErrMsgSaveInvestment  = "failed to save investment"
	ErrMsgDeleteProperty  = "failed to delete investment"
	ErrMsgLoadInvestors   = "failed to load investors"
	ErrMsgResetIncome     = "failed to reset accumulated income"
	ErrMsgTickLock        = "failed to acquire tick lock"
)
