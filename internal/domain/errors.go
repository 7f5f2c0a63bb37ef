package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Account errors
	ErrMsgUserNotFound      = "user not found"
	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgFeatureDisabled   = "xp and coin gain is disabled"

	// Prestige errors
	ErrMsgPrestigeLevelTooLow = "level too low to prestige"
	ErrMsgMaxPrestigeReached  = "maximum prestige reached"

	// Investment errors
	ErrMsgUnknownProperty      = "unknown property"
	ErrMsgPropertyAlreadyOwned = "property already owned"
	ErrMsgPropertyNotOwned     = "property not owned"
	ErrMsgNoProperties         = "no properties owned"
	ErrMsgRiskEventActive      = "property has an active risk event"
	ErrMsgNoRiskEvent          = "property does not need repairs"
	ErrMsgMaintenanceFull      = "property is already fully maintained"
	ErrMsgNothingToMaintain    = "no properties need maintenance"
	ErrMsgCollectCooldown      = "collection on cooldown"
	ErrMsgNothingToCollect     = "no income to collect"

	// Boost errors
	ErrMsgInvalidBoostCategory = "invalid boost category"

	// Settings errors
	ErrMsgInvalidSettings = "invalid settings"

	// Input errors
	ErrMsgInvalidInput = "invalid input"

	// System errors
	ErrMsgOperationFailed = "operation failed"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrUserNotFound      = errors.New(ErrMsgUserNotFound)
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrFeatureDisabled   = errors.New(ErrMsgFeatureDisabled)

	ErrPrestigeLevelTooLow = errors.New(ErrMsgPrestigeLevelTooLow)
	ErrMaxPrestigeReached  = errors.New(ErrMsgMaxPrestigeReached)

	ErrUnknownProperty      = errors.New(ErrMsgUnknownProperty)
	ErrPropertyAlreadyOwned = errors.New(ErrMsgPropertyAlreadyOwned)
	ErrPropertyNotOwned     = errors.New(ErrMsgPropertyNotOwned)
	ErrNoProperties         = errors.New(ErrMsgNoProperties)
	ErrRiskEventActive      = errors.New(ErrMsgRiskEventActive)
	ErrNoRiskEvent          = errors.New(ErrMsgNoRiskEvent)
	ErrMaintenanceFull      = errors.New(ErrMsgMaintenanceFull)
	ErrNothingToMaintain    = errors.New(ErrMsgNothingToMaintain)
	ErrCollectCooldown      = errors.New(ErrMsgCollectCooldown)
	ErrNothingToCollect     = errors.New(ErrMsgNothingToCollect)

	ErrInvalidBoostCategory = errors.New(ErrMsgInvalidBoostCategory)
	ErrInvalidSettings      = errors.New(ErrMsgInvalidSettings)
	ErrInvalidInput         = errors.New(ErrMsgInvalidInput)

	// ErrOperationFailed wraps persistence failures; callers see a generic message
	ErrOperationFailed = errors.New(ErrMsgOperationFailed)
)

var rejections = []error{
	ErrUserNotFound, ErrInsufficientFunds, ErrFeatureDisabled,
	ErrPrestigeLevelTooLow, ErrMaxPrestigeReached,
	ErrUnknownProperty, ErrPropertyAlreadyOwned, ErrPropertyNotOwned, ErrNoProperties,
	ErrRiskEventActive, ErrNoRiskEvent, ErrMaintenanceFull, ErrNothingToMaintain,
	ErrCollectCooldown, ErrNothingToCollect,
	ErrInvalidBoostCategory, ErrInvalidSettings, ErrInvalidInput,
}

// IsRejection reports whether err is an expected business-rule failure
// rather than an integrity failure.
func IsRejection(err error) bool {
	if err == nil {
		return false
	}
	for _, r := range rejections {
		if errors.Is(err, r) {
			return true
		}
	}
	return false
}
