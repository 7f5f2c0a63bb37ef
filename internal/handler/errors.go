package handler

import (
	"errors"
	"net/http"

	"github.com/osse101/CommunityEconomy_Go/internal/auth"
	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/logger"
)

// Generic HTTP error messages for client responses.
// These never carry internal error details.
const (
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgInvalidLimit          = "Invalid limit parameter"
	ErrMsgEmptyPatch            = "No settings to update"
	ErrMsgGenericServerError    = "Something went wrong"
)

// User-facing messages for rejections
const (
	ErrMsgUserNotFoundError      = "User not found"
	ErrMsgNotEnoughCoinsError    = "Not enough coins"
	ErrMsgFeatureDisabledError   = "XP and coin gain is currently disabled"
	ErrMsgPrestigeTooLowError    = "Your level is too low to prestige"
	ErrMsgMaxPrestigeError       = "You have reached the maximum prestige"
	ErrMsgUnknownPropertyError   = "That property does not exist"
	ErrMsgAlreadyOwnedError      = "You already own that property"
	ErrMsgNotOwnedError          = "You do not own that property"
	ErrMsgNoPropertiesError      = "You do not own any properties"
	ErrMsgRiskEventError         = "That property needs repairs first"
	ErrMsgNoRiskEventError       = "That property does not need repairs"
	ErrMsgMaintenanceFullError   = "That property is already fully maintained"
	ErrMsgNothingToMaintainError = "None of your properties need maintenance"
	ErrMsgCollectCooldownError   = "Collection is on cooldown"
	ErrMsgNothingToCollectError  = "There is no income to collect yet"
	ErrMsgInvalidBoostError      = "Unknown boost category"
	ErrMsgInvalidSettingsError   = "Those settings are not valid"
	ErrMsgInvalidInputError      = "Invalid request. Please check your inputs."
	ErrMsgUnauthorizedError      = "Authentication failed"
)

// Success messages
const (
	MsgXPEnabled     = "XP and coin gain enabled"
	MsgXPDisabled    = "XP and coin gain disabled"
	MsgSettingsSaved = "Settings updated"
)

var errorMessages = []struct {
	err    error
	status int
	msg    string
}{
	{domain.ErrUserNotFound, http.StatusNotFound, ErrMsgUserNotFoundError},
	{domain.ErrInsufficientFunds, http.StatusBadRequest, ErrMsgNotEnoughCoinsError},
	{domain.ErrFeatureDisabled, http.StatusForbidden, ErrMsgFeatureDisabledError},
	{domain.ErrPrestigeLevelTooLow, http.StatusBadRequest, ErrMsgPrestigeTooLowError},
	{domain.ErrMaxPrestigeReached, http.StatusBadRequest, ErrMsgMaxPrestigeError},
	{domain.ErrUnknownProperty, http.StatusNotFound, ErrMsgUnknownPropertyError},
	{domain.ErrPropertyAlreadyOwned, http.StatusConflict, ErrMsgAlreadyOwnedError},
	{domain.ErrPropertyNotOwned, http.StatusBadRequest, ErrMsgNotOwnedError},
	{domain.ErrNoProperties, http.StatusBadRequest, ErrMsgNoPropertiesError},
	{domain.ErrRiskEventActive, http.StatusConflict, ErrMsgRiskEventError},
	{domain.ErrNoRiskEvent, http.StatusBadRequest, ErrMsgNoRiskEventError},
	{domain.ErrMaintenanceFull, http.StatusBadRequest, ErrMsgMaintenanceFullError},
	{domain.ErrNothingToMaintain, http.StatusBadRequest, ErrMsgNothingToMaintainError},
	{domain.ErrCollectCooldown, http.StatusTooManyRequests, ErrMsgCollectCooldownError},
	{domain.ErrNothingToCollect, http.StatusBadRequest, ErrMsgNothingToCollectError},
	{domain.ErrInvalidBoostCategory, http.StatusBadRequest, ErrMsgInvalidBoostError},
	{domain.ErrInvalidSettings, http.StatusBadRequest, ErrMsgInvalidSettingsError},
	{domain.ErrInvalidInput, http.StatusBadRequest, ErrMsgInvalidInputError},
	{auth.ErrInvalidToken, http.StatusBadRequest, ErrMsgInvalidInputError},
}

// mapServiceError maps a service error to a status and a message safe to
// show the user. Rejections keep their wrapped detail (e.g. the cooldown
// minutes); anything else becomes a generic 500.
func mapServiceError(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}
	for _, m := range errorMessages {
		if errors.Is(err, m.err) {
			if detail := rejectionDetail(err, m.err); detail != "" {
				return m.status, m.msg + ": " + detail
			}
			return m.status, m.msg
		}
	}
	return http.StatusInternalServerError, ErrMsgGenericServerError
}

// rejectionDetail returns what a "%w: detail" wrap appended to sentinel
func rejectionDetail(err, sentinel error) string {
	full, base := err.Error(), sentinel.Error()
	if len(full) > len(base)+2 && full[:len(base)] == base && full[len(base):len(base)+2] == ": " {
		return full[len(base)+2:]
	}
	return ""
}

// respondServiceError logs and writes err. Integrity failures log at error
// level, rejections at info.
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	log := logger.FromContext(r.Context())
	status, msg := mapServiceError(err)
	if status >= http.StatusInternalServerError {
		log.Error(op+": service error", "error", err)
	} else {
		log.Info(op+": rejected", "reason", err.Error())
	}
	respondError(w, status, msg)
}
