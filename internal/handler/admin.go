package handler

import (
	"net/http"
	"time"

	"github.com/osse101/CommunityEconomy_Go/internal/boost"
	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/investment"
	"github.com/osse101/CommunityEconomy_Go/internal/logger"
	"github.com/osse101/CommunityEconomy_Go/internal/progression"
	"github.com/osse101/CommunityEconomy_Go/internal/settings"
)

// Coin adjustment actions
const (
	CoinActionAdd    = "add"
	CoinActionRemove = "remove"
)

// AdminCoinsRequest adds or removes coins
type AdminCoinsRequest struct {
	UserID   string  `json:"user_id" validate:"required,max=64"`
	Username string  `json:"username" validate:"max=100"`
	Amount   float64 `json:"amount" validate:"gt=0,max=10000000"`
	Action   string  `json:"action" validate:"required,oneof=add remove"`
}

// AdminLevelsRequest moves a user up or down by Delta levels
type AdminLevelsRequest struct {
	UserID   string `json:"user_id" validate:"required,max=64"`
	Username string `json:"username" validate:"max=100"`
	Delta    int    `json:"delta" validate:"ne=0,min=-1000,max=1000"`
}

// XPToggleRequest turns XP and coin gain on or off
type XPToggleRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// PermanentBoostRequest grants a permanent perk
type PermanentBoostRequest struct {
	UserID string  `json:"user_id" validate:"required,max=64"`
	Stat   string  `json:"stat" validate:"required,boost_stat"`
	Value  float64 `json:"value" validate:"gte=1,max=10"`
}

// TemporaryBoostRequest grants a time-boxed boost
type TemporaryBoostRequest struct {
	UserID          string  `json:"user_id" validate:"required,max=64"`
	Stat            string  `json:"stat" validate:"required,boost_stat"`
	Value           float64 `json:"value" validate:"gte=1,max=10"`
	DurationSeconds int64   `json:"duration_seconds" validate:"min=1,max=31536000"`
}

// SettingsResponse carries the settings after a write
type SettingsResponse struct {
	Message  string          `json:"message"`
	Settings domain.Settings `json:"settings"`
}

// AdminHandlers groups the API-key protected admin routes
type AdminHandlers struct {
	progression progression.Service
	investment  investment.Service
	settings    settings.Store
	boosts      boost.Service
}

func NewAdminHandlers(prog progression.Service, inv investment.Service, store settings.Store, boosts boost.Service) *AdminHandlers {
	return &AdminHandlers{progression: prog, investment: inv, settings: store, boosts: boosts}
}

// HandleCoins adds or removes coins. Adds bypass the XP toggle.
// @Summary Adjust coins
// @Tags admin
// @Accept json
// @Produce json
// @Param request body AdminCoinsRequest true "Adjustment"
// @Success 200 {object} domain.Account
// @Failure 400 {object} ErrorResponse
// @Router /admin/coins [post]
func (h *AdminHandlers) HandleCoins(w http.ResponseWriter, r *http.Request) {
	var req AdminCoinsRequest
	if !decodeAndValidate(w, r, &req, "Admin coins") {
		return
	}
	delta := req.Amount
	if req.Action == CoinActionRemove {
		delta = -delta
	}
	acc, err := h.progression.AdjustCoins(r.Context(), progression.CoinAdjustment{
		UserID:   req.UserID,
		Username: req.Username,
		Delta:    delta,
		Source:   progression.SourceAdminGrant,
	})
	if err != nil {
		respondServiceError(w, r, "Admin coins", err)
		return
	}
	logger.FromContext(r.Context()).Info("Admin coin adjustment", "user_id", req.UserID, "delta", delta)
	respondJSON(w, http.StatusOK, acc)
}

// HandleLevels adds or removes levels
// @Summary Adjust levels
// @Tags admin
// @Accept json
// @Produce json
// @Param request body AdminLevelsRequest true "Adjustment"
// @Success 200 {object} domain.Account
// @Router /admin/levels [post]
func (h *AdminHandlers) HandleLevels(w http.ResponseWriter, r *http.Request) {
	var req AdminLevelsRequest
	if !decodeAndValidate(w, r, &req, "Admin levels") {
		return
	}
	acc, err := h.progression.AdminAdjustLevels(r.Context(), progression.LevelAdjustment{
		UserID:   req.UserID,
		Username: req.Username,
		Delta:    req.Delta,
	})
	if err != nil {
		respondServiceError(w, r, "Admin levels", err)
		return
	}
	respondJSON(w, http.StatusOK, acc)
}

// HandleXPToggle flips the global XP switch
// @Summary Toggle XP gain
// @Tags admin
// @Accept json
// @Produce json
// @Param request body XPToggleRequest true "Toggle"
// @Success 200 {object} SettingsResponse
// @Router /admin/xp-toggle [post]
func (h *AdminHandlers) HandleXPToggle(w http.ResponseWriter, r *http.Request) {
	var req XPToggleRequest
	if !decodeAndValidate(w, r, &req, "XP toggle") {
		return
	}
	st, err := h.settings.SetXPEnabled(r.Context(), *req.Enabled)
	if err != nil {
		respondServiceError(w, r, "XP toggle", err)
		return
	}
	msg := MsgXPDisabled
	if st.XPEnabled {
		msg = MsgXPEnabled
	}
	respondJSON(w, http.StatusOK, SettingsResponse{Message: msg, Settings: st})
}

// HandlePatchSettings applies a partial settings update
// @Summary Update settings
// @Tags admin
// @Accept json
// @Produce json
// @Param request body settings.Patch true "Fields to change"
// @Success 200 {object} SettingsResponse
// @Failure 400 {object} ErrorResponse
// @Router /admin/settings [patch]
func (h *AdminHandlers) HandlePatchSettings(w http.ResponseWriter, r *http.Request) {
	var patch settings.Patch
	if !decodeAndValidate(w, r, &patch, "Patch settings") {
		return
	}
	if patch.IsEmpty() {
		respondError(w, http.StatusBadRequest, ErrMsgEmptyPatch)
		return
	}
	st, err := h.settings.Update(r.Context(), patch.Apply)
	if err != nil {
		respondServiceError(w, r, "Patch settings", err)
		return
	}
	respondJSON(w, http.StatusOK, SettingsResponse{Message: MsgSettingsSaved, Settings: st})
}

// HandleGetSettings returns the current settings snapshot
// @Summary Get settings
// @Tags admin
// @Produce json
// @Success 200 {object} domain.Settings
// @Router /admin/settings [get]
func (h *AdminHandlers) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	st, err := h.settings.Get(r.Context())
	if err != nil {
		respondServiceError(w, r, "Get settings", err)
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// HandlePermanentBoost grants a permanent perk
// @Summary Grant permanent perk
// @Tags admin
// @Accept json
// @Produce json
// @Param request body PermanentBoostRequest true "Perk"
// @Success 201 {object} domain.PermanentPerk
// @Router /admin/boosts/permanent [post]
func (h *AdminHandlers) HandlePermanentBoost(w http.ResponseWriter, r *http.Request) {
	var req PermanentBoostRequest
	if !decodeAndValidate(w, r, &req, "Permanent boost") {
		return
	}
	perk, err := h.boosts.GrantPermanent(r.Context(), req.UserID, domain.BoostCategory(req.Stat), req.Value)
	if err != nil {
		respondServiceError(w, r, "Permanent boost", err)
		return
	}
	respondJSON(w, http.StatusCreated, perk)
}

// HandleTemporaryBoost grants a time-boxed boost
// @Summary Grant temporary boost
// @Tags admin
// @Accept json
// @Produce json
// @Param request body TemporaryBoostRequest true "Boost"
// @Success 201 {object} domain.ActiveBoost
// @Router /admin/boosts/temporary [post]
func (h *AdminHandlers) HandleTemporaryBoost(w http.ResponseWriter, r *http.Request) {
	var req TemporaryBoostRequest
	if !decodeAndValidate(w, r, &req, "Temporary boost") {
		return
	}
	b, err := h.boosts.GrantTemporary(r.Context(), req.UserID, domain.BoostCategory(req.Stat), req.Value,
		time.Duration(req.DurationSeconds)*time.Second)
	if err != nil {
		respondServiceError(w, r, "Temporary boost", err)
		return
	}
	respondJSON(w, http.StatusCreated, b)
}

// HandleResetIncome zeroes every property's accumulated income
// @Summary Reset accumulated income
// @Tags admin
// @Produce json
// @Success 200 {object} investment.ResetSummary
// @Router /admin/investments/reset-income [post]
func (h *AdminHandlers) HandleResetIncome(w http.ResponseWriter, r *http.Request) {
	res, err := h.investment.ResetAllAccumulated(r.Context())
	if err != nil {
		respondServiceError(w, r, "Reset income", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// HandleTick runs the property sweep now
// @Summary Run property tick
// @Tags admin
// @Produce json
// @Success 200 {object} investment.TickSummary
// @Router /admin/investments/tick [post]
func (h *AdminHandlers) HandleTick(w http.ResponseWriter, r *http.Request) {
	res, err := h.investment.UpdateProperties(r.Context())
	if err != nil {
		respondServiceError(w, r, "Manual tick", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}
