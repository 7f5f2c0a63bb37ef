package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/progression"
)

// MessageRequest awards XP for one chat message
type MessageRequest struct {
	UserID         string  `json:"user_id" validate:"required,max=64"`
	Username       string  `json:"username" validate:"max=100"`
	Amount         *int    `json:"amount,omitempty" validate:"omitempty,min=1,max=10000"`
	XPMultiplier   float64 `json:"xp_multiplier,omitempty" validate:"omitempty,gt=0,max=100"`
	CoinMultiplier float64 `json:"coin_multiplier,omitempty" validate:"omitempty,gt=0,max=100"`
}

// VoiceRequest credits a flushed voice session
type VoiceRequest struct {
	UserID      string `json:"user_id" validate:"required,max=64"`
	Username    string `json:"username" validate:"max=100"`
	Minutes     int    `json:"minutes" validate:"min=1,max=1440"`
	IsStreaming bool   `json:"is_streaming"`
	IsActive    bool   `json:"is_active"`
}

// UserRequest names a user for image and prestige calls
type UserRequest struct {
	UserID   string `json:"user_id" validate:"required,max=64"`
	Username string `json:"username" validate:"max=100"`
}

// LeaderboardResponse wraps the ranking
type LeaderboardResponse struct {
	Entries []domain.LeaderboardEntry `json:"entries"`
}

// ProgressionHandlers serves the bot-facing XP and prestige routes
type ProgressionHandlers struct {
	service progression.Service
}

func NewProgressionHandlers(service progression.Service) *ProgressionHandlers {
	return &ProgressionHandlers{service: service}
}

// HandleMessage awards message XP
// @Summary Award message XP
// @Description Cooldown and the global toggle are reported in the status field, not as errors
// @Tags progression
// @Accept json
// @Produce json
// @Param request body MessageRequest true "Message"
// @Success 200 {object} progression.MessageXPResult
// @Failure 400 {object} ErrorResponse
// @Router /progression/message [post]
func (h *ProgressionHandlers) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if !decodeAndValidate(w, r, &req, "Message XP") {
		return
	}
	res, err := h.service.AwardMessageXP(r.Context(), progression.MessageXPRequest{
		UserID:         req.UserID,
		Username:       req.Username,
		Amount:         req.Amount,
		XPMultiplier:   req.XPMultiplier,
		CoinMultiplier: req.CoinMultiplier,
	})
	if err != nil {
		respondServiceError(w, r, "Message XP", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// HandleVoice credits voice minutes
// @Summary Award voice activity
// @Tags progression
// @Accept json
// @Produce json
// @Param request body VoiceRequest true "Voice session"
// @Success 200 {object} progression.ActivityResult
// @Router /progression/voice [post]
func (h *ProgressionHandlers) HandleVoice(w http.ResponseWriter, r *http.Request) {
	var req VoiceRequest
	if !decodeAndValidate(w, r, &req, "Voice XP") {
		return
	}
	res, err := h.service.AwardVoiceActivity(r.Context(), progression.VoiceActivityRequest{
		UserID:      req.UserID,
		Username:    req.Username,
		Minutes:     req.Minutes,
		IsStreaming: req.IsStreaming,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respondServiceError(w, r, "Voice XP", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// HandleImage awards XP for a shared image
// @Summary Award image share
// @Tags progression
// @Accept json
// @Produce json
// @Param request body UserRequest true "User"
// @Success 200 {object} progression.ActivityResult
// @Router /progression/image [post]
func (h *ProgressionHandlers) HandleImage(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if !decodeAndValidate(w, r, &req, "Image XP") {
		return
	}
	res, err := h.service.AwardImageShare(r.Context(), req.UserID, req.Username)
	if err != nil {
		respondServiceError(w, r, "Image XP", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// HandlePrestige resets the user's level for a prestige tier
// @Summary Prestige
// @Tags progression
// @Accept json
// @Produce json
// @Param request body UserRequest true "User"
// @Success 200 {object} progression.PrestigeResult
// @Failure 400 {object} ErrorResponse
// @Router /progression/prestige [post]
func (h *ProgressionHandlers) HandlePrestige(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if !decodeAndValidate(w, r, &req, "Prestige") {
		return
	}
	res, err := h.service.Prestige(r.Context(), req.UserID, req.Username)
	if err != nil {
		respondServiceError(w, r, "Prestige", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// HandleGetAccount returns the account snapshot
// @Summary Get account
// @Tags progression
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} progression.AccountSnapshot
// @Failure 404 {object} ErrorResponse
// @Router /progression/account/{userID} [get]
func (h *ProgressionHandlers) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.GetAccount(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondServiceError(w, r, "Get account", err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// HandleLeaderboard returns the top accounts
// @Summary Leaderboard
// @Tags progression
// @Produce json
// @Param limit query int false "Entries (default 10, max 50)"
// @Success 200 {object} LeaderboardResponse
// @Router /progression/leaderboard [get]
func (h *ProgressionHandlers) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, ok := optionalIntQuery(w, r, "limit", progression.DefaultLeaderboardLimit)
	if !ok {
		return
	}
	entries, err := h.service.Leaderboard(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, "Leaderboard", err)
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	respondJSON(w, http.StatusOK, LeaderboardResponse{Entries: entries})
}
