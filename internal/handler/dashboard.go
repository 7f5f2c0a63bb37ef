package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/CommunityEconomy_Go/internal/auth"
	"github.com/osse101/CommunityEconomy_Go/internal/boost"
	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/investment"
	"github.com/osse101/CommunityEconomy_Go/internal/progression"
	"github.com/osse101/CommunityEconomy_Go/internal/settings"
)

// TokenRequest asks for a dashboard token on behalf of a chat user
type TokenRequest struct {
	UserID   string `json:"user_id" validate:"required,max=64"`
	Username string `json:"username" validate:"max=100"`
}

// TokenResponse is a signed dashboard token
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// DashboardView is everything the dashboard renders for one user.
// Account is nil until the user has earned anything.
type DashboardView struct {
	Account   *progression.AccountSnapshot  `json:"account"`
	Settings  domain.Settings               `json:"settings"`
	Boosts    *domain.BoostSummary          `json:"boosts"`
	Portfolio *investment.Portfolio         `json:"portfolio"`
	Catalog   []domain.PropertyCatalogEntry `json:"catalog"`
}

// DashboardHandlers serves the JWT protected dashboard routes
type DashboardHandlers struct {
	tokens      *auth.Tokens
	progression progression.Service
	investment  investment.Service
	settings    settings.Store
	boosts      boost.Service
}

func NewDashboardHandlers(tokens *auth.Tokens, prog progression.Service, inv investment.Service, store settings.Store, boosts boost.Service) *DashboardHandlers {
	return &DashboardHandlers{tokens: tokens, progression: prog, investment: inv, settings: store, boosts: boosts}
}

// HandleIssueToken signs a dashboard token. The bot calls this with its
// API key and hands the token to the user.
// @Summary Issue dashboard token
// @Tags dashboard
// @Accept json
// @Produce json
// @Param request body TokenRequest true "User"
// @Success 200 {object} TokenResponse
// @Security ApiKeyAuth
// @Router /dashboard/token [post]
func (h *DashboardHandlers) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !decodeAndValidate(w, r, &req, "Issue token") {
		return
	}
	token, exp, err := h.tokens.Issue(req.UserID, req.Username)
	if err != nil {
		respondServiceError(w, r, "Issue token", err)
		return
	}
	respondJSON(w, http.StatusOK, TokenResponse{Token: token, ExpiresAt: exp.Unix()})
}

// HandleMe returns the caller's dashboard view
// @Summary Current user's dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} DashboardView
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /dashboard/me [get]
func (h *DashboardHandlers) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrMsgUnauthorizedError)
		return
	}
	ctx := r.Context()

	view := DashboardView{Catalog: h.investment.Catalog()}

	snap, err := h.progression.GetAccount(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
	case err != nil:
		respondServiceError(w, r, "Dashboard account", err)
		return
	default:
		view.Account = snap
	}

	if view.Settings, err = h.settings.Get(ctx); err != nil {
		respondServiceError(w, r, "Dashboard settings", err)
		return
	}
	if view.Boosts, err = h.boosts.ListBoosts(ctx, userID); err != nil {
		respondServiceError(w, r, "Dashboard boosts", err)
		return
	}
	if view.Portfolio, err = h.investment.Portfolio(ctx, userID); err != nil {
		respondServiceError(w, r, "Dashboard portfolio", err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *DashboardHandlers) own(op string, action propertyAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserFromRequest(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, ErrMsgUnauthorizedError)
			return
		}
		out, err := action(r.Context(), userID, chi.URLParam(r, "property"))
		if err != nil {
			respondServiceError(w, r, op, err)
			return
		}
		respondJSON(w, http.StatusOK, out)
	}
}

// HandleCollect collects income from one of the caller's properties
// @Summary Collect from a property
// @Tags dashboard
// @Produce json
// @Param property path string true "Property name"
// @Success 200 {object} investment.Outcome
// @Security BearerAuth
// @Router /dashboard/investments/{property}/collect [post]
func (h *DashboardHandlers) HandleCollect() http.HandlerFunc {
	return h.own("Dashboard collect", h.investment.Collect)
}

// HandleMaintain maintains one of the caller's properties
// @Summary Maintain a property
// @Tags dashboard
// @Produce json
// @Param property path string true "Property name"
// @Success 200 {object} investment.Outcome
// @Security BearerAuth
// @Router /dashboard/investments/{property}/maintain [post]
func (h *DashboardHandlers) HandleMaintain() http.HandlerFunc {
	return h.own("Dashboard maintain", h.investment.Maintain)
}

// HandleRepair repairs one of the caller's properties
// @Summary Repair a property
// @Tags dashboard
// @Produce json
// @Param property path string true "Property name"
// @Success 200 {object} investment.Outcome
// @Security BearerAuth
// @Router /dashboard/investments/{property}/repair [post]
func (h *DashboardHandlers) HandleRepair() http.HandlerFunc {
	return h.own("Dashboard repair", h.investment.Repair)
}
