package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/investment"
)

// PropertyRequest targets one property of a user
type PropertyRequest struct {
	UserID   string `json:"user_id" validate:"required,max=64"`
	Property string `json:"property" validate:"required,max=64"`
}

// PortfolioRequest targets all of a user's properties
type PortfolioRequest struct {
	UserID string `json:"user_id" validate:"required,max=64"`
}

// CatalogResponse lists what can be bought
type CatalogResponse struct {
	Properties []domain.PropertyCatalogEntry `json:"properties"`
}

type propertyAction func(ctx context.Context, userID, property string) (*investment.Outcome, error)

// InvestmentHandlers serves the bot-facing property routes
type InvestmentHandlers struct {
	service investment.Service
}

func NewInvestmentHandlers(service investment.Service) *InvestmentHandlers {
	return &InvestmentHandlers{service: service}
}

func (h *InvestmentHandlers) single(op string, action propertyAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PropertyRequest
		if !decodeAndValidate(w, r, &req, op) {
			return
		}
		out, err := action(r.Context(), req.UserID, req.Property)
		if err != nil {
			respondServiceError(w, r, op, err)
			return
		}
		respondJSON(w, http.StatusOK, out)
	}
}

// HandlePurchase buys a property
// @Summary Purchase a property
// @Tags investments
// @Accept json
// @Produce json
// @Param request body PropertyRequest true "Property"
// @Success 200 {object} investment.Outcome
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /investments/purchase [post]
func (h *InvestmentHandlers) HandlePurchase() http.HandlerFunc {
	return h.single("Purchase", h.service.Purchase)
}

// HandleSell sells a property for 70% of its price
// @Summary Sell a property
// @Tags investments
// @Accept json
// @Produce json
// @Param request body PropertyRequest true "Property"
// @Success 200 {object} investment.Outcome
// @Router /investments/sell [post]
func (h *InvestmentHandlers) HandleSell() http.HandlerFunc {
	return h.single("Sell", h.service.Sell)
}

// HandleMaintain pays to restore maintenance
// @Summary Maintain a property
// @Tags investments
// @Accept json
// @Produce json
// @Param request body PropertyRequest true "Property"
// @Success 200 {object} investment.Outcome
// @Router /investments/maintain [post]
func (h *InvestmentHandlers) HandleMaintain() http.HandlerFunc {
	return h.single("Maintain", h.service.Maintain)
}

// HandleRepair clears a risk event
// @Summary Repair a property
// @Tags investments
// @Accept json
// @Produce json
// @Param request body PropertyRequest true "Property"
// @Success 200 {object} investment.Outcome
// @Router /investments/repair [post]
func (h *InvestmentHandlers) HandleRepair() http.HandlerFunc {
	return h.single("Repair", h.service.Repair)
}

// HandleCollect collects one property's income
// @Summary Collect income
// @Tags investments
// @Accept json
// @Produce json
// @Param request body PropertyRequest true "Property"
// @Success 200 {object} investment.Outcome
// @Failure 429 {object} ErrorResponse
// @Router /investments/collect [post]
func (h *InvestmentHandlers) HandleCollect() http.HandlerFunc {
	return h.single("Collect", h.service.Collect)
}

// HandleCollectAll collects every property off cooldown
// @Summary Collect all income
// @Tags investments
// @Accept json
// @Produce json
// @Param request body PortfolioRequest true "User"
// @Success 200 {object} investment.CollectAllResult
// @Router /investments/collect-all [post]
func (h *InvestmentHandlers) HandleCollectAll(w http.ResponseWriter, r *http.Request) {
	var req PortfolioRequest
	if !decodeAndValidate(w, r, &req, "Collect all") {
		return
	}
	res, err := h.service.CollectAll(r.Context(), req.UserID)
	if err != nil {
		respondServiceError(w, r, "Collect all", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// HandleMaintainAll maintains every property below 90%
// @Summary Maintain all properties
// @Tags investments
// @Accept json
// @Produce json
// @Param request body PortfolioRequest true "User"
// @Success 200 {object} investment.MaintainAllResult
// @Router /investments/maintain-all [post]
func (h *InvestmentHandlers) HandleMaintainAll(w http.ResponseWriter, r *http.Request) {
	var req PortfolioRequest
	if !decodeAndValidate(w, r, &req, "Maintain all") {
		return
	}
	res, err := h.service.MaintainAll(r.Context(), req.UserID)
	if err != nil {
		respondServiceError(w, r, "Maintain all", err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// HandleCatalog lists the property catalog
// @Summary Property catalog
// @Tags investments
// @Produce json
// @Success 200 {object} CatalogResponse
// @Router /investments/catalog [get]
func (h *InvestmentHandlers) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, CatalogResponse{Properties: h.service.Catalog()})
}

// HandlePortfolio returns the user's properties with projections
// @Summary Portfolio
// @Tags investments
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} investment.Portfolio
// @Router /investments/portfolio/{userID} [get]
func (h *InvestmentHandlers) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Portfolio(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondServiceError(w, r, "Portfolio", err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// AttentionResponse wraps the needs-attention sweep
type AttentionResponse struct {
	Users []investment.Attention `json:"users"`
}

// HandleAttention lists users with neglected or broken properties
// @Summary Properties needing attention
// @Tags investments
// @Produce json
// @Success 200 {object} AttentionResponse
// @Router /investments/attention [get]
func (h *InvestmentHandlers) HandleAttention(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.NeedsAttention(r.Context())
	if err != nil {
		respondServiceError(w, r, "Needs attention", err)
		return
	}
	if items == nil {
		items = []investment.Attention{}
	}
	respondJSON(w, http.StatusOK, AttentionResponse{Users: items})
}
