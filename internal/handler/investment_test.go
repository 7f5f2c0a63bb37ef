package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/investment"
)

func TestInvestmentSingleActions(t *testing.T) {
	svc := &mockInvestment{}
	h := NewInvestmentHandlers(svc)
	body := PropertyRequest{UserID: "u1", Property: "Grocery Store"}

	tests := []struct {
		method  string
		handler http.HandlerFunc
	}{
		{"Purchase", h.HandlePurchase()},
		{"Sell", h.HandleSell()},
		{"Maintain", h.HandleMaintain()},
		{"Repair", h.HandleRepair()},
		{"Collect", h.HandleCollect()},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			svc.On(tt.method, mock.Anything, "u1", "Grocery Store").
				Return(&investment.Outcome{Action: tt.method, Property: "Grocery Store"}, nil).Once()

			rec := httptest.NewRecorder()
			tt.handler(rec, jsonRequest(t, http.MethodPost, "/investments", body))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.method, decodeBody[investment.Outcome](t, rec).Action)
		})
	}
	svc.AssertExpectations(t)
}

func TestInvestmentRejections(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"already owned", domain.ErrPropertyAlreadyOwned, http.StatusConflict},
		{"unknown property", domain.ErrUnknownProperty, http.StatusNotFound},
		{"cooldown", fmt.Errorf("%w: 30 minutes left", domain.ErrCollectCooldown), http.StatusTooManyRequests},
		{"broke", domain.ErrInsufficientFunds, http.StatusBadRequest},
		{"storage", fmt.Errorf("%w: tx", domain.ErrOperationFailed), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockInvestment{}
			svc.On("Purchase", mock.Anything, "u1", "Shop").Return(nil, tt.err)

			rec := httptest.NewRecorder()
			NewInvestmentHandlers(svc).HandlePurchase()(rec,
				jsonRequest(t, http.MethodPost, "/investments/purchase", PropertyRequest{UserID: "u1", Property: "Shop"}))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandleCollectAll(t *testing.T) {
	svc := &mockInvestment{}
	svc.On("CollectAll", mock.Anything, "u1").Return(&investment.CollectAllResult{}, nil)

	rec := httptest.NewRecorder()
	NewInvestmentHandlers(svc).HandleCollectAll(rec, jsonRequest(t, http.MethodPost, "/investments/collect-all", PortfolioRequest{UserID: "u1"}))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandleMaintainAll_NothingToDo(t *testing.T) {
	svc := &mockInvestment{}
	svc.On("MaintainAll", mock.Anything, "u1").Return(nil, domain.ErrNothingToMaintain)

	rec := httptest.NewRecorder()
	NewInvestmentHandlers(svc).HandleMaintainAll(rec, jsonRequest(t, http.MethodPost, "/investments/maintain-all", PortfolioRequest{UserID: "u1"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrMsgNothingToMaintainError, decodeBody[ErrorResponse](t, rec).Error)
}

func TestHandleCatalogAndPortfolio(t *testing.T) {
	svc := &mockInvestment{}
	svc.On("Catalog").Return([]domain.PropertyCatalogEntry{{Name: "Shop"}})
	svc.On("Portfolio", mock.Anything, "u1").Return(&investment.Portfolio{UserID: "u1", HourlyRate: 25}, nil)
	h := NewInvestmentHandlers(svc)

	rec := httptest.NewRecorder()
	h.HandleCatalog(rec, httptest.NewRequest(http.MethodGet, "/investments/catalog", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[CatalogResponse](t, rec).Properties, 1)

	rec = httptest.NewRecorder()
	h.HandlePortfolio(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/investments/portfolio/u1", nil), "userID", "u1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 25, decodeBody[investment.Portfolio](t, rec).HourlyRate)
}

func TestHandleAttention(t *testing.T) {
	t.Run("lists users", func(t *testing.T) {
		svc := &mockInvestment{}
		svc.On("NeedsAttention", mock.Anything).Return([]investment.Attention{
			{UserID: "u1", RiskEvents: []string{"Shop"}},
		}, nil)
		h := NewInvestmentHandlers(svc)

		rec := httptest.NewRecorder()
		h.HandleAttention(rec, httptest.NewRequest(http.MethodGet, "/investments/attention", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", decodeBody[AttentionResponse](t, rec).Users[0].UserID)
	})

	t.Run("empty list is not null", func(t *testing.T) {
		svc := &mockInvestment{}
		svc.On("NeedsAttention", mock.Anything).Return(nil, nil)
		h := NewInvestmentHandlers(svc)

		rec := httptest.NewRecorder()
		h.HandleAttention(rec, httptest.NewRequest(http.MethodGet, "/investments/attention", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"users":[]`)
	})
}
