package repository

import (
	"context"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
)

// Investment defines the interface for portfolio persistence
type Investment interface {
	GetInvestments(ctx context.Context, userID string) ([]*domain.Investment, error)
	// GetInvestorIDs returns every user owning at least one property
	GetInvestorIDs(ctx context.Context) ([]string, error)
	// ResetAccumulatedIncome zeroes every property's accumulation and reports users and properties touched
	ResetAccumulatedIncome(ctx context.Context) (int, int, error)
	BeginTx(ctx context.Context) (InvestmentTx, error)
}

// InvestmentTx defines the interface for portfolio transactions.
// Coins and properties change together so a failed credit never loses a property.
type InvestmentTx interface {
	Tx
	GetAccountForUpdate(ctx context.Context, userID string) (*domain.Account, error)
	UpdateCoins(ctx context.Context, userID string, coins float64) error
	GetInvestmentsForUpdate(ctx context.Context, userID string) ([]*domain.Investment, error)
	// GetInvestmentForUpdate returns domain.ErrPropertyNotOwned when absent
	GetInvestmentForUpdate(ctx context.Context, userID, propertyName string) (*domain.Investment, error)
	InsertInvestment(ctx context.Context, inv *domain.Investment) error
	UpdateInvestment(ctx context.Context, inv *domain.Investment) error
	DeleteInvestment(ctx context.Context, userID, propertyName string) error
}
