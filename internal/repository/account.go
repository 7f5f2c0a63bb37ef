package repository

import (
	"context"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
)

// Account defines the interface for progression persistence
type Account interface {
	// GetAccount returns domain.ErrUserNotFound when the user has never interacted
	GetAccount(ctx context.Context, userID string) (*domain.Account, error)
	GetLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	BeginTx(ctx context.Context) (AccountTx, error)
}

// AccountTx defines the interface for progression transactions.
// Reads inside the transaction lock the account row until commit.
type AccountTx interface {
	Tx
	GetOrCreateAccount(ctx context.Context, userID, username string) (*domain.Account, error)
	GetAccountForUpdate(ctx context.Context, userID string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, account *domain.Account) error
}
