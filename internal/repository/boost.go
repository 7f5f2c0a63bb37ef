package repository

import (
	"context"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
)

// Boost defines the interface for perk and time-boxed boost persistence
type Boost interface {
	GetPermanentPerks(ctx context.Context, userID string) ([]domain.PermanentPerk, error)
	GetActiveBoosts(ctx context.Context, userID string) ([]domain.ActiveBoost, error)
	UpsertPermanentPerk(ctx context.Context, perk domain.PermanentPerk) error
	InsertActiveBoost(ctx context.Context, boost domain.ActiveBoost) error
	// DeleteExpiredBoosts removes boosts whose end time is at or before now
	DeleteExpiredBoosts(ctx context.Context, now int64) (int64, error)
}
