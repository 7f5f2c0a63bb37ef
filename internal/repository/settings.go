package repository

import (
	"context"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
)

// Settings defines the interface for the singleton settings row
type Settings interface {
	// GetSettings returns nil, nil when the row has not been created yet
	GetSettings(ctx context.Context) (*domain.Settings, error)
	SaveSettings(ctx context.Context, settings domain.Settings) error
}
