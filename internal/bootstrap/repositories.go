package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CommunityEconomy_Go/internal/database/postgres"
	"github.com/osse101/CommunityEconomy_Go/internal/repository"
)

// Repositories holds all repository implementations used by the application
type Repositories struct {
	Account    repository.Account
	Settings   repository.Settings
	Investment repository.Investment
	Boost      repository.Boost
	TickLocker repository.Locker
}

// InitializeRepositories creates the Postgres-backed repositories
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Account:    postgres.NewAccountRepository(dbPool),
		Settings:   postgres.NewSettingsRepository(dbPool),
		Investment: postgres.NewInvestmentRepository(dbPool),
		Boost:      postgres.NewBoostRepository(dbPool),
		TickLocker: postgres.NewAdvisoryLocker(dbPool),
	}
}
