package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CommunityEconomy_Go/internal/logger"
)

// AdvisoryLocker implements repository.Locker with session-level Postgres advisory locks.
// The lock lives on a dedicated pooled connection held until release.
type AdvisoryLocker struct {
	db *pgxpool.Pool
}

// NewAdvisoryLocker creates a new AdvisoryLocker
func NewAdvisoryLocker(db *pgxpool.Pool) *AdvisoryLocker {
	return &AdvisoryLocker{db: db}
}

// TryLock attempts pg_try_advisory_lock without blocking
func (l *AdvisoryLocker) TryLock(ctx context.Context, key int64) (func(), bool, error) {
	conn, err := l.db.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to acquire connection for advisory lock: %w", err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("failed to try advisory lock: %w", err)
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	release := func() {
		// Unlock on a fresh context so a cancelled caller still frees the lock
		if _, err := conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, key); err != nil {
			logger.FromContext(ctx).Warn("Failed to release advisory lock", "key", key, "error", err)
		}
		conn.Release()
	}
	return release, true, nil
}
