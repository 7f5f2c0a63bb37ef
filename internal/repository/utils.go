package repository

import (
	"context"

	"github.com/osse101/CommunityEconomy_Go/internal/logger"
)

// errMsgTxClosed is returned by pgx when rolling back a committed transaction
const errMsgTxClosed = "tx is closed"

// SafeRollback rolls back a transaction and logs any error
func SafeRollback(ctx context.Context, tx Tx) {
	if err := tx.Rollback(ctx); err != nil {
		// Check for common "closed" errors to avoid noise
		if err.Error() != errMsgTxClosed {
			logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
		}
	}
}
