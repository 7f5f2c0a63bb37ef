package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
	"github.com/osse101/CommunityEconomy_Go/internal/repository"
)

const accountColumns = `user_id, username, xp, level, prestige, coins,
	message_count, voice_minutes, streaming_minutes, images_shared,
	last_xp_time, boost_end_time, boost_multiplier`

// AccountRepository implements repository.Account for PostgreSQL
type AccountRepository struct {
	db *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// AccountTx implements repository.AccountTx
type AccountTx struct {
	pgTx
}

// BeginTx starts a new transaction
func (r *AccountRepository) BeginTx(ctx context.Context) (repository.AccountTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &AccountTx{pgTx{tx: tx}}, nil
}

// GetAccount returns the stored account without locking
func (r *AccountRepository) GetAccount(ctx context.Context, userID string) (*domain.Account, error) {
	return getAccount(ctx, r.db, userID, false)
}

// GetLeaderboard returns the top accounts by prestige, level and xp
func (r *AccountRepository) GetLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	query := `
		SELECT user_id, username, xp, level, coins, prestige
		FROM accounts
		ORDER BY prestige DESC, level DESC, xp DESC, user_id
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.XP, &e.Level, &e.Coins, &e.Prestige); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanRow, err)
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRowIteration, err)
	}

	return entries, nil
}

// GetOrCreateAccount upserts the account and locks its row.
// An empty username never overwrites a stored one.
func (t *AccountTx) GetOrCreateAccount(ctx context.Context, userID, username string) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (user_id, username)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET username = CASE WHEN EXCLUDED.username <> '' THEN EXCLUDED.username ELSE accounts.username END
		RETURNING ` + accountColumns

	account, err := scanAccount(t.tx.QueryRow(ctx, query, userID, username))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert account: %w", err)
	}
	return account, nil
}

// GetAccountForUpdate retrieves the account with a row lock
func (t *AccountTx) GetAccountForUpdate(ctx context.Context, userID string) (*domain.Account, error) {
	return getAccount(ctx, t.tx, userID, true)
}

// UpdateAccount writes every mutable column
func (t *AccountTx) UpdateAccount(ctx context.Context, account *domain.Account) error {
	return updateAccount(ctx, t.tx, account)
}

func getAccount(ctx context.Context, q querier, userID string, forUpdate bool) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	account, err := scanAccount(q.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func updateAccount(ctx context.Context, q querier, a *domain.Account) error {
	query := `
		UPDATE accounts SET
			username = $2, xp = $3, level = $4, prestige = $5, coins = $6,
			message_count = $7, voice_minutes = $8, streaming_minutes = $9, images_shared = $10,
			last_xp_time = $11, boost_end_time = $12, boost_multiplier = $13,
			updated_at = NOW()
		WHERE user_id = $1
	`

	tag, err := q.Exec(ctx, query,
		a.UserID, a.Username, a.XP, a.Level, a.Prestige, a.Coins,
		a.MessageCount, a.VoiceMinutes, a.StreamingMinutes, a.ImagesShared,
		a.LastXPTime, a.BoostEndTime, a.BoostMultiplier,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.UserID, &a.Username, &a.XP, &a.Level, &a.Prestige, &a.Coins,
		&a.MessageCount, &a.VoiceMinutes, &a.StreamingMinutes, &a.ImagesShared,
		&a.LastXPTime, &a.BoostEndTime, &a.BoostMultiplier,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
