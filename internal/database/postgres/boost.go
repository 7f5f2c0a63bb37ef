package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CommunityEconomy_Go/internal/domain"
)

// BoostRepository implements repository.Boost for PostgreSQL
type BoostRepository struct {
	db *pgxpool.Pool
}

// NewBoostRepository creates a new BoostRepository
func NewBoostRepository(db *pgxpool.Pool) *BoostRepository {
	return &BoostRepository{db: db}
}

// GetPermanentPerks returns every perk a user owns
func (r *BoostRepository) GetPermanentPerks(ctx context.Context, userID string) ([]domain.PermanentPerk, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id, stat, value FROM permanent_perks WHERE user_id = $1 ORDER BY stat`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query permanent perks: %w", err)
	}
	defer rows.Close()

	var perks []domain.PermanentPerk
	for rows.Next() {
		var p domain.PermanentPerk
		if err := rows.Scan(&p.UserID, &p.Stat, &p.Value); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanRow, err)
		}
		perks = append(perks, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRowIteration, err)
	}
	return perks, nil
}

// GetActiveBoosts returns every stored boost, expired ones included; callers filter by time
func (r *BoostRepository) GetActiveBoosts(ctx context.Context, userID string) ([]domain.ActiveBoost, error) {
	query := `
		SELECT id, user_id, stat, value, end_time
		FROM active_boosts
		WHERE user_id = $1
		ORDER BY end_time DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active boosts: %w", err)
	}
	defer rows.Close()

	var boosts []domain.ActiveBoost
	for rows.Next() {
		var b domain.ActiveBoost
		if err := rows.Scan(&b.ID, &b.UserID, &b.Stat, &b.Value, &b.EndTime); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanRow, err)
		}
		boosts = append(boosts, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRowIteration, err)
	}
	return boosts, nil
}

// UpsertPermanentPerk sets a user's permanent value for one category
func (r *BoostRepository) UpsertPermanentPerk(ctx context.Context, perk domain.PermanentPerk) error {
	query := `
		INSERT INTO permanent_perks (user_id, stat, value) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, stat) DO UPDATE SET value = EXCLUDED.value
	`
	if _, err := r.db.Exec(ctx, query, perk.UserID, string(perk.Stat), perk.Value); err != nil {
		return fmt.Errorf("failed to upsert permanent perk: %w", err)
	}
	return nil
}

// InsertActiveBoost stores a new time-boxed boost
func (r *BoostRepository) InsertActiveBoost(ctx context.Context, boost domain.ActiveBoost) error {
	query := `INSERT INTO active_boosts (user_id, stat, value, end_time) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.Exec(ctx, query, boost.UserID, string(boost.Stat), boost.Value, boost.EndTime); err != nil {
		return fmt.Errorf("failed to insert active boost: %w", err)
	}
	return nil
}

// DeleteExpiredBoosts removes boosts that ended at or before now
func (r *BoostRepository) DeleteExpiredBoosts(ctx context.Context, now int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM active_boosts WHERE end_time <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired boosts: %w", err)
	}
	return tag.RowsAffected(), nil
}
