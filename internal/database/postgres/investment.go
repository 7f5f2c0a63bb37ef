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

const investmentColumns = `user_id, property_name, purchase_time, maintenance, accumulated_income,
	last_update, last_collect, risk_event, risk_event_type`

// InvestmentRepository implements repository.Investment for PostgreSQL
type InvestmentRepository struct {
	db *pgxpool.Pool
}

// NewInvestmentRepository creates a new InvestmentRepository
func NewInvestmentRepository(db *pgxpool.Pool) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

// InvestmentTx implements repository.InvestmentTx
type InvestmentTx struct {
	pgTx
}

// BeginTx starts a new transaction
func (r *InvestmentRepository) BeginTx(ctx context.Context) (repository.InvestmentTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &InvestmentTx{pgTx{tx: tx}}, nil
}

// GetInvestments returns a user's properties in purchase order
func (r *InvestmentRepository) GetInvestments(ctx context.Context, userID string) ([]*domain.Investment, error) {
	return listInvestments(ctx, r.db, userID, false)
}

// GetInvestorIDs returns every user owning at least one property
func (r *InvestmentRepository) GetInvestorIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT user_id FROM investments ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query investors: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRowIteration, err)
	}
	return ids, nil
}

// ResetAccumulatedIncome zeroes every positive accumulation in one statement
func (r *InvestmentRepository) ResetAccumulatedIncome(ctx context.Context) (int, int, error) {
	query := `
		WITH reset AS (
			UPDATE investments SET accumulated_income = 0
			WHERE accumulated_income > 0
			RETURNING user_id
		)
		SELECT COUNT(DISTINCT user_id), COUNT(*) FROM reset
	`

	var users, properties int
	if err := r.db.QueryRow(ctx, query).Scan(&users, &properties); err != nil {
		return 0, 0, fmt.Errorf("failed to reset accumulated income: %w", err)
	}
	return users, properties, nil
}

// GetAccountForUpdate locks the owner's account row so coin changes and property changes commit together
func (t *InvestmentTx) GetAccountForUpdate(ctx context.Context, userID string) (*domain.Account, error) {
	return getAccount(ctx, t.tx, userID, true)
}

// UpdateCoins sets the account balance
func (t *InvestmentTx) UpdateCoins(ctx context.Context, userID string, coins float64) error {
	tag, err := t.tx.Exec(ctx, `UPDATE accounts SET coins = $2, updated_at = NOW() WHERE user_id = $1`, userID, coins)
	if err != nil {
		return fmt.Errorf("failed to update coins: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// GetInvestmentsForUpdate locks and returns every property of a user
func (t *InvestmentTx) GetInvestmentsForUpdate(ctx context.Context, userID string) ([]*domain.Investment, error) {
	return listInvestments(ctx, t.tx, userID, true)
}

// GetInvestmentForUpdate locks one property row
func (t *InvestmentTx) GetInvestmentForUpdate(ctx context.Context, userID, propertyName string) (*domain.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE user_id = $1 AND property_name = $2 FOR UPDATE`

	inv, err := scanInvestment(t.tx.QueryRow(ctx, query, userID, propertyName))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPropertyNotOwned
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}
	return inv, nil
}

// InsertInvestment stores a newly purchased property
func (t *InvestmentTx) InsertInvestment(ctx context.Context, inv *domain.Investment) error {
	query := `
		INSERT INTO investments (` + investmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := t.tx.Exec(ctx, query,
		inv.UserID, inv.PropertyName, inv.PurchaseTime, inv.Maintenance, inv.AccumulatedIncome,
		inv.LastUpdate, inv.LastCollect, inv.RiskEvent, nullableText(inv.RiskEventType),
	)
	if isUniqueViolation(err) {
		return domain.ErrPropertyAlreadyOwned
	}
	if err != nil {
		return fmt.Errorf("failed to insert investment: %w", err)
	}
	return nil
}

// UpdateInvestment writes the mutable columns of a property
func (t *InvestmentTx) UpdateInvestment(ctx context.Context, inv *domain.Investment) error {
	query := `
		UPDATE investments SET
			maintenance = $3, accumulated_income = $4, last_update = $5, last_collect = $6,
			risk_event = $7, risk_event_type = $8
		WHERE user_id = $1 AND property_name = $2
	`

	tag, err := t.tx.Exec(ctx, query,
		inv.UserID, inv.PropertyName, inv.Maintenance, inv.AccumulatedIncome,
		inv.LastUpdate, inv.LastCollect, inv.RiskEvent, nullableText(inv.RiskEventType),
	)
	if err != nil {
		return fmt.Errorf("failed to update investment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPropertyNotOwned
	}
	return nil
}

// DeleteInvestment removes a sold property
func (t *InvestmentTx) DeleteInvestment(ctx context.Context, userID, propertyName string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM investments WHERE user_id = $1 AND property_name = $2`, userID, propertyName)
	if err != nil {
		return fmt.Errorf("failed to delete investment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPropertyNotOwned
	}
	return nil
}

func listInvestments(ctx context.Context, q querier, userID string, forUpdate bool) ([]*domain.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE user_id = $1 ORDER BY purchase_time, property_name`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query investments: %w", err)
	}
	defer rows.Close()

	var investments []*domain.Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanRow, err)
		}
		investments = append(investments, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgRowIteration, err)
	}
	return investments, nil
}

func scanInvestment(row pgx.Row) (*domain.Investment, error) {
	var inv domain.Investment
	var riskType *string
	err := row.Scan(
		&inv.UserID, &inv.PropertyName, &inv.PurchaseTime, &inv.Maintenance, &inv.AccumulatedIncome,
		&inv.LastUpdate, &inv.LastCollect, &inv.RiskEvent, &riskType,
	)
	if err != nil {
		return nil, err
	}
	if riskType != nil {
		inv.RiskEventType = *riskType
	}
	return &inv, nil
}
