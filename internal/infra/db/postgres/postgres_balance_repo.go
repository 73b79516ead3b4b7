package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-panel-store/internal/domain"
	"telegram-panel-store/internal/domain/ports/repository"
)

var _ repository.BalanceRepository = (*balanceRepo)(nil)

type balanceRepo struct{ pool *pgxpool.Pool }

func NewBalanceRepo(pool *pgxpool.Pool) *balanceRepo {
	return &balanceRepo{pool: pool}
}

// Get returns 0 for users with no balance row yet.
func (r *balanceRepo) Get(ctx context.Context, tx repository.Tx, userID int64) (int64, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT amount FROM balances WHERE user_id=$1;`, userID)
	if err != nil {
		return 0, err
	}
	var amount int64
	if err := row.Scan(&amount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, domain.ErrReadDatabaseRow
	}
	return amount, nil
}

func (r *balanceRepo) Set(ctx context.Context, tx repository.Tx, userID int64, amount int64) error {
	const q = `
INSERT INTO balances (user_id, amount) VALUES ($1,$2)
ON CONFLICT (user_id) DO UPDATE SET amount=$2;`
	_, err := execSQL(ctx, r.pool, tx, q, userID, amount)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *balanceRepo) Add(ctx context.Context, tx repository.Tx, userID int64, delta int64) (int64, error) {
	const q = `
INSERT INTO balances (user_id, amount) VALUES ($1,$2)
ON CONFLICT (user_id) DO UPDATE SET amount = balances.amount + $2
RETURNING amount;`
	row, err := pickRow(ctx, r.pool, tx, q, userID, delta)
	if err != nil {
		return 0, err
	}
	var amount int64
	if err := row.Scan(&amount); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return amount, nil
}
