package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-panel-store/internal/domain"
	"telegram-panel-store/internal/domain/model"
	"telegram-panel-store/internal/domain/ports/repository"
)

var _ repository.RentalRepository = (*rentalRepo)(nil)

type rentalRepo struct{ pool *pgxpool.Pool }

func NewRentalRepo(pool *pgxpool.Pool) *rentalRepo {
	return &rentalRepo{pool: pool}
}

const rentalColumns = `id, user_id, chat_id, service_code, service_name, price, target,
  status, note, created_at, completed_at, debited, remaining, refunded`

func (r *rentalRepo) Save(ctx context.Context, tx repository.Tx, ro *model.RentalOrder) error {
	const q = `
INSERT INTO rentals (` + rentalColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
ON CONFLICT (id) DO UPDATE SET
  status=$8, note=$9, completed_at=$11, remaining=$13, refunded=$14;`

	_, err := execSQL(ctx, r.pool, tx, q,
		ro.ID, ro.UserID, ro.ChatID, ro.ServiceCode, ro.ServiceName, ro.Price, ro.Target,
		string(ro.Status), ro.Note, ro.CreatedAt, ro.CompletedAt, ro.Debited, ro.Remaining, ro.Refunded)
	if err != nil {
		if err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func scanRental(row pgx.Row) (*model.RentalOrder, error) {
	ro := &model.RentalOrder{}
	var status string
	err := row.Scan(&ro.ID, &ro.UserID, &ro.ChatID, &ro.ServiceCode, &ro.ServiceName, &ro.Price, &ro.Target,
		&status, &ro.Note, &ro.CreatedAt, &ro.CompletedAt, &ro.Debited, &ro.Remaining, &ro.Refunded)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	ro.Status = model.RentalStatus(status)
	return ro, nil
}

func (r *rentalRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.RentalOrder, error) {
	const q = `SELECT ` + rentalColumns + ` FROM rentals WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanRental(row)
}

func (r *rentalRepo) FindByIDAndUser(ctx context.Context, tx repository.Tx, id string, userID int64) (*model.RentalOrder, error) {
	const q = `SELECT ` + rentalColumns + ` FROM rentals WHERE id=$1 AND user_id=$2;`
	row, err := pickRow(ctx, r.pool, tx, q, id, userID)
	if err != nil {
		return nil, err
	}
	return scanRental(row)
}

// UpdateStatus only moves rows that are still pending; a zero row count means
// another path already finished the order.
func (r *rentalRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.RentalStatus, note string, completedAt *time.Time) error {
	const q = `UPDATE rentals SET status=$2, note=$3, completed_at=$4 WHERE id=$1 AND status='pending';`
	tag, err := execSQL(ctx, r.pool, tx, q, id, string(status), note, completedAt)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotPending
	}
	return nil
}

func (r *rentalRepo) RecordRefund(ctx context.Context, tx repository.Tx, id string, refunded, remaining int64) error {
	const q = `UPDATE rentals SET refunded=$2, remaining=$3 WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, refunded, remaining)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *rentalRepo) ListByUser(ctx context.Context, tx repository.Tx, userID int64) ([]*model.RentalOrder, error) {
	const q = `SELECT ` + rentalColumns + ` FROM rentals WHERE user_id=$1 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.RentalOrder
	for rows.Next() {
		ro, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ro)
	}
	return out, rows.Err()
}
