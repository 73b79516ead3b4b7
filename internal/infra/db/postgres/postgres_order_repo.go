package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-panel-store/internal/domain"
	"telegram-panel-store/internal/domain/model"
	"telegram-panel-store/internal/domain/ports/repository"
)

var _ repository.OrderRepository = (*orderRepo)(nil)

type orderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepo(pool *pgxpool.Pool) *orderRepo {
	return &orderRepo{pool: pool}
}

const orderColumns = `id, user_id, chat_id, kind, price, total, payment_id, reference_id,
  status, created_at, completed_at, processed, processed_at, payload,
  warranty_eligible, warranty_claimed, warranty_claim_count, warranty_max_claims, warranty_valid_until`

func (r *orderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	payload, err := json.Marshal(o.Payload)
	if err != nil {
		return domain.ErrInvalidArgument
	}

	const q = `
INSERT INTO orders (` + orderColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
ON CONFLICT (id) DO UPDATE SET
  processed=$12, processed_at=$13,
  warranty_claimed=$16, warranty_claim_count=$17;`

	_, err = execSQL(ctx, r.pool, tx, q,
		o.ID, o.UserID, o.ChatID, string(o.Kind), o.Price, o.Total, o.PaymentID, o.ReferenceID,
		string(o.Status), o.CreatedAt, o.CompletedAt, o.Processed, o.ProcessedAt, payload,
		o.Warranty.Eligible, o.Warranty.Claimed, o.Warranty.ClaimCount, o.Warranty.MaxClaims, o.Warranty.ValidUntil)
	if err != nil {
		if err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	o := &model.Order{}
	var kind, status string
	var payload []byte
	err := row.Scan(&o.ID, &o.UserID, &o.ChatID, &kind, &o.Price, &o.Total, &o.PaymentID, &o.ReferenceID,
		&status, &o.CreatedAt, &o.CompletedAt, &o.Processed, &o.ProcessedAt, &payload,
		&o.Warranty.Eligible, &o.Warranty.Claimed, &o.Warranty.ClaimCount, &o.Warranty.MaxClaims, &o.Warranty.ValidUntil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	o.Kind = model.OrderKind(kind)
	o.Status = model.OrderStatus(status)
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &o.Payload); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
	}
	return o, nil
}

func (r *orderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanOrder(row)
}

func (r *orderRepo) ListByUser(ctx context.Context, tx repository.Tx, userID int64) ([]*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE user_id=$1 ORDER BY completed_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *orderRepo) MarkProcessed(ctx context.Context, tx repository.Tx, id string, at time.Time) error {
	const q = `UPDATE orders SET processed=TRUE, processed_at=$2 WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, at)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *orderRepo) UpdateWarranty(ctx context.Context, tx repository.Tx, id string, w model.Warranty) error {
	const q = `UPDATE orders SET warranty_claimed=$2, warranty_claim_count=$3 WHERE id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, id, w.Claimed, w.ClaimCount)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *orderRepo) CountCompleted(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM orders;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}

func (r *orderRepo) SumRevenue(ctx context.Context, tx repository.Tx) (int64, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COALESCE(SUM(price),0) FROM orders;`)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return total, nil
}
