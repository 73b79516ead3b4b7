package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-panel-store/internal/domain"
	"telegram-panel-store/internal/domain/model"
	"telegram-panel-store/internal/domain/ports/repository"
)

var _ repository.WarrantyClaimRepository = (*warrantyRepo)(nil)

type warrantyRepo struct{ pool *pgxpool.Pool }

func NewWarrantyRepo(pool *pgxpool.Pool) *warrantyRepo {
	return &warrantyRepo{pool: pool}
}

const claimColumns = `id, order_id, user_id, chat_id, status, created_at, processed_at, processed_by`

func (r *warrantyRepo) Save(ctx context.Context, tx repository.Tx, c *model.WarrantyClaim) error {
	const q = `
INSERT INTO warranty_claims (` + claimColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  status=$5, processed_at=$7, processed_by=$8;`

	_, err := execSQL(ctx, r.pool, tx, q,
		c.ID, c.OrderID, c.UserID, c.ChatID, string(c.Status), c.CreatedAt, c.ProcessedAt, c.ProcessedBy)
	if err != nil {
		if err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func scanClaim(row pgx.Row) (*model.WarrantyClaim, error) {
	c := &model.WarrantyClaim{}
	var status string
	err := row.Scan(&c.ID, &c.OrderID, &c.UserID, &c.ChatID, &status, &c.CreatedAt, &c.ProcessedAt, &c.ProcessedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	c.Status = model.ClaimStatus(status)
	return c, nil
}

func (r *warrantyRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.WarrantyClaim, error) {
	const q = `SELECT ` + claimColumns + ` FROM warranty_claims WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanClaim(row)
}

func (r *warrantyRepo) ListPending(ctx context.Context, tx repository.Tx) ([]*model.WarrantyClaim, error) {
	const q = `SELECT ` + claimColumns + ` FROM warranty_claims WHERE status='pending' ORDER BY created_at;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.WarrantyClaim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
