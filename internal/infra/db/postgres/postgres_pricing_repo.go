package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-panel-store/internal/domain"
	"telegram-panel-store/internal/domain/model"
	"telegram-panel-store/internal/domain/ports/repository"
)

var _ repository.PricingRepository = (*pricingRepo)(nil)

// pricingRepo stores overrides as key/value rows. Panel plans use a
// "panel:<plan>" key; flat goods use their bare key ("adp", "reseller",
// "userbot", "rental").
type pricingRepo struct{ pool *pgxpool.Pool }

func NewPricingRepo(pool *pgxpool.Pool) *pricingRepo {
	return &pricingRepo{pool: pool}
}

func (r *pricingRepo) Load(ctx context.Context, tx repository.Tx) (*model.PricingTable, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT key, price FROM pricing;`)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	t := &model.PricingTable{Panel: map[string]int64{}}
	for rows.Next() {
		var key string
		var price int64
		if err := rows.Scan(&key, &price); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		switch {
		case strings.HasPrefix(key, "panel:"):
			t.Panel[strings.TrimPrefix(key, "panel:")] = price
		case key == "adp":
			t.Adp = price
		case key == "reseller":
			t.Reseller = price
		case key == "userbot":
			t.Userbot = price
		case key == "rental":
			t.Rental = price
		}
	}
	return t, rows.Err()
}

func (r *pricingRepo) SetPanelPrice(ctx context.Context, tx repository.Tx, plan string, price int64) error {
	return r.upsert(ctx, tx, "panel:"+plan, price)
}

func (r *pricingRepo) SetFlatPrice(ctx context.Context, tx repository.Tx, key string, price int64) error {
	return r.upsert(ctx, tx, key, price)
}

func (r *pricingRepo) upsert(ctx context.Context, tx repository.Tx, key string, price int64) error {
	const q = `
INSERT INTO pricing (key, price) VALUES ($1,$2)
ON CONFLICT (key) DO UPDATE SET price=$2;`
	_, err := execSQL(ctx, r.pool, tx, q, key, price)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}
