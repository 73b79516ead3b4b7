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

var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct{ pool *pgxpool.Pool }

func NewUserRepo(pool *pgxpool.Pool) *userRepo {
	return &userRepo{pool: pool}
}

func (r *userRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO users (telegram_id, username, language_code, registered_at, last_active_at, active)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (telegram_id) DO UPDATE SET
  username=$2, language_code=$3, last_active_at=$5, active=$6;`

	_, err := execSQL(ctx, r.pool, tx, q, u.TelegramID, u.Username, u.LanguageCode, u.RegisteredAt, u.LastActiveAt, u.Active)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *userRepo) FindByTelegramID(ctx context.Context, tx repository.Tx, telegramID int64) (*model.User, error) {
	const q = `SELECT telegram_id, username, language_code, registered_at, last_active_at, active FROM users WHERE telegram_id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, telegramID)
	if err != nil {
		return nil, err
	}

	u := &model.User{}
	if err := row.Scan(&u.TelegramID, &u.Username, &u.LanguageCode, &u.RegisteredAt, &u.LastActiveAt, &u.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return u, nil
}

func (r *userRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.User, error) {
	const q = `SELECT telegram_id, username, language_code, registered_at, last_active_at, active FROM users WHERE active ORDER BY registered_at;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u := new(model.User)
		if err := rows.Scan(&u.TelegramID, &u.Username, &u.LanguageCode, &u.RegisteredAt, &u.LastActiveAt, &u.Active); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *userRepo) SetActive(ctx context.Context, tx repository.Tx, telegramID int64, active bool) error {
	const q = `UPDATE users SET active=$2 WHERE telegram_id=$1;`
	_, err := execSQL(ctx, r.pool, tx, q, telegramID, active)
	if err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *userRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM users;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}
