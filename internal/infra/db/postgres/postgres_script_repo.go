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

var _ repository.ScriptRepository = (*scriptRepo)(nil)

type scriptRepo struct{ pool *pgxpool.Pool }

func NewScriptRepo(pool *pgxpool.Pool) *scriptRepo {
	return &scriptRepo{pool: pool}
}

const scriptColumns = `name, description, file_id, local_path, source_url, price, added_at`

func (r *scriptRepo) Save(ctx context.Context, tx repository.Tx, s *model.Script) error {
	const q = `
INSERT INTO scripts (` + scriptColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (name) DO UPDATE SET
  description=$2, file_id=$3, local_path=$4, source_url=$5, price=$6;`

	_, err := execSQL(ctx, r.pool, tx, q,
		s.Name, s.Description, s.FileID, s.LocalPath, s.SourceURL, s.Price, s.AddedAt)
	if err != nil {
		if err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func scanScript(row pgx.Row) (*model.Script, error) {
	s := &model.Script{}
	err := row.Scan(&s.Name, &s.Description, &s.FileID, &s.LocalPath, &s.SourceURL, &s.Price, &s.AddedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return s, nil
}

func (r *scriptRepo) FindByName(ctx context.Context, tx repository.Tx, name string) (*model.Script, error) {
	const q = `SELECT ` + scriptColumns + ` FROM scripts WHERE name=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, name)
	if err != nil {
		return nil, err
	}
	return scanScript(row)
}

func (r *scriptRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Script, error) {
	const q = `SELECT ` + scriptColumns + ` FROM scripts ORDER BY name;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()

	var out []*model.Script
	for rows.Next() {
		s, err := scanScript(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *scriptRepo) Delete(ctx context.Context, tx repository.Tx, name string) error {
	tag, err := execSQL(ctx, r.pool, tx, `DELETE FROM scripts WHERE name=$1;`, name)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
