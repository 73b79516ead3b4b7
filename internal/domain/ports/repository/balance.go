package repository

import "context"

// BalanceRepository persists one signed amount per user. It performs no
// sufficiency checks; callers are responsible for checking before a debit,
// under the per-user lock the use case holds.
type BalanceRepository interface {
	Get(ctx context.Context, tx Tx, userID int64) (int64, error)
	Set(ctx context.Context, tx Tx, userID int64, amount int64) error
	Add(ctx context.Context, tx Tx, userID int64, delta int64) (int64, error)
}
