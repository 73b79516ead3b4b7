package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"telegram-panel-store/internal/domain"
	"telegram-panel-store/internal/domain/ports/repository"
	"telegram-panel-store/internal/infra/metrics"
)

// Locker serializes mutations on a shared resource. The Redis locker in
// internal/infra/redis implements it.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

const balanceLockTTL = 5 * time.Second

// Compile-time check
var _ BalanceUseCase = (*balanceUC)(nil)

// BalanceUseCase is the per-user balance ledger. All mutations run under a
// per-user lock so two debit paths cannot both pass the sufficiency check.
type BalanceUseCase interface {
	Get(ctx context.Context, userID int64) (int64, error)
	// Credit adds amount (> 0) and returns the new balance.
	Credit(ctx context.Context, userID int64, amount int64) (int64, error)
	// CreditTx is Credit running against an open transaction, for callers
	// that combine the credit with other writes atomically.
	CreditTx(ctx context.Context, tx repository.Tx, userID int64, amount int64) (int64, error)
	// Debit subtracts amount (> 0) after checking sufficiency; returns
	// domain.ErrInsufficientBalance without mutating when funds are short.
	Debit(ctx context.Context, userID int64, amount int64) (int64, error)
	// Set overrides the balance absolutely (owner correction).
	Set(ctx context.Context, userID int64, amount int64) error
}

type balanceUC struct {
	balances repository.BalanceRepository
	locker   Locker
	log      *zerolog.Logger
}

func NewBalanceUseCase(balances repository.BalanceRepository, locker Locker, logger *zerolog.Logger) *balanceUC {
	l := logger.With().Str("component", "BalanceUC").Logger()
	return &balanceUC{balances: balances, locker: locker, log: &l}
}

func lockKey(userID int64) string { return fmt.Sprintf("balance:%d", userID) }

func (u *balanceUC) Get(ctx context.Context, userID int64) (int64, error) {
	return u.balances.Get(ctx, nil, userID)
}

func (u *balanceUC) Credit(ctx context.Context, userID int64, amount int64) (int64, error) {
	return u.CreditTx(ctx, nil, userID, amount)
}

func (u *balanceUC) CreditTx(ctx context.Context, tx repository.Tx, userID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidArgument
	}
	token, err := u.locker.TryLock(ctx, lockKey(userID), balanceLockTTL)
	if err != nil {
		return 0, err
	}
	defer func() { _ = u.locker.Unlock(ctx, lockKey(userID), token) }()

	next, err := u.balances.Add(ctx, tx, userID, amount)
	if err != nil {
		return 0, err
	}
	metrics.IncBalanceMutation("credit")
	u.log.Debug().Int64("user", userID).Int64("amount", amount).Int64("balance", next).Msg("balance credited")
	return next, nil
}

func (u *balanceUC) Debit(ctx context.Context, userID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidArgument
	}
	token, err := u.locker.TryLock(ctx, lockKey(userID), balanceLockTTL)
	if err != nil {
		return 0, err
	}
	defer func() { _ = u.locker.Unlock(ctx, lockKey(userID), token) }()

	current, err := u.balances.Get(ctx, nil, userID)
	if err != nil {
		return 0, err
	}
	if current < amount {
		return current, domain.ErrInsufficientBalance
	}
	next, err := u.balances.Add(ctx, nil, userID, -amount)
	if err != nil {
		return 0, err
	}
	metrics.IncBalanceMutation("debit")
	u.log.Debug().Int64("user", userID).Int64("amount", amount).Int64("balance", next).Msg("balance debited")
	return next, nil
}

func (u *balanceUC) Set(ctx context.Context, userID int64, amount int64) error {
	token, err := u.locker.TryLock(ctx, lockKey(userID), balanceLockTTL)
	if err != nil {
		return err
	}
	defer func() { _ = u.locker.Unlock(ctx, lockKey(userID), token) }()

	if err := u.balances.Set(ctx, nil, userID, amount); err != nil {
		return err
	}
	metrics.IncBalanceMutation("set")
	return nil
}
