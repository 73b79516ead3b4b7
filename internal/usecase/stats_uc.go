package usecase

import (
	"context"

	"telegram-panel-store/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

type Stats struct {
	Users         int
	Orders        int
	Revenue       int64
	PendingOrders int
}

type StatsUseCase interface {
	Collect(ctx context.Context) (*Stats, error)
}

type statsUC struct {
	users    repository.UserRepository
	orders   repository.OrderRepository
	registry *PendingRegistry
}

func NewStatsUseCase(users repository.UserRepository, orders repository.OrderRepository, registry *PendingRegistry) *statsUC {
	return &statsUC{users: users, orders: orders, registry: registry}
}

func (u *statsUC) Collect(ctx context.Context) (*Stats, error) {
	users, err := u.users.CountUsers(ctx, nil)
	if err != nil {
		return nil, err
	}
	orders, err := u.orders.CountCompleted(ctx, nil)
	if err != nil {
		return nil, err
	}
	revenue, err := u.orders.SumRevenue(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Users:         users,
		Orders:        orders,
		Revenue:       revenue,
		PendingOrders: u.registry.Active(),
	}, nil
}
