//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"telegram-panel-store/internal/domain"
	"telegram-panel-store/internal/infra/worker"
	"telegram-panel-store/internal/usecase"
)

func TestBroadcastUC(t *testing.T) {
	t.Run("should fan the message out to every active user", func(t *testing.T) {
		// Arrange
		users := NewMockUserRepo()
		userUC := usecase.NewUserUseCase(users, newTestLogger())
		for i := int64(1); i <= 3; i++ {
			if _, err := userUC.Touch(context.Background(), i, "u", "id"); err != nil {
				t.Fatalf("seed user %d: %v", i, err)
			}
		}
		if err := userUC.MarkBlocked(context.Background(), 3); err != nil {
			t.Fatalf("MarkBlocked: %v", err)
		}

		notifier := &MockNotifier{}
		var wg sync.WaitGroup
		wg.Add(2) // two active recipients
		var mu sync.Mutex
		var delivered []int64
		notifier.SendTextFunc = func(ctx context.Context, chatID int64, text string) error {
			mu.Lock()
			delivered = append(delivered, chatID)
			mu.Unlock()
			wg.Done()
			return nil
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool := worker.NewPool(2, newTestLogger())
		pool.Start(ctx)
		defer pool.Stop()

		uc := usecase.NewBroadcastUseCase(users, userUC, notifier, pool, newTestLogger())

		// Act
		n, err := uc.Broadcast(ctx, "promo besok")
		if err != nil {
			t.Fatalf("Broadcast: %v", err)
		}

		// Assert
		if n != 2 {
			t.Fatalf("recipients = %d, want 2 (inactive user skipped)", n)
		}
		done := make(chan struct{})
		go func() { wg.Wait(); close(done) }()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for broadcast deliveries")
		}
		mu.Lock()
		defer mu.Unlock()
		if len(delivered) != 2 {
			t.Fatalf("deliveries = %v, want 2", delivered)
		}
		for _, id := range delivered {
			if id == 3 {
				t.Fatal("inactive user must not receive broadcasts")
			}
		}
	})

	t.Run("should mark a blocked recipient inactive", func(t *testing.T) {
		// Arrange
		users := NewMockUserRepo()
		userUC := usecase.NewUserUseCase(users, newTestLogger())
		if _, err := userUC.Touch(context.Background(), 7, "u", "id"); err != nil {
			t.Fatalf("seed user: %v", err)
		}

		notifier := &MockNotifier{}
		var wg sync.WaitGroup
		wg.Add(1)
		notifier.SendTextFunc = func(ctx context.Context, chatID int64, text string) error {
			defer wg.Done()
			return domain.ErrDeliveryBlocked
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool := worker.NewPool(1, newTestLogger())
		pool.Start(ctx)
		defer pool.Stop()

		uc := usecase.NewBroadcastUseCase(users, userUC, notifier, pool, newTestLogger())

		// Act
		if _, err := uc.Broadcast(ctx, "halo"); err != nil {
			t.Fatalf("Broadcast: %v", err)
		}

		done := make(chan struct{})
		go func() { wg.Wait(); close(done) }()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for the delivery attempt")
		}

		// Assert: the user drops out of the active list.
		deadline := time.Now().Add(2 * time.Second)
		for {
			active, err := users.ListActive(context.Background(), nil)
			if err != nil {
				t.Fatalf("ListActive: %v", err)
			}
			if len(active) == 0 {
				break
			}
			if time.Now().After(deadline) {
				t.Fatal("blocked user was not marked inactive")
			}
			time.Sleep(10 * time.Millisecond)
		}
	})
}
