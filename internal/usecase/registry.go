package usecase

import (
	"sync"
	"time"

	"telegram-panel-store/internal/domain"
	"telegram-panel-store/internal/domain/model"
)

// PendingRegistry owns the in-memory set of unpaid invoices, at most one
// per user. It is constructed at process start and injected into the order
// coordinator. All transitions out of a pending order go through Claim so
// that exactly one caller acts on a terminal state.
type PendingRegistry struct {
	mu      sync.Mutex
	entries map[int64]*pendingEntry
}

type pendingEntry struct {
	order *model.PendingOrder
	done  bool
}

func NewPendingRegistry() *PendingRegistry {
	return &PendingRegistry{entries: make(map[int64]*pendingEntry)}
}

// Register reserves the user's single pending-order slot. It is called
// before the gateway round trip so two rapid purchase commands cannot both
// obtain invoices; callers must Remove on gateway failure.
func (r *PendingRegistry) Register(o *model.PendingOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[o.UserID]; ok {
		return domain.ErrDuplicateActiveOrder
	}
	r.entries[o.UserID] = &pendingEntry{order: o}
	return nil
}

// Find returns the user's pending order, if any.
func (r *PendingRegistry) Find(userID int64) (*model.PendingOrder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[userID]
	if !ok || e.done {
		return nil, false
	}
	return e.order, true
}

// FindByPayment returns the user's pending order only when it matches the
// given gateway transaction id.
func (r *PendingRegistry) FindByPayment(userID int64, paymentID string) (*model.PendingOrder, bool) {
	o, ok := r.Find(userID)
	if !ok || o.PaymentID != paymentID {
		return nil, false
	}
	return o, true
}

// Claim marks the user's pending order terminal and returns it. Exactly one
// caller wins; later claims (a stale poll after a user cancel, or the
// reverse) get ok=false and must not act. An empty paymentID claims
// whatever order is registered.
func (r *PendingRegistry) Claim(userID int64, paymentID string) (*model.PendingOrder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[userID]
	if !ok || e.done {
		return nil, false
	}
	if paymentID != "" && e.order.PaymentID != paymentID {
		return nil, false
	}
	e.done = true
	return e.order, true
}

// Remove frees the user's slot. Called at the end of every terminal path.
func (r *PendingRegistry) Remove(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, userID)
}

// Stale returns unclaimed orders whose expiry passed before now. The
// sweeper uses it to resolve orders whose poller died.
func (r *PendingRegistry) Stale(now time.Time) []*model.PendingOrder {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.PendingOrder
	for _, e := range r.entries {
		if !e.done && e.order.Expired(now) {
			out = append(out, e.order)
		}
	}
	return out
}

// Active reports the number of registered orders, claimed or not.
func (r *PendingRegistry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
