//go:build !integration

package usecase_test

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-panel-store/internal/domain"
	"telegram-panel-store/internal/domain/model"
	"telegram-panel-store/internal/domain/ports/adapter"
	"telegram-panel-store/internal/domain/ports/repository"
	"telegram-panel-store/internal/usecase"
)

// -----------------------------
// Utilities: tiny helpers
// -----------------------------

// newTestLogger creates a silent zerolog.Logger for use in tests.
// It writes to io.Discard to prevent logs from cluttering test output.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// fakeClock is a manually controlled Clock. Sleep returns immediately and
// advances the clock by the requested duration, so pollers run their whole
// schedule in microseconds while still observing a moving wall clock.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	sleeps  []time.Duration
	advance bool
}

var _ usecase.Clock = (*fakeClock)(nil)

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start, advance: true}
}

// newFrozenClock never advances on Sleep; pollers spin through their budget
// without ever reaching the payment window.
func newFrozenClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

// orderCoordinator and rentalCoordinator add the shutdown barrier to the
// public interfaces so tests can join the poller goroutines.
type orderCoordinator interface {
	usecase.OrderUseCase
	Wait()
}

type rentalCoordinator interface {
	usecase.RentalUseCase
	Wait()
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	if c.advance {
		c.now = c.now.Add(d)
	}
	c.mu.Unlock()
	return nil
}

func (c *fakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}

// noopLocker hands out locks unconditionally. Balance tests that need
// contention inject errors via failKeys.
type noopLocker struct {
	mu       sync.Mutex
	locks    int
	unlocks  int
	failKeys map[string]error
}

var _ usecase.Locker = (*noopLocker)(nil)

func (l *noopLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err, ok := l.failKeys[key]; ok {
		return "", err
	}
	l.locks++
	return "tok", nil
}

func (l *noopLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	l.unlocks++
	l.mu.Unlock()
	return nil
}

// =============================
// Repositories
// =============================

// ---- Mock UserRepository ----

type MockUserRepo struct {
	mu   sync.Mutex
	data map[int64]*model.User

	SaveFunc      func(ctx context.Context, tx repository.Tx, user *model.User) error
	SetActiveFunc func(ctx context.Context, tx repository.Tx, telegramID int64, active bool) error
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{data: make(map[int64]*model.User)}
}

func (r *MockUserRepo) Save(ctx context.Context, tx repository.Tx, user *model.User) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, user)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.data[user.TelegramID] = &cp
	return nil
}

func (r *MockUserRepo) FindByTelegramID(ctx context.Context, tx repository.Tx, telegramID int64) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.data[telegramID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MockUserRepo) ListActive(ctx context.Context, tx repository.Tx) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.User
	for _, u := range r.data {
		if u.Active {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockUserRepo) SetActive(ctx context.Context, tx repository.Tx, telegramID int64, active bool) error {
	if r.SetActiveFunc != nil {
		return r.SetActiveFunc(ctx, tx, telegramID, active)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.data[telegramID]
	if !ok {
		return domain.ErrNotFound
	}
	u.Active = active
	return nil
}

func (r *MockUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data), nil
}

// ---- Mock OrderRepository ----

type MockOrderRepo struct {
	mu   sync.Mutex
	data map[string]*model.Order

	SaveFunc          func(ctx context.Context, tx repository.Tx, o *model.Order) error
	MarkProcessedFunc func(ctx context.Context, tx repository.Tx, id string, at time.Time) error
}

var _ repository.OrderRepository = (*MockOrderRepo)(nil)

func NewMockOrderRepo() *MockOrderRepo {
	return &MockOrderRepo{data: make(map[string]*model.Order)}
}

func (r *MockOrderRepo) Save(ctx context.Context, tx repository.Tx, o *model.Order) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, o)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.data[o.ID] = &cp
	return nil
}

func (r *MockOrderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *MockOrderRepo) ListByUser(ctx context.Context, tx repository.Tx, userID int64) ([]*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Order
	for _, o := range r.data {
		if o.UserID == userID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockOrderRepo) MarkProcessed(ctx context.Context, tx repository.Tx, id string, at time.Time) error {
	if r.MarkProcessedFunc != nil {
		return r.MarkProcessedFunc(ctx, tx, id, at)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.data[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Processed = true
	o.ProcessedAt = &at
	return nil
}

func (r *MockOrderRepo) UpdateWarranty(ctx context.Context, tx repository.Tx, id string, w model.Warranty) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.data[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Warranty = w
	return nil
}

func (r *MockOrderRepo) CountCompleted(ctx context.Context, tx repository.Tx) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.data), nil
}

func (r *MockOrderRepo) SumRevenue(ctx context.Context, tx repository.Tx) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, o := range r.data {
		sum += o.Price
	}
	return sum, nil
}

// ---- Mock RentalRepository ----

type MockRentalRepo struct {
	mu   sync.Mutex
	data map[string]*model.RentalOrder

	SaveFunc         func(ctx context.Context, tx repository.Tx, r *model.RentalOrder) error
	UpdateStatusFunc func(ctx context.Context, tx repository.Tx, id string, status model.RentalStatus, note string, completedAt *time.Time) error
}

var _ repository.RentalRepository = (*MockRentalRepo)(nil)

func NewMockRentalRepo() *MockRentalRepo {
	return &MockRentalRepo{data: make(map[string]*model.RentalOrder)}
}

func (r *MockRentalRepo) Save(ctx context.Context, tx repository.Tx, o *model.RentalOrder) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, tx, o)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.data[o.ID] = &cp
	return nil
}

func (r *MockRentalRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.RentalOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *MockRentalRepo) FindByIDAndUser(ctx context.Context, tx repository.Tx, id string, userID int64) (*model.RentalOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.data[id]
	if !ok || o.UserID != userID {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

// UpdateStatus mirrors the conditional SQL transition: it succeeds only
// while the stored order is still pending.
func (r *MockRentalRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.RentalStatus, note string, completedAt *time.Time) error {
	if r.UpdateStatusFunc != nil {
		return r.UpdateStatusFunc(ctx, tx, id, status, note, completedAt)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.data[id]
	if !ok {
		return domain.ErrNotFound
	}
	if o.Status != model.RentalStatusPending {
		return domain.ErrOrderNotPending
	}
	o.Status = status
	o.Note = note
	o.CompletedAt = completedAt
	return nil
}

func (r *MockRentalRepo) RecordRefund(ctx context.Context, tx repository.Tx, id string, refunded, remaining int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.data[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Refunded = refunded
	o.Remaining = remaining
	return nil
}

func (r *MockRentalRepo) ListByUser(ctx context.Context, tx repository.Tx, userID int64) ([]*model.RentalOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.RentalOrder
	for _, o := range r.data {
		if o.UserID == userID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---- Mock TransactionManager ----

type MockTxManager struct {
	mu    sync.Mutex
	calls int

	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

// WithTx runs fn with a nil tx handle by default. Assign WithTxFunc to
// control transaction behavior in a test.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, nil)
}

func (m *MockTxManager) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// ---- Mock BalanceRepository ----

type MockBalanceRepo struct {
	mu   sync.Mutex
	data map[int64]int64

	AddFunc func(ctx context.Context, tx repository.Tx, userID int64, delta int64) (int64, error)
}

var _ repository.BalanceRepository = (*MockBalanceRepo)(nil)

func NewMockBalanceRepo() *MockBalanceRepo {
	return &MockBalanceRepo{data: make(map[int64]int64)}
}

func (r *MockBalanceRepo) Get(ctx context.Context, tx repository.Tx, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data[userID], nil
}

func (r *MockBalanceRepo) Set(ctx context.Context, tx repository.Tx, userID int64, amount int64) error {
	r.mu.Lock()
	r.data[userID] = amount
	r.mu.Unlock()
	return nil
}

func (r *MockBalanceRepo) Add(ctx context.Context, tx repository.Tx, userID int64, delta int64) (int64, error) {
	if r.AddFunc != nil {
		return r.AddFunc(ctx, tx, userID, delta)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[userID] += delta
	return r.data[userID], nil
}

// ---- Mock PricingRepository ----

type MockPricingRepo struct {
	mu    sync.Mutex
	panel map[string]int64
	flat  map[string]int64

	LoadCalls int
	LoadErr   error
}

var _ repository.PricingRepository = (*MockPricingRepo)(nil)

func NewMockPricingRepo() *MockPricingRepo {
	return &MockPricingRepo{panel: make(map[string]int64), flat: make(map[string]int64)}
}

func (r *MockPricingRepo) Load(ctx context.Context, tx repository.Tx) (*model.PricingTable, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LoadCalls++
	if r.LoadErr != nil {
		return nil, r.LoadErr
	}
	t := &model.PricingTable{Panel: make(map[string]int64)}
	for k, v := range r.panel {
		t.Panel[k] = v
	}
	t.Adp = r.flat["adp"]
	t.Reseller = r.flat["reseller"]
	t.Userbot = r.flat["userbot"]
	t.Rental = r.flat["rental"]
	return t, nil
}

func (r *MockPricingRepo) SetPanelPrice(ctx context.Context, tx repository.Tx, plan string, price int64) error {
	r.mu.Lock()
	r.panel[plan] = price
	r.mu.Unlock()
	return nil
}

func (r *MockPricingRepo) SetFlatPrice(ctx context.Context, tx repository.Tx, key string, price int64) error {
	r.mu.Lock()
	r.flat[key] = price
	r.mu.Unlock()
	return nil
}

// ---- Mock WarrantyClaimRepository ----

type MockWarrantyRepo struct {
	mu   sync.Mutex
	data map[string]*model.WarrantyClaim
}

var _ repository.WarrantyClaimRepository = (*MockWarrantyRepo)(nil)

func NewMockWarrantyRepo() *MockWarrantyRepo {
	return &MockWarrantyRepo{data: make(map[string]*model.WarrantyClaim)}
}

func (r *MockWarrantyRepo) Save(ctx context.Context, tx repository.Tx, c *model.WarrantyClaim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.data[c.ID] = &cp
	return nil
}

func (r *MockWarrantyRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.WarrantyClaim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *MockWarrantyRepo) ListPending(ctx context.Context, tx repository.Tx) ([]*model.WarrantyClaim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.WarrantyClaim
	for _, c := range r.data {
		if c.Status == model.ClaimStatusPending {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---- Mock ScriptRepository ----

type MockScriptRepo struct {
	mu   sync.Mutex
	data map[string]*model.Script
}

var _ repository.ScriptRepository = (*MockScriptRepo)(nil)

func NewMockScriptRepo() *MockScriptRepo {
	return &MockScriptRepo{data: make(map[string]*model.Script)}
}

func (r *MockScriptRepo) Save(ctx context.Context, tx repository.Tx, s *model.Script) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.data[s.Name] = &cp
	return nil
}

func (r *MockScriptRepo) FindByName(ctx context.Context, tx repository.Tx, name string) (*model.Script, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.data[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *MockScriptRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Script, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Script
	for _, s := range r.data {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *MockScriptRepo) Delete(ctx context.Context, tx repository.Tx, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[name]; !ok {
		return domain.ErrNotFound
	}
	delete(r.data, name)
	return nil
}

// =============================
// Adapters
// =============================

// ---- Mock PaymentGateway ----

type MockPaymentGateway struct {
	mu sync.Mutex

	CreateDepositFunc func(ctx context.Context, reference string, amount int64) (*adapter.Invoice, error)
	DepositStatusFunc func(ctx context.Context, id string) (adapter.DepositStatus, error)
	CancelDepositFunc func(ctx context.Context, id string) error
	InstantSettleFunc func(ctx context.Context, id string) error

	Calls struct {
		Create  int
		Status  int
		Cancel  int
		Instant int
	}
}

var _ adapter.PaymentGateway = (*MockPaymentGateway)(nil)

func (m *MockPaymentGateway) Name() string { return "mock" }

func (m *MockPaymentGateway) CreateDeposit(ctx context.Context, reference string, amount int64) (*adapter.Invoice, error) {
	m.mu.Lock()
	m.Calls.Create++
	n := m.Calls.Create
	m.mu.Unlock()
	if m.CreateDepositFunc != nil {
		return m.CreateDepositFunc(ctx, reference, amount)
	}
	return &adapter.Invoice{
		ID:        fmt.Sprintf("trx-%d", n),
		Reference: reference,
		Amount:    amount,
		QRString:  "qr-payload",
	}, nil
}

func (m *MockPaymentGateway) DepositStatus(ctx context.Context, id string) (adapter.DepositStatus, error) {
	m.mu.Lock()
	m.Calls.Status++
	m.mu.Unlock()
	if m.DepositStatusFunc != nil {
		return m.DepositStatusFunc(ctx, id)
	}
	return adapter.DepositStatusCreated, nil
}

func (m *MockPaymentGateway) CancelDeposit(ctx context.Context, id string) error {
	m.mu.Lock()
	m.Calls.Cancel++
	m.mu.Unlock()
	if m.CancelDepositFunc != nil {
		return m.CancelDepositFunc(ctx, id)
	}
	return nil
}

func (m *MockPaymentGateway) InstantSettle(ctx context.Context, id string) error {
	m.mu.Lock()
	m.Calls.Instant++
	m.mu.Unlock()
	if m.InstantSettleFunc != nil {
		return m.InstantSettleFunc(ctx, id)
	}
	return nil
}

func (m *MockPaymentGateway) StatusCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls.Status
}

func (m *MockPaymentGateway) InstantCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls.Instant
}

func (m *MockPaymentGateway) CancelCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls.Cancel
}

// ---- Mock RentalGateway ----

type MockRentalGateway struct {
	mu sync.Mutex

	ListServicesFunc func(ctx context.Context) ([]adapter.RentalService, error)
	OrderFunc        func(ctx context.Context, service, operator, country string) (string, string, error)
	StatusFunc       func(ctx context.Context, id string) (*adapter.RentalState, error)
	CancelFunc       func(ctx context.Context, id string) error

	Orders  []string // operators passed to Order, in call order
	Cancels []string
}

var _ adapter.RentalGateway = (*MockRentalGateway)(nil)

func (m *MockRentalGateway) ListServices(ctx context.Context) ([]adapter.RentalService, error) {
	if m.ListServicesFunc != nil {
		return m.ListServicesFunc(ctx)
	}
	return []adapter.RentalService{{Code: "wa", Name: "WHATSAPP", Country: "62", Price: 9000}}, nil
}

func (m *MockRentalGateway) Order(ctx context.Context, service, operator, country string) (string, string, error) {
	m.mu.Lock()
	m.Orders = append(m.Orders, operator)
	m.mu.Unlock()
	if m.OrderFunc != nil {
		return m.OrderFunc(ctx, service, operator, country)
	}
	return "rent-1", "6285712345678", nil
}

func (m *MockRentalGateway) Status(ctx context.Context, id string) (*adapter.RentalState, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, id)
	}
	return &adapter.RentalState{Status: adapter.VendorRentalPending}, nil
}

func (m *MockRentalGateway) Cancel(ctx context.Context, id string) error {
	m.mu.Lock()
	m.Cancels = append(m.Cancels, id)
	m.mu.Unlock()
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, id)
	}
	return nil
}

func (m *MockRentalGateway) OrderOps() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Orders))
	copy(out, m.Orders)
	return out
}

func (m *MockRentalGateway) CancelCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Cancels)
}

// ---- Mock ProvisioningGateway ----

type MockProvisionGateway struct {
	mu sync.Mutex

	CreateUserFunc   func(ctx context.Context, username, displayName string, admin bool) (*adapter.PanelCredentials, error)
	CreateServerFunc func(ctx context.Context, userID int64, name string, spec model.ResourceSpec) (*adapter.PanelServer, error)

	CreatedUsers   []string
	CreatedServers []string
	AdminFlags     []bool
}

var _ adapter.ProvisioningGateway = (*MockProvisionGateway)(nil)

func (m *MockProvisionGateway) CreateUser(ctx context.Context, username, displayName string, admin bool) (*adapter.PanelCredentials, error) {
	m.mu.Lock()
	m.CreatedUsers = append(m.CreatedUsers, username)
	m.AdminFlags = append(m.AdminFlags, admin)
	m.mu.Unlock()
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, username, displayName, admin)
	}
	return &adapter.PanelCredentials{
		UserID:   7,
		Username: username,
		Email:    username + "@gmail.com",
		Password: username + "001",
		Domain:   "https://panel.example.com",
	}, nil
}

func (m *MockProvisionGateway) CreateServer(ctx context.Context, userID int64, name string, spec model.ResourceSpec) (*adapter.PanelServer, error) {
	m.mu.Lock()
	m.CreatedServers = append(m.CreatedServers, name)
	m.mu.Unlock()
	if m.CreateServerFunc != nil {
		return m.CreateServerFunc(ctx, userID, name, spec)
	}
	return &adapter.PanelServer{ID: 42, Name: name}, nil
}

func (m *MockProvisionGateway) DeleteUser(ctx context.Context, id int64) error   { return nil }
func (m *MockProvisionGateway) DeleteServer(ctx context.Context, id int64) error { return nil }

func (m *MockProvisionGateway) ListUsers(ctx context.Context) ([]adapter.PanelUserInfo, error) {
	return nil, nil
}

func (m *MockProvisionGateway) ListServers(ctx context.Context) ([]adapter.PanelServer, error) {
	return nil, nil
}

// ---- Mock Notifier ----

// notifierCalls counts every outbound notification kind.
type notifierCalls struct {
	SendText        int
	DeleteMessage   int
	SendInvoice     int
	OrderSucceeded  int
	OrderFailed     int
	OrderExpired    int
	FulfillFailed   int
	PanelCreds      int
	AdminCreds      int
	InviteLink      int
	SendScript      int
	DepositCredited int
	RentalStarted   int
	RentalOTP       int
	RentalFailed    int
	RentalCancelled int
	Channel         int
	OrderCompleted  int
	RentalCompleted int
}

// MockNotifier counts every outbound notification and captures plain-text
// sends. Per-method Funcs override behavior where a test needs failures.
type MockNotifier struct {
	mu sync.Mutex

	SendTextFunc func(ctx context.Context, chatID int64, text string) error
	ScriptFileID string

	Texts []string
	Calls notifierCalls
}

var _ adapter.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) count(f func()) {
	m.mu.Lock()
	f()
	m.mu.Unlock()
}

func (m *MockNotifier) SendText(ctx context.Context, chatID int64, text string) error {
	if m.SendTextFunc != nil {
		return m.SendTextFunc(ctx, chatID, text)
	}
	m.count(func() { m.Calls.SendText++; m.Texts = append(m.Texts, text) })
	return nil
}

func (m *MockNotifier) DeleteMessage(ctx context.Context, ref model.MessageRef) error {
	m.count(func() { m.Calls.DeleteMessage++ })
	return nil
}

func (m *MockNotifier) SendInvoice(ctx context.Context, o *model.PendingOrder, inv *adapter.Invoice) (model.MessageRef, error) {
	m.count(func() { m.Calls.SendInvoice++ })
	return model.MessageRef{ChatID: o.ChatID, MessageID: 1001}, nil
}

func (m *MockNotifier) OrderSucceeded(ctx context.Context, o *model.Order) error {
	m.count(func() { m.Calls.OrderSucceeded++ })
	return nil
}

func (m *MockNotifier) OrderFailed(ctx context.Context, o *model.PendingOrder, reason string) error {
	m.count(func() { m.Calls.OrderFailed++ })
	return nil
}

func (m *MockNotifier) OrderExpired(ctx context.Context, o *model.PendingOrder, reason string) error {
	m.count(func() { m.Calls.OrderExpired++ })
	return nil
}

func (m *MockNotifier) FulfillmentFailed(ctx context.Context, o *model.Order, cause error) error {
	m.count(func() { m.Calls.FulfillFailed++ })
	return nil
}

func (m *MockNotifier) PanelCredentials(ctx context.Context, chatID int64, creds *adapter.PanelCredentials, server *adapter.PanelServer, spec model.ResourceSpec) error {
	m.count(func() { m.Calls.PanelCreds++ })
	return nil
}

func (m *MockNotifier) AdminCredentials(ctx context.Context, chatID int64, creds *adapter.PanelCredentials) error {
	m.count(func() { m.Calls.AdminCreds++ })
	return nil
}

func (m *MockNotifier) InviteLink(ctx context.Context, chatID int64, kind model.OrderKind, link string) error {
	m.count(func() { m.Calls.InviteLink++ })
	return nil
}

// ScriptFileID, when set, is returned from SendScript as the file id of the
// uploaded document.
func (m *MockNotifier) SendScript(ctx context.Context, chatID int64, s *model.Script) (string, error) {
	m.count(func() { m.Calls.SendScript++ })
	return m.ScriptFileID, nil
}

func (m *MockNotifier) DepositCredited(ctx context.Context, chatID int64, amount, balance int64) error {
	m.count(func() { m.Calls.DepositCredited++ })
	return nil
}

func (m *MockNotifier) RentalStarted(ctx context.Context, r *model.RentalOrder) error {
	m.count(func() { m.Calls.RentalStarted++ })
	return nil
}

func (m *MockNotifier) RentalOTP(ctx context.Context, r *model.RentalOrder, code string) error {
	m.count(func() { m.Calls.RentalOTP++ })
	return nil
}

func (m *MockNotifier) RentalFailed(ctx context.Context, r *model.RentalOrder, note string) error {
	m.count(func() { m.Calls.RentalFailed++ })
	return nil
}

func (m *MockNotifier) RentalCancelled(ctx context.Context, r *model.RentalOrder) error {
	m.count(func() { m.Calls.RentalCancelled++ })
	return nil
}

func (m *MockNotifier) NotifyChannel(ctx context.Context, text string) error {
	m.count(func() { m.Calls.Channel++ })
	return nil
}

func (m *MockNotifier) NotifyOrderCompleted(ctx context.Context, o *model.Order) error {
	m.count(func() { m.Calls.OrderCompleted++ })
	return nil
}

func (m *MockNotifier) NotifyRentalCompleted(ctx context.Context, r *model.RentalOrder) error {
	m.count(func() { m.Calls.RentalCompleted++ })
	return nil
}

// Snapshot returns a copy of the call counters for race-free assertions.
func (m *MockNotifier) Snapshot() notifierCalls {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// ---- Mock FulfillUseCase ----

type MockFulfiller struct {
	mu sync.Mutex

	FulfillFunc func(ctx context.Context, o *model.Order) error
	Fulfilled   []*model.Order
}

var _ usecase.FulfillUseCase = (*MockFulfiller)(nil)

func (m *MockFulfiller) Fulfill(ctx context.Context, o *model.Order) error {
	m.mu.Lock()
	cp := *o
	m.Fulfilled = append(m.Fulfilled, &cp)
	m.mu.Unlock()
	if m.FulfillFunc != nil {
		return m.FulfillFunc(ctx, o)
	}
	return nil
}

func (m *MockFulfiller) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Fulfilled)
}
