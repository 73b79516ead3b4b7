package model

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/oklog/ulid/v2"

	"telegram-panel-store/internal/domain"
)

// OrderKind enumerates the digital goods sold by the store.
type OrderKind string

const (
	OrderKindPanel    OrderKind = "panel"    // provisioned hosting panel (user + sized server)
	OrderKindAdmin    OrderKind = "adp"      // admin panel account
	OrderKindReseller OrderKind = "reseller" // reseller group invite
	OrderKindUserbot  OrderKind = "userbot"  // userbot group invite
	OrderKindScript   OrderKind = "script"   // downloadable script from the catalog
	OrderKindDeposit  OrderKind = "deposit"  // balance top-up
)

func (k OrderKind) Valid() bool {
	switch k {
	case OrderKindPanel, OrderKindAdmin, OrderKindReseller, OrderKindUserbot, OrderKindScript, OrderKindDeposit:
		return true
	}
	return false
}

// WarrantyEligible reports whether orders of this kind carry a replacement
// warranty. Only provisioned accounts do; invite links, scripts and balance
// deposits have nothing to replace.
func (k OrderKind) WarrantyEligible() bool {
	return k == OrderKindPanel || k == OrderKindAdmin
}

type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
)

const (
	// Invoice totals get a random surcharge in this closed range so that
	// concurrent invoices for the same unit price settle to distinct amounts.
	SurchargeMin = 110
	SurchargeMax = 250

	// PendingOrderTTL is the absolute payment window per invoice.
	PendingOrderTTL = 15 * time.Minute

	// WarrantyWindow and WarrantyMaxClaims bound the replacement warranty
	// attached to eligible completed orders.
	WarrantyWindow    = 15 * 24 * time.Hour
	WarrantyMaxClaims = 1
)

// NewSurcharge draws a uniform random surcharge from [SurchargeMin, SurchargeMax].
func NewSurcharge() int64 {
	span := int64(SurchargeMax - SurchargeMin + 1)
	n, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		return SurchargeMin
	}
	return SurchargeMin + n.Int64()
}

// OrderPayload carries the kind-specific order parameters.
type OrderPayload struct {
	Username   string `json:"username,omitempty"`    // panel/adp target account name
	Plan       string `json:"plan,omitempty"`        // panel sizing key, e.g. "3gb"
	RAM        int    `json:"ram,omitempty"`         // MB, 0 = unlimited
	Disk       int    `json:"disk,omitempty"`        // MB, 0 = unlimited
	CPU        int    `json:"cpu,omitempty"`         // percent, 0 = unlimited
	ScriptName string `json:"script_name,omitempty"` // script catalog key
	Amount     int64  `json:"amount,omitempty"`      // deposit principal
}

// MessageRef points at an outbound chat message so it can be edited or
// deleted later (invoice cleanup on cancel).
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// PendingOrder is the in-memory record of an unpaid invoice. At most one
// exists per user at any time.
type PendingOrder struct {
	UserID      int64
	ChatID      int64
	Kind        OrderKind
	Price       int64 // unit price
	Surcharge   int64
	Total       int64 // Price + Surcharge
	PaymentID   string // gateway transaction id
	ReferenceID string // our reference passed to the gateway
	CreatedAt   time.Time
	ExpiresAt   time.Time
	Payload     OrderPayload
	InvoiceMsg  MessageRef
}

func NewPendingOrder(userID, chatID int64, kind OrderKind, price int64, payload OrderPayload, now time.Time) (*PendingOrder, error) {
	if userID <= 0 || !kind.Valid() || price <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	surcharge := NewSurcharge()
	return &PendingOrder{
		UserID:      userID,
		ChatID:      chatID,
		Kind:        kind,
		Price:       price,
		Surcharge:   surcharge,
		Total:       price + surcharge,
		ReferenceID: "", // assigned by the coordinator before the gateway call
		CreatedAt:   now,
		ExpiresAt:   now.Add(PendingOrderTTL),
		Payload:     payload,
	}, nil
}

func (p *PendingOrder) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// Warranty is embedded in a completed order.
type Warranty struct {
	Eligible   bool
	Claimed    bool
	ClaimCount int
	MaxClaims  int
	ValidUntil time.Time
}

func (w *Warranty) Claimable(now time.Time) error {
	if !w.Eligible {
		return domain.ErrWarrantyNotEligible
	}
	if w.ClaimCount >= w.MaxClaims {
		return domain.ErrWarrantyExhausted
	}
	if now.After(w.ValidUntil) {
		return domain.ErrWarrantyExpired
	}
	return nil
}

// Order is the durable record written once a pending order is paid.
type Order struct {
	ID          string // ULID
	UserID      int64
	ChatID      int64
	Kind        OrderKind
	Price       int64
	Total       int64
	PaymentID   string
	ReferenceID string
	Status      OrderStatus
	CreatedAt   time.Time
	CompletedAt time.Time
	Processed   bool
	ProcessedAt *time.Time
	Payload     OrderPayload
	Warranty    Warranty
}

// CompleteOrder snapshots a paid pending order into its durable form.
func CompleteOrder(p *PendingOrder, now time.Time) *Order {
	return &Order{
		ID:          ulid.Make().String(),
		UserID:      p.UserID,
		ChatID:      p.ChatID,
		Kind:        p.Kind,
		Price:       p.Price,
		Total:       p.Total,
		PaymentID:   p.PaymentID,
		ReferenceID: p.ReferenceID,
		Status:      OrderStatusCompleted,
		CreatedAt:   p.CreatedAt,
		CompletedAt: now,
		Payload:     p.Payload,
		Warranty: Warranty{
			Eligible:   p.Kind.WarrantyEligible(),
			MaxClaims:  WarrantyMaxClaims,
			ValidUntil: now.Add(WarrantyWindow),
		},
	}
}
