//go:build !integration

package model

import (
	"errors"
	"testing"
	"time"

	"telegram-panel-store/internal/domain"
)

// --- User Model Tests ---

func TestNewUser(t *testing.T) {
	t.Run("should create a new user successfully", func(t *testing.T) {
		startTime := time.Now()
		user, err := NewUser(12345, "testuser", "id")

		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if user.TelegramID != 12345 {
			t.Errorf("expected telegram ID to be 12345, but got %d", user.TelegramID)
		}
		if !user.Active {
			t.Error("expected a fresh user to be active")
		}
		if time.Since(startTime) > time.Second {
			t.Errorf("user.RegisteredAt timestamp is too far from current time")
		}
	})

	t.Run("should fail with invalid telegram ID", func(t *testing.T) {
		user, err := NewUser(0, "testuser", "id")
		if err == nil {
			t.Fatal("expected an error for invalid telegram ID, but got nil")
		}
		if user != nil {
			t.Errorf("expected user to be nil on error, but it was not")
		}
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected error to be ErrInvalidArgument, but got %T", err)
		}
	})
}

// --- Order Model Tests ---

func TestNewSurcharge(t *testing.T) {
	t.Run("should stay within the closed surcharge range", func(t *testing.T) {
		for i := 0; i < 500; i++ {
			s := NewSurcharge()
			if s < SurchargeMin || s > SurchargeMax {
				t.Fatalf("surcharge %d outside [%d, %d]", s, SurchargeMin, SurchargeMax)
			}
		}
	})
}

func TestNewPendingOrder(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("should compute the total as price plus surcharge", func(t *testing.T) {
		po, err := NewPendingOrder(1, 1, OrderKindPanel, 3000, OrderPayload{Username: "andi", Plan: "3gb"}, now)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if po.Total != po.Price+po.Surcharge {
			t.Errorf("total = %d, want %d + %d", po.Total, po.Price, po.Surcharge)
		}
		if !po.ExpiresAt.Equal(now.Add(PendingOrderTTL)) {
			t.Errorf("expiry = %v, want creation + %v", po.ExpiresAt, PendingOrderTTL)
		}
	})

	t.Run("should reject an invalid kind or price", func(t *testing.T) {
		if _, err := NewPendingOrder(1, 1, OrderKind("vps"), 3000, OrderPayload{}, now); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("unknown kind: %v, want ErrInvalidArgument", err)
		}
		if _, err := NewPendingOrder(1, 1, OrderKindPanel, 0, OrderPayload{}, now); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("zero price: %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("should expire exactly at the window boundary", func(t *testing.T) {
		po, _ := NewPendingOrder(1, 1, OrderKindDeposit, 5000, OrderPayload{Amount: 5000}, now)
		if po.Expired(now.Add(PendingOrderTTL - time.Second)) {
			t.Error("order expired before the window closed")
		}
		if !po.Expired(now.Add(PendingOrderTTL)) {
			t.Error("order should be expired at the boundary")
		}
	})
}

func TestCompleteOrder(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("should grant a warranty to provisioned kinds only", func(t *testing.T) {
		cases := []struct {
			kind     OrderKind
			eligible bool
		}{
			{OrderKindPanel, true},
			{OrderKindAdmin, true},
			{OrderKindReseller, false},
			{OrderKindUserbot, false},
			{OrderKindScript, false},
			{OrderKindDeposit, false},
		}
		for _, c := range cases {
			po, err := NewPendingOrder(1, 1, c.kind, 3000, OrderPayload{Username: "a", Plan: "3gb", ScriptName: "s", Amount: 3000}, now)
			if err != nil {
				t.Fatalf("%s: %v", c.kind, err)
			}
			o := CompleteOrder(po, now)
			if o.Warranty.Eligible != c.eligible {
				t.Errorf("%s: eligible = %v, want %v", c.kind, o.Warranty.Eligible, c.eligible)
			}
		}
	})

	t.Run("should carry the payment identifiers into the durable record", func(t *testing.T) {
		po, _ := NewPendingOrder(1, 1, OrderKindPanel, 3000, OrderPayload{Username: "a", Plan: "3gb"}, now)
		po.PaymentID = "trx-5"
		po.ReferenceID = "ref-5"

		o := CompleteOrder(po, now.Add(time.Minute))

		if o.ID == "" {
			t.Error("expected a generated order id")
		}
		if o.PaymentID != "trx-5" || o.ReferenceID != "ref-5" {
			t.Errorf("identifiers = %s/%s, want trx-5/ref-5", o.PaymentID, o.ReferenceID)
		}
		if o.Status != OrderStatusCompleted {
			t.Errorf("status = %s, want completed", o.Status)
		}
		if !o.Warranty.ValidUntil.Equal(now.Add(time.Minute).Add(WarrantyWindow)) {
			t.Errorf("warranty until %v, want completion + %v", o.Warranty.ValidUntil, WarrantyWindow)
		}
	})
}

func TestWarrantyClaimable(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	valid := Warranty{Eligible: true, MaxClaims: WarrantyMaxClaims, ValidUntil: now.Add(24 * time.Hour)}

	t.Run("should pass for a fresh eligible warranty", func(t *testing.T) {
		w := valid
		if err := w.Claimable(now); err != nil {
			t.Fatalf("expected claimable, got %v", err)
		}
	})

	t.Run("should map each exhaustion cause to its error", func(t *testing.T) {
		w := valid
		w.Eligible = false
		if err := w.Claimable(now); !errors.Is(err, domain.ErrWarrantyNotEligible) {
			t.Errorf("ineligible: %v", err)
		}

		w = valid
		w.ClaimCount = w.MaxClaims
		if err := w.Claimable(now); !errors.Is(err, domain.ErrWarrantyExhausted) {
			t.Errorf("exhausted: %v", err)
		}

		w = valid
		if err := w.Claimable(w.ValidUntil.Add(time.Second)); !errors.Is(err, domain.ErrWarrantyExpired) {
			t.Errorf("expired: %v", err)
		}
	})
}

func TestWarrantyClaimDecide(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("should decide a pending claim once", func(t *testing.T) {
		c, err := NewWarrantyClaim("order-1", 1, 1, now)
		if err != nil {
			t.Fatalf("NewWarrantyClaim: %v", err)
		}
		if err := c.Decide(true, 777, now); err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if c.Status != ClaimStatusApproved || c.ProcessedBy != 777 {
			t.Errorf("claim = %+v, want approved by 777", c)
		}
		if err := c.Decide(false, 778, now); !errors.Is(err, domain.ErrClaimAlreadyDecided) {
			t.Errorf("second decision: %v, want ErrClaimAlreadyDecided", err)
		}
	})
}

// --- Rental Model Tests ---

func TestNewRentalOrder(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("should snapshot the debit at purchase time", func(t *testing.T) {
		r, err := NewRentalOrder("rent-1", 1, 1, "wa", "WHATSAPP", 9000, "6285712345678", 11000, now)
		if err != nil {
			t.Fatalf("NewRentalOrder: %v", err)
		}
		if r.Status != RentalStatusPending {
			t.Errorf("status = %s, want pending", r.Status)
		}
		if r.Debited != 9000 || r.Remaining != 11000 || r.Refunded != 0 {
			t.Errorf("snapshots = %d/%d/%d, want 9000/11000/0", r.Debited, r.Remaining, r.Refunded)
		}
	})

	t.Run("should reject missing identifiers", func(t *testing.T) {
		if _, err := NewRentalOrder("", 1, 1, "wa", "WHATSAPP", 9000, "n", 0, now); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("empty id: %v", err)
		}
		if _, err := NewRentalOrder("rent-1", 1, 1, "", "WHATSAPP", 9000, "n", 0, now); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("empty service: %v", err)
		}
	})

	t.Run("should treat every non-pending status as terminal", func(t *testing.T) {
		for _, s := range []RentalStatus{RentalStatusSuccess, RentalStatusFailed, RentalStatusCancelled} {
			if !s.Terminal() {
				t.Errorf("%s should be terminal", s)
			}
		}
		if RentalStatusPending.Terminal() {
			t.Error("pending must not be terminal")
		}
	})
}

// --- Pricing Tests ---

func TestDefaultPricing(t *testing.T) {
	t.Run("should price every panel plan", func(t *testing.T) {
		table := DefaultPricing()
		for _, plan := range PanelPlanOrder {
			if table.Panel[plan] <= 0 {
				t.Errorf("plan %s has no default price", plan)
			}
			if _, ok := PanelPlans[plan]; !ok {
				t.Errorf("plan %s has no resource spec", plan)
			}
		}
	})

	t.Run("should price the admin panel apart from the reseller panel", func(t *testing.T) {
		table := DefaultPricing()
		if table.Adp != 20000 {
			t.Errorf("adp = %d, want 20000", table.Adp)
		}
		if table.Adp == table.Reseller {
			t.Error("admin panel must carry its own price, not the reseller one")
		}
	})

	t.Run("should hand out an independent copy", func(t *testing.T) {
		a := DefaultPricing()
		a.Panel["1gb"] = 99999
		if b := DefaultPricing(); b.Panel["1gb"] == 99999 {
			t.Error("mutating one table must not leak into the defaults")
		}
	})
}
