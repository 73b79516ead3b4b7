package model

import (
	"time"

	"github.com/oklog/ulid/v2"

	"telegram-panel-store/internal/domain"
)

type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
)

// WarrantyClaim is a user's request to have a warrantied order replaced.
// It is decided exactly once by an owner and is immutable afterward.
type WarrantyClaim struct {
	ID          string // ULID
	OrderID     string
	UserID      int64
	ChatID      int64
	Status      ClaimStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
	ProcessedBy int64 // owner telegram id
}

func NewWarrantyClaim(orderID string, userID, chatID int64, now time.Time) (*WarrantyClaim, error) {
	if orderID == "" || userID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &WarrantyClaim{
		ID:        ulid.Make().String(),
		OrderID:   orderID,
		UserID:    userID,
		ChatID:    chatID,
		Status:    ClaimStatusPending,
		CreatedAt: now,
	}, nil
}

// Decide moves a pending claim to approved or rejected.
func (c *WarrantyClaim) Decide(approve bool, by int64, now time.Time) error {
	if c.Status != ClaimStatusPending {
		return domain.ErrClaimAlreadyDecided
	}
	if approve {
		c.Status = ClaimStatusApproved
	} else {
		c.Status = ClaimStatusRejected
	}
	c.ProcessedAt = &now
	c.ProcessedBy = by
	return nil
}
