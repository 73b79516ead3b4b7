package model

import (
	"time"

	"telegram-panel-store/internal/domain"
)

// RentalStatus enumerates the lifecycle of a virtual-number rental.
type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "pending"
	RentalStatusSuccess   RentalStatus = "success"
	RentalStatusFailed    RentalStatus = "failed"
	RentalStatusCancelled RentalStatus = "cancelled"
)

func (s RentalStatus) Terminal() bool { return s != RentalStatusPending }

// RentalOrder records a virtual phone number rented for OTP retrieval.
// The balance is debited at purchase time; the vendor does not hold funds.
type RentalOrder struct {
	ID          string // vendor-assigned order id
	UserID      int64
	ChatID      int64
	ServiceCode string
	ServiceName string
	Price       int64
	Target      string // rented phone number
	Status      RentalStatus
	Note        string // vendor note; OTP text once received
	CreatedAt   time.Time
	CompletedAt *time.Time
	// Balance snapshots taken at purchase and (on cancel) refund time.
	Debited   int64
	Remaining int64
	Refunded  int64
}

func NewRentalOrder(id string, userID, chatID int64, serviceCode, serviceName string, price int64, target string, remaining int64, now time.Time) (*RentalOrder, error) {
	if id == "" || userID <= 0 || serviceCode == "" || price <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &RentalOrder{
		ID:          id,
		UserID:      userID,
		ChatID:      chatID,
		ServiceCode: serviceCode,
		ServiceName: serviceName,
		Price:       price,
		Target:      target,
		Status:      RentalStatusPending,
		CreatedAt:   now,
		Debited:     price,
		Remaining:   remaining,
	}, nil
}
