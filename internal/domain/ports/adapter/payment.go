package adapter

import "context"

// DepositStatus is the gateway-side status of a deposit invoice.
type DepositStatus string

const (
	DepositStatusCreated    DepositStatus = "created"
	DepositStatusProcessing DepositStatus = "processing"
	DepositStatusSuccess    DepositStatus = "success"
	DepositStatusFailed     DepositStatus = "failed"
	DepositStatusCancel     DepositStatus = "cancel"
)

func (s DepositStatus) Terminal() bool {
	return s == DepositStatusSuccess || s == DepositStatusFailed || s == DepositStatusCancel
}

// Invoice is the gateway's answer to a deposit creation.
type Invoice struct {
	ID         string // gateway transaction id
	Reference  string // our reference echoed back
	Amount     int64
	QRString   string // raw QR payload, may be empty
	QRImageURL string // hosted QR image, may be empty
}

// PaymentGateway is the port for the QRIS deposit provider.
type PaymentGateway interface {
	Name() string
	CreateDeposit(ctx context.Context, reference string, amount int64) (*Invoice, error)
	DepositStatus(ctx context.Context, id string) (DepositStatus, error)
	CancelDeposit(ctx context.Context, id string) error
	// InstantSettle asks the provider to settle a processing deposit
	// immediately. Best effort, at most once per order.
	InstantSettle(ctx context.Context, id string) error
}
