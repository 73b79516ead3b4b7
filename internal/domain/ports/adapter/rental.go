package adapter

import "context"

// RentalService is one rentable virtual-number service.
type RentalService struct {
	Code    string
	Name    string
	Country string
	Price   int64
}

// VendorRentalStatus is the raw vendor status of a rental order.
type VendorRentalStatus string

const (
	VendorRentalPending VendorRentalStatus = "Pending"
	VendorRentalSuccess VendorRentalStatus = "Success"
	VendorRentalCancel  VendorRentalStatus = "Cancel"
	VendorRentalError   VendorRentalStatus = "Error"
)

type RentalState struct {
	Status VendorRentalStatus
	Note   string // vendor note; carries the OTP code on success
}

// RentalGateway is the port for the virtual-number vendor.
type RentalGateway interface {
	ListServices(ctx context.Context) ([]RentalService, error)
	// Order places a rental for the service with the given operator and
	// country; returns the vendor order id and the rented number.
	Order(ctx context.Context, service, operator, country string) (id, target string, err error)
	Status(ctx context.Context, id string) (*RentalState, error)
	Cancel(ctx context.Context, id string) error
}
