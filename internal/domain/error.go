package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound             = errors.New("entity not found")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrOperationFailed      = errors.New("operation failed")
	ErrInvalidExecContext   = errors.New("invalid execution context")
	ErrReadDatabaseRow      = errors.New("failed to read database row")
	ErrDuplicateActiveOrder = errors.New("user already has an active order")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrGatewayUnavailable   = errors.New("gateway unavailable")
	ErrProvisioningFailed   = errors.New("provisioning failed")
	ErrConfigMissing        = errors.New("required configuration is missing")
	ErrWarrantyNotEligible  = errors.New("order is not eligible for warranty")
	ErrWarrantyExhausted    = errors.New("warranty claim limit reached")
	ErrWarrantyExpired      = errors.New("warranty period has expired")
	ErrClaimAlreadyDecided  = errors.New("warranty claim already processed")
	ErrOrderNotPending      = errors.New("order is not pending")
	ErrLockBusy             = errors.New("resource is locked by another operation")
	ErrDeliveryBlocked      = errors.New("user has blocked the bot")
)
