package payments

import "errors"

var (
	ErrAlreadyPaid         = errors.New("order already paid")
	ErrInvalidNotification = errors.New("invalid gateway notification")
	ErrGatewayUnavailable  = errors.New("payment gateway unavailable")
	ErrGatewayRejected     = errors.New("payment gateway rejected the transaction")

	// ErrConflict: optimistic-concurrency retries exhausted. The whole
	// operation is safe to retry from the top.
	ErrConflict = errors.New("conflicting concurrent update")
)
