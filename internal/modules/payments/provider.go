package payments

import "context"

type CreateTransactionRequest struct {
	CorrelationID string // becomes the gateway-side order id
	Amount        int64
	ItemID        string
	ItemName      string
	PayerName     string
	PayerEmail    string
	PayerPhone    string
}

type CreateTransactionResponse struct {
	Token       string
	RedirectURL string
}

// Notification is the verified, parsed form of an inbound gateway callback.
// Consumers never touch the raw payload after verification.
type Notification struct {
	OrderRef          string // our correlation id, echoed back by the gateway
	TransactionID     string
	TransactionStatus string
	FraudStatus       string
	PaymentType       string
	GrossAmount       string
	StatusCode        string
}

type Gateway interface {
	Name() string
	CreateTransaction(ctx context.Context, req CreateTransactionRequest) (CreateTransactionResponse, error)

	// VerifyNotification authenticates and parses a raw webhook body. Fails
	// closed: nothing downstream runs on an unverifiable payload.
	VerifyNotification(body []byte) (Notification, error)
}
