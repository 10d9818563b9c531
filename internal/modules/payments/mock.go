package payments

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// Mock is an in-process Gateway for tests and for local development when no
// real gateway credentials are configured. Notifications use the same field
// signature scheme as the real adapter, keyed by Secret, so the mockwebhook
// tool can drive it.
type Mock struct {
	mu          sync.Mutex
	Secret      string
	CreateCalls []CreateTransactionRequest
	CreateErr   error
	tokenSeq    int
}

func NewMock(secret string) *Mock {
	return &Mock{Secret: secret}
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) CreateTransaction(ctx context.Context, in CreateTransactionRequest) (CreateTransactionResponse, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, in)
	if m.CreateErr != nil {
		return CreateTransactionResponse{}, m.CreateErr
	}
	m.tokenSeq++
	return CreateTransactionResponse{
		Token:       fmt.Sprintf("mock-token-%d", m.tokenSeq),
		RedirectURL: "https://checkout.invalid/" + in.CorrelationID,
	}, nil
}

func (m *Mock) VerifyNotification(body []byte) (Notification, error) {
	var n midtransNotification
	if err := json.Unmarshal(body, &n); err != nil {
		return Notification{}, fmt.Errorf("%w: %v", ErrInvalidNotification, err)
	}
	if n.OrderID == "" || n.StatusCode == "" || n.GrossAmount == "" ||
		n.SignatureKey == "" || n.TransactionStatus == "" {
		return Notification{}, fmt.Errorf("%w: missing required fields", ErrInvalidNotification)
	}
	want := SignNotification(n.OrderID, n.StatusCode, n.GrossAmount, m.Secret)
	if subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(n.SignatureKey))) != 1 {
		return Notification{}, fmt.Errorf("%w: signature mismatch", ErrInvalidNotification)
	}
	return Notification{
		OrderRef:          n.OrderID,
		TransactionID:     n.TransactionID,
		TransactionStatus: n.TransactionStatus,
		FraudStatus:       n.FraudStatus,
		PaymentType:       n.PaymentType,
		GrossAmount:       n.GrossAmount,
		StatusCode:        n.StatusCode,
	}, nil
}

// MemLedger is the in-memory NotificationLedger used by tests.
type MemLedger struct {
	mu     sync.Mutex
	Events []NotificationEvent
	seen   map[string]bool
	Err    error
}

func NewMemLedger() *MemLedger {
	return &MemLedger{seen: make(map[string]bool)}
}

func (l *MemLedger) Record(ctx context.Context, e NotificationEvent) (bool, error) {
	_ = ctx
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return false, l.Err
	}
	key := e.Gateway + "|" + e.GatewayRef + "|" + e.ReportedStatus
	if l.seen[key] {
		return true, nil
	}
	l.seen[key] = true
	l.Events = append(l.Events, e)
	return false, nil
}
