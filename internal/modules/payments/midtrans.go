package payments

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"bengkelku.id/app/internal/config"
)

// Midtrans adapts the Snap hosted-checkout API to the Gateway interface.
// Credentials come in through the config struct; nothing global.
type Midtrans struct {
	serverKey string
	snap      snap.Client
}

func NewMidtrans(cfg config.MidtransConfig) *Midtrans {
	env := midtrans.Sandbox
	if cfg.Production {
		env = midtrans.Production
	}
	var c snap.Client
	c.New(cfg.ServerKey, env)
	return &Midtrans{serverKey: cfg.ServerKey, snap: c}
}

func (m *Midtrans) Name() string { return "midtrans" }

func (m *Midtrans) CreateTransaction(ctx context.Context, in CreateTransactionRequest) (CreateTransactionResponse, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  in.CorrelationID,
			GrossAmt: in.Amount,
		},
		CreditCard: &snap.CreditCardDetails{Secure: true},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: in.PayerName,
			Email: in.PayerEmail,
			Phone: in.PayerPhone,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:    in.ItemID,
			Name:  in.ItemName,
			Price: in.Amount,
			Qty:   1,
		}},
	}

	// The SDK call itself is not context-aware; run it aside so the caller's
	// deadline still bounds the operation.
	type result struct {
		resp *snap.Response
		err  *midtrans.Error
	}
	ch := make(chan result, 1)
	go func() {
		resp, err := m.snap.CreateTransaction(req)
		ch <- result{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		return CreateTransactionResponse{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, ctx.Err())
	case out := <-ch:
		if out.err != nil {
			if out.err.StatusCode == 0 || out.err.StatusCode >= 500 {
				return CreateTransactionResponse{}, fmt.Errorf("%w: %s", ErrGatewayUnavailable, out.err.Message)
			}
			return CreateTransactionResponse{}, fmt.Errorf("%w: %s", ErrGatewayRejected, out.err.Message)
		}
		return CreateTransactionResponse{
			Token:       out.resp.Token,
			RedirectURL: out.resp.RedirectURL,
		}, nil
	}
}

type midtransNotification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
}

// VerifyNotification checks the documented field signature:
// sha512(order_id + status_code + gross_amount + server_key).
func (m *Midtrans) VerifyNotification(body []byte) (Notification, error) {
	var n midtransNotification
	if err := json.Unmarshal(body, &n); err != nil {
		return Notification{}, fmt.Errorf("%w: %v", ErrInvalidNotification, err)
	}
	if n.OrderID == "" || n.StatusCode == "" || n.GrossAmount == "" ||
		n.SignatureKey == "" || n.TransactionStatus == "" {
		return Notification{}, fmt.Errorf("%w: missing required fields", ErrInvalidNotification)
	}

	want := SignNotification(n.OrderID, n.StatusCode, n.GrossAmount, m.serverKey)
	got := strings.ToLower(n.SignatureKey)
	if subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
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

// SignNotification computes the Midtrans notification signature. Shared with
// cmd/tools/mockwebhook so the tool produces payloads the verifier accepts.
func SignNotification(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}
