package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bengkelku.id/app/internal/modules/orders"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name              string
		transactionStatus string
		fraudStatus       string
		want              string
	}{
		{"settlement accepted", "settlement", "accept", orders.PaymentPaid},
		{"capture accepted", "capture", "accept", orders.PaymentPaid},
		{"settlement without fraud verdict", "settlement", "", orders.PaymentPaid},
		{"capture challenged", "capture", "challenge", orders.PaymentPending},
		{"capture denied by fraud", "capture", "deny", orders.PaymentPending},
		{"pending", "pending", "", orders.PaymentPending},
		{"cancel", "cancel", "", orders.PaymentFailed},
		{"deny", "deny", "", orders.PaymentFailed},
		{"expire", "expire", "", orders.PaymentFailed},
		{"refund keeps funds in dispute", "refund", "", orders.PaymentPending},
		{"partial refund", "partial_refund", "", orders.PaymentPending},
		{"chargeback", "chargeback", "", orders.PaymentPending},
		{"unknown status defaults to pending", "authorize", "", orders.PaymentPending},
		{"empty status defaults to pending", "", "", orders.PaymentPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.transactionStatus, tt.fraudStatus))
		})
	}
}

func TestForward(t *testing.T) {
	tests := []struct {
		name string
		cur  string
		next string
		want bool
	}{
		{"unpaid to pending", orders.PaymentUnpaid, orders.PaymentPending, true},
		{"unpaid to paid", orders.PaymentUnpaid, orders.PaymentPaid, true},
		{"pending to paid", orders.PaymentPending, orders.PaymentPaid, true},
		{"pending to failed", orders.PaymentPending, orders.PaymentFailed, true},
		{"paid to paid replay", orders.PaymentPaid, orders.PaymentPaid, false},
		{"paid to pending late arrival", orders.PaymentPaid, orders.PaymentPending, false},
		{"paid to failed", orders.PaymentPaid, orders.PaymentFailed, false},
		{"failed to paid", orders.PaymentFailed, orders.PaymentPaid, false},
		{"failed to pending late arrival", orders.PaymentFailed, orders.PaymentPending, false},
		{"pending to pending replay", orders.PaymentPending, orders.PaymentPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Forward(tt.cur, tt.next))
		})
	}
}
