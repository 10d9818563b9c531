package payments

import "bengkelku.id/app/internal/modules/orders"

// rank orders payment statuses: unpaid < pending < {paid, failed}. The two
// terminal states share a rank so neither can overwrite the other.
func rank(status string) int {
	switch status {
	case orders.PaymentUnpaid:
		return 0
	case orders.PaymentPending:
		return 1
	case orders.PaymentPaid, orders.PaymentFailed:
		return 2
	default:
		return 0
	}
}

// Forward reports whether moving cur -> next is a strictly forward
// transition. Anything else is a replay or a late arrival and must no-op.
func Forward(cur, next string) bool {
	return rank(next) > rank(cur)
}

// Classify maps a gateway transaction status (plus fraud verdict) onto our
// payment status. capture/settlement count only with fraud acceptance.
// Refunds and chargebacks classify as pending: funds are in dispute, so
// fulfilment must not proceed on their account. Unrecognized statuses also
// classify as pending, matching the gateway's own "still in flight" default.
func Classify(transactionStatus, fraudStatus string) string {
	switch transactionStatus {
	case "capture", "settlement":
		if fraudStatus == "" || fraudStatus == "accept" {
			return orders.PaymentPaid
		}
		return orders.PaymentPending
	case "cancel", "deny", "expire":
		return orders.PaymentFailed
	case "pending":
		return orders.PaymentPending
	case "refund", "partial_refund", "chargeback", "partial_chargeback":
		return orders.PaymentPending
	default:
		return orders.PaymentPending
	}
}
