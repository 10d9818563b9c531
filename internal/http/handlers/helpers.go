package handlers

import (
	"errors"

	"bengkelku.id/app/internal/modules/orders"
	"bengkelku.id/app/internal/modules/payments"
	"bengkelku.id/app/internal/shared/apperr"
)

// toAppErr maps module sentinel errors onto the HTTP error taxonomy. Anything
// unmapped propagates as a logged 500.
func toAppErr(err error) *apperr.AppError {
	switch {
	case errors.Is(err, orders.ErrNotFound):
		return apperr.NotFoundErr("Order not found")
	case errors.Is(err, orders.ErrPackageNotFound):
		return apperr.NotFoundErr("Package not found")
	case errors.Is(err, orders.ErrForbidden):
		return apperr.ForbiddenErr("You are not authorized to access this order")
	case errors.Is(err, orders.ErrInvalidTransition):
		return apperr.ConflictErr("Order is not in a state that allows this transition")
	case errors.Is(err, orders.ErrConflict), errors.Is(err, orders.ErrStale):
		return apperr.ConflictErr("Concurrent update, please retry")
	case errors.Is(err, payments.ErrAlreadyPaid):
		return apperr.ConflictErr("Order has already been paid")
	case errors.Is(err, payments.ErrConflict):
		return apperr.ConflictErr("Concurrent update, please retry")
	case errors.Is(err, payments.ErrInvalidNotification):
		return apperr.InvalidErr("Invalid notification payload", nil)
	case errors.Is(err, payments.ErrGatewayRejected):
		return apperr.InvalidErr("Payment gateway rejected the transaction", nil)
	case errors.Is(err, payments.ErrGatewayUnavailable):
		return apperr.UnavailableErr("Payment gateway is unavailable, please retry")
	default:
		return apperr.Wrap(err)
	}
}
