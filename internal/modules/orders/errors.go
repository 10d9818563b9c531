package orders

import "errors"

var (
	ErrNotFound          = errors.New("order not found")
	ErrForbidden         = errors.New("order belongs to another user")
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	ErrPackageNotFound   = errors.New("service package not found")

	// ErrStale signals a lost optimistic-concurrency race: the row changed
	// between read and write. Callers reread and retry.
	ErrStale = errors.New("stale order version")

	// ErrConflict is returned once the bounded retry budget is spent.
	ErrConflict = errors.New("conflicting concurrent update")
)
