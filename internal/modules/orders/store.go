package orders

import "context"

// Store is the persistence surface shared by the order service and the
// payment reconciliation engine. Update is a compare-and-swap on Version.
type Store interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (Order, error)
	ByGatewayRef(ctx context.Context, ref string) (Order, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Order, error)
	Update(ctx context.Context, o Order) error
	Delete(ctx context.Context, id string) error
}
