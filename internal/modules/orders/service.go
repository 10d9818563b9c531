package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bengkelku.id/app/internal/modules/catalog"
	"bengkelku.id/app/internal/storage"
)

// Bounded optimistic-concurrency retries per write, same budget as the
// payments engine.
const maxCASAttempts = 3

// PackageFinder is the slice of the catalog the booking flow needs.
type PackageFinder interface {
	GetPackage(ctx context.Context, id string) (catalog.Package, error)
}

type Service struct {
	store    Store
	packages PackageFinder
	blobs    storage.Storage
	logger   *slog.Logger
}

func NewService(store Store, packages PackageFinder, blobs storage.Storage, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, packages: packages, blobs: blobs, logger: logger}
}

type CreateInput struct {
	OwnerID     string
	PackageID   string
	MechanicID  *string
	Description string
	Date        time.Time
}

// Create books an order in pending/unpaid, snapshotting the package price.
func (s *Service) Create(ctx context.Context, in CreateInput) (Order, error) {
	pkg, err := s.packages.GetPackage(ctx, in.PackageID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return Order{}, ErrPackageNotFound
		}
		return Order{}, err
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	now := time.Now()
	o := Order{
		ID:              uuid.NewString(),
		OwnerID:         in.OwnerID,
		MechanicID:      in.MechanicID,
		PackageID:       pkg.ID,
		Description:     in.Description,
		Date:            date,
		TotalAmount:     pkg.Price,
		LifecycleStatus: LifecyclePending,
		PaymentStatus:   PaymentUnpaid,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.Create(ctx, &o); err != nil {
		return Order{}, err
	}

	s.logger.InfoContext(ctx, "order created",
		"order_id", o.ID, "package_id", pkg.ID, "total_amount", o.TotalAmount)
	return o, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Order, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

func (s *Service) Get(ctx context.Context, id, requesterID string) (Order, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if o.OwnerID != requesterID {
		return Order{}, ErrForbidden
	}
	return o, nil
}

// MarkCompleted moves lifecycle pending -> completed. Orthogonal to payment:
// the requester may declare fulfilment before, during or after settlement. A
// webhook landing between read and write costs a reread and retry, not the
// whole request.
func (s *Service) MarkCompleted(ctx context.Context, id, requesterID string) (Order, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if o.OwnerID != requesterID {
		return Order{}, ErrForbidden
	}

	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		if o.LifecycleStatus != LifecyclePending {
			return Order{}, ErrInvalidTransition
		}

		o.LifecycleStatus = LifecycleCompleted
		err = s.store.Update(ctx, o)
		if err == nil {
			o.Version++
			s.logger.InfoContext(ctx, "order completed", "order_id", o.ID)
			return o, nil
		}
		if !errors.Is(err, ErrStale) {
			return Order{}, err
		}
		if o, err = s.store.Get(ctx, id); err != nil {
			return Order{}, err
		}
	}
	return Order{}, ErrConflict
}

// Archive snapshots the order to the blob store and then deletes the row.
// The snapshot preserves the audit trail refunds and chargebacks need; the
// engine never archives on its own.
func (s *Service) Archive(ctx context.Context, id, requesterID string) error {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if o.OwnerID != requesterID {
		return ErrForbidden
	}

	snap, err := json.Marshal(o)
	if err != nil {
		return err
	}
	key := fmt.Sprintf("orders/%s.json", o.ID)
	if _, err := s.blobs.Put(ctx, bytes.NewReader(snap), storage.PutInput{
		Key:         key,
		ContentType: "application/json",
		Size:        int64(len(snap)),
	}); err != nil {
		return fmt.Errorf("archive snapshot: %w", err)
	}

	if err := s.store.Delete(ctx, o.ID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "order archived", "order_id", o.ID, "snapshot_key", key)
	return nil
}
