package orders

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Repo is the MySQL-backed Store.
type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// DB returns the underlying database connection for direct queries.
func (r *Repo) DB() *gorm.DB { return r.db }

func (r *Repo) Create(ctx context.Context, o *Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *Repo) Get(ctx context.Context, id string) (Order, error) {
	var o Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}

func (r *Repo) ByGatewayRef(ctx context.Context, ref string) (Order, error) {
	var o Order
	if err := r.db.WithContext(ctx).First(&o, "gateway_txn_ref = ?", ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}

func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]Order, error) {
	var out []Order
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

// Update writes the mutable fields as one row update conditioned on the
// version the caller read. Zero rows affected means a concurrent writer won;
// the caller rereads and retries.
func (r *Repo) Update(ctx context.Context, o Order) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&Order{}).
		Where("id = ? AND version = ?", o.ID, o.Version).
		Updates(map[string]any{
			"lifecycle_status":     o.LifecycleStatus,
			"payment_status":       o.PaymentStatus,
			"gateway_txn_ref":      o.GatewayTxnRef,
			"gateway_client_token": o.GatewayClientToken,
			"payment_method":       o.PaymentMethod,
			"transfer_proof":       o.TransferProof,
			"version":              o.Version + 1,
			"updated_at":           now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStale
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&Order{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
