package orders

import "time"

// Lifecycle (fulfilment) statuses. Payment settlement is tracked separately
// because the two are advanced by different actors at different times.
const (
	LifecyclePending    = "pending"
	LifecycleCompleted  = "completed"
	LifecycleProcessing = "processing"
	LifecyclePaid       = "paid"
	LifecycleCancelled  = "cancelled"
	LifecycleFailed     = "failed"
)

// Gateway-observed payment statuses.
const (
	PaymentUnpaid  = "unpaid"
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

type Order struct {
	ID          string `gorm:"type:char(36);primaryKey"`
	OwnerID     string `gorm:"type:char(36);not null;index:ix_orders_owner_id"`
	MechanicID  *string `gorm:"type:char(36);index:ix_orders_mechanic_id"`
	PackageID   string `gorm:"type:char(36);not null"`
	Description string `gorm:"type:varchar(255)"`
	Date        time.Time `gorm:"type:datetime(3);not null"`

	// Snapshot of the package price at booking time. Never recomputed from a
	// live price lookup once the order exists.
	TotalAmount int64 `gorm:"not null"`

	LifecycleStatus string `gorm:"type:varchar(32);not null"`
	PaymentStatus   string `gorm:"type:varchar(32);not null"`

	GatewayTxnRef      *string `gorm:"type:varchar(128);uniqueIndex:ux_orders_gateway_txn_ref"`
	GatewayClientToken *string `gorm:"type:varchar(128)"`
	PaymentMethod      *string `gorm:"type:varchar(64)"`
	TransferProof      *string `gorm:"type:varchar(255)"`

	// Optimistic concurrency counter; every write goes through Store.Update
	// conditioned on the version it read.
	Version int64 `gorm:"not null;default:1"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Order) TableName() string { return "orders" }
