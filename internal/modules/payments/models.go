package payments

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationEvent is the audit row persisted for every verified gateway
// notification. The unique key (gateway, gateway_ref, reported_status) makes
// redeliveries visible without making them errors.
type NotificationEvent struct {
	ID             string `gorm:"type:char(36);primaryKey"`
	Gateway        string `gorm:"type:varchar(64);not null;uniqueIndex:ux_notification_events_key,priority:1"`
	GatewayRef     string `gorm:"type:varchar(128);not null;uniqueIndex:ux_notification_events_key,priority:2"`
	ReportedStatus string `gorm:"type:varchar(32);not null;uniqueIndex:ux_notification_events_key,priority:3"`

	OrderID     string         `gorm:"type:char(36);not null;index:ix_notification_events_order_id"`
	PayloadJSON datatypes.JSON `gorm:"type:json;not null"`

	ReceivedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (NotificationEvent) TableName() string { return "notification_events" }
