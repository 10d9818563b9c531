package users

import "time"

type User struct {
	ID           string    `gorm:"type:char(36);primaryKey"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	PhoneNumber  *string   `gorm:"type:varchar(32)"`
	Address      *string   `gorm:"type:varchar(255)"`
	Role         string    `gorm:"type:varchar(32);not null;default:'customer'"`
	CreatedAt    time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt    time.Time `gorm:"type:datetime(3);not null"`
}

func (User) TableName() string { return "users" }

// Contact is what the payment gateway needs to know about the payer.
type Contact struct {
	Email       string
	PhoneNumber string
}
