package catalog

import "time"

type Package struct {
	ID          string    `gorm:"type:char(36);primaryKey"`
	Name        string    `gorm:"type:varchar(128);not null"`
	Description string    `gorm:"type:varchar(255)"`
	Price       int64     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt   time.Time `gorm:"type:datetime(3);not null"`
}

func (Package) TableName() string { return "packages" }

type Mechanic struct {
	ID          string    `gorm:"type:char(36);primaryKey"`
	FullName    string    `gorm:"type:varchar(128);not null"`
	PhoneNumber string    `gorm:"type:varchar(32)"`
	Speciality  string    `gorm:"type:varchar(128)"`
	CreatedAt   time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt   time.Time `gorm:"type:datetime(3);not null"`
}

func (Mechanic) TableName() string { return "mechanics" }
