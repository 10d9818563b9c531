package main

import (
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bengkelku.id/app/internal/modules/catalog"
	"bengkelku.id/app/internal/modules/users"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	now := time.Now()
	phone := "081234567890"

	demoUsers := []users.User{
		{ID: uuid.NewString(), Email: "budi@mail.com", PasswordHash: hash("password123"), PhoneNumber: &phone, Role: "customer", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Email: "sari@mail.com", PasswordHash: hash("password123"), Role: "customer", CreatedAt: now, UpdatedAt: now},
	}
	mechanics := []catalog.Mechanic{
		{ID: uuid.NewString(), FullName: "Agus Pratama", PhoneNumber: "081298765432", Speciality: "Engine overhaul", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), FullName: "Dewi Lestari", PhoneNumber: "081211122233", Speciality: "Electrical systems", CreatedAt: now, UpdatedAt: now},
	}
	packages := []catalog.Package{
		{ID: uuid.NewString(), Name: "Basic Service", Description: "Oil change and inspection", Price: 150000, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Name: "Full Service", Description: "Full maintenance package", Price: 450000, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Name: "Engine Diagnostic", Description: "Complete engine diagnostic", Price: 250000, CreatedAt: now, UpdatedAt: now},
	}

	// reruns are no-ops for rows that already exist
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&demoUsers).Error; err != nil {
		log.Fatalf("seed users: %v", err)
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&mechanics).Error; err != nil {
		log.Fatalf("seed mechanics: %v", err)
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&packages).Error; err != nil {
		log.Fatalf("seed packages: %v", err)
	}

	log.Printf("Seeded %d users, %d mechanics, %d packages", len(demoUsers), len(mechanics), len(packages))
}

func hash(plain string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}
