package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
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

	sql := `
	CREATE TABLE IF NOT EXISTS users (
	  id CHAR(36) NOT NULL,
	  email VARCHAR(255) NOT NULL,
	  password_hash VARCHAR(255) NOT NULL,
	  phone_number VARCHAR(32) NULL,
	  address VARCHAR(255) NULL,
	  role VARCHAR(32) NOT NULL DEFAULT 'customer',
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  UNIQUE KEY ux_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS mechanics (
	  id CHAR(36) NOT NULL,
	  full_name VARCHAR(128) NOT NULL,
	  phone_number VARCHAR(32) NULL,
	  speciality VARCHAR(128) NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS packages (
	  id CHAR(36) NOT NULL,
	  name VARCHAR(128) NOT NULL,
	  description VARCHAR(255) NULL,
	  price BIGINT NOT NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS orders (
	  id CHAR(36) NOT NULL,
	  owner_id CHAR(36) NOT NULL,
	  mechanic_id CHAR(36) NULL,
	  package_id CHAR(36) NOT NULL,
	  description VARCHAR(255) NULL,
	  date DATETIME(3) NOT NULL,
	  total_amount BIGINT NOT NULL,
	  lifecycle_status VARCHAR(32) NOT NULL,
	  payment_status VARCHAR(32) NOT NULL,
	  gateway_txn_ref VARCHAR(128) NULL,
	  gateway_client_token VARCHAR(128) NULL,
	  payment_method VARCHAR(64) NULL,
	  transfer_proof VARCHAR(255) NULL,
	  version BIGINT NOT NULL DEFAULT 1,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  KEY ix_orders_owner_id (owner_id),
	  KEY ix_orders_mechanic_id (mechanic_id),
	  UNIQUE KEY ux_orders_gateway_txn_ref (gateway_txn_ref),
	  CONSTRAINT fk_orders_owner FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE RESTRICT,
	  CONSTRAINT fk_orders_package FOREIGN KEY (package_id) REFERENCES packages(id) ON DELETE RESTRICT
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS notification_events (
	  id CHAR(36) NOT NULL,
	  gateway VARCHAR(64) NOT NULL,
	  gateway_ref VARCHAR(128) NOT NULL,
	  reported_status VARCHAR(32) NOT NULL,
	  order_id CHAR(36) NOT NULL,
	  payload_json JSON NOT NULL,
	  received_at DATETIME(3) NOT NULL,
	  PRIMARY KEY (id),
	  UNIQUE KEY ux_notification_events_key (gateway, gateway_ref, reported_status),
	  KEY ix_notification_events_order_id (order_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`

	if err := db.Exec(sql).Error; err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}
	log.Println("Tables created")
}
