// Package dbtest opens throwaway in-memory sqlite databases carrying the
// storefront schema, for repository and service tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var schema = []string{
	`CREATE TABLE categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE dresses (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  new_collection INTEGER NOT NULL DEFAULT 0,
  price_per_day TEXT,
  is_rent_on_discount INTEGER NOT NULL DEFAULT 0,
  new_price_per_day TEXT,
  is_for_sale INTEGER NOT NULL DEFAULT 0,
  buy_price TEXT,
  is_sell_on_discount INTEGER NOT NULL DEFAULT 0,
  new_buy_price TEXT,
  sizes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE dress_colors (
  id TEXT PRIMARY KEY,
  dress_id TEXT NOT NULL REFERENCES dresses(id) ON DELETE CASCADE,
  color_name TEXT NOT NULL,
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
	`CREATE TABLE dress_images (
  id TEXT PRIMARY KEY,
  dress_color_id TEXT NOT NULL REFERENCES dress_colors(id) ON DELETE CASCADE,
  image_url TEXT NOT NULL,
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
	`CREATE TABLE dress_categories (
  dress_id TEXT NOT NULL REFERENCES dresses(id) ON DELETE CASCADE,
  category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
  PRIMARY KEY (dress_id, category_id)
);`,
	`CREATE TABLE schedules (
  id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL,
  phone TEXT NOT NULL,
  address TEXT,
  note TEXT,
  try_on_date DATETIME,
  total TEXT NOT NULL DEFAULT '0',
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE schedule_items (
  id TEXT PRIMARY KEY,
  schedule_id TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
  dress_id TEXT,
  dress_name TEXT NOT NULL,
  color TEXT,
  size TEXT,
  quantity INTEGER NOT NULL DEFAULT 1,
  start_date DATETIME,
  end_date DATETIME,
  price_per_day TEXT,
  buy_price TEXT,
  type TEXT NOT NULL DEFAULT 'quote'
);`,
	`CREATE TABLE contacts (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT,
  subject TEXT,
  message TEXT NOT NULL,
  created_at DATETIME
);`,
	`CREATE TABLE revenues (
  id TEXT PRIMARY KEY,
  month DATETIME NOT NULL UNIQUE,
  total_sales INTEGER NOT NULL DEFAULT 0,
  sales_revenue TEXT NOT NULL DEFAULT '0',
  total_rental INTEGER NOT NULL DEFAULT 0,
  rental_revenue TEXT NOT NULL DEFAULT '0',
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE site_images (
  id TEXT PRIMARY KEY,
  placement TEXT NOT NULL,
  image_url TEXT NOT NULL,
  sort_order INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload BLOB NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`,
	`CREATE TABLE outbox_dlq (
  id TEXT PRIMARY KEY,
  event_id TEXT NOT NULL,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload_json BLOB NOT NULL,
  error_reason TEXT NOT NULL,
  error_message TEXT,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  failed_at DATETIME,
  created_at DATETIME
);`,
}

// Open returns a private in-memory database with every storefront table.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return conn
}
