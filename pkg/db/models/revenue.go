package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Revenue holds the sales and rental figures of one calendar month. Month is
// always the first day of the month at midnight UTC.
type Revenue struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Month         time.Time       `gorm:"column:month;type:date;not null;uniqueIndex"`
	TotalSales    int             `gorm:"column:total_sales;not null;default:0"`
	SalesRevenue  decimal.Decimal `gorm:"column:sales_revenue;type:numeric(12,2);not null;default:0"`
	TotalRental   int             `gorm:"column:total_rental;not null;default:0"`
	RentalRevenue decimal.Decimal `gorm:"column:rental_revenue;type:numeric(12,2);not null;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Revenue) TableName() string { return "revenues" }

func (r *Revenue) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
