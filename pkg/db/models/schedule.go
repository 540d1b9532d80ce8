package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wahiba-atelier/atelier-backend/pkg/enums"
)

// Schedule is a booking request submitted from a cart checkout. Rental lines
// of confirmed schedules block the dress for their date range.
type Schedule struct {
	ID        uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	FullName  string               `gorm:"column:full_name;not null"`
	Phone     string               `gorm:"column:phone;not null"`
	Address   *string              `gorm:"column:address"`
	Note      *string              `gorm:"column:note"`
	TryOnDate *time.Time           `gorm:"column:try_on_date"`
	Total     decimal.Decimal      `gorm:"column:total;type:numeric(12,2);not null;default:0"`
	Status    enums.ScheduleStatus `gorm:"column:status;not null;default:'pending'"`
	Items     []ScheduleItem       `gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (Schedule) TableName() string { return "schedules" }

func (s *Schedule) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// ScheduleItem snapshots one cart line at submission time.
type ScheduleItem struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ScheduleID  uuid.UUID           `gorm:"column:schedule_id;type:uuid;not null;index"`
	DressID     *uuid.UUID          `gorm:"column:dress_id;type:uuid;index"`
	DressName   string              `gorm:"column:dress_name;not null"`
	Color       *string             `gorm:"column:color"`
	Size        *string             `gorm:"column:size"`
	Quantity    int                 `gorm:"column:quantity;not null;default:1"`
	StartDate   *time.Time          `gorm:"column:start_date"`
	EndDate     *time.Time          `gorm:"column:end_date"`
	PricePerDay decimal.NullDecimal `gorm:"column:price_per_day;type:numeric(10,2)"`
	BuyPrice    decimal.NullDecimal `gorm:"column:buy_price;type:numeric(10,2)"`
	Type        enums.LineKind      `gorm:"column:type;not null;default:'quote'"`
}

func (ScheduleItem) TableName() string { return "schedule_items" }

func (i *ScheduleItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
