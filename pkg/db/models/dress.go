package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Dress is a catalog item that can be rented, bought or quoted.
type Dress struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name             string              `gorm:"column:name;not null;uniqueIndex"`
	Description      *string             `gorm:"column:description"`
	NewCollection    bool                `gorm:"column:new_collection;not null;default:false"`
	PricePerDay      decimal.NullDecimal `gorm:"column:price_per_day;type:numeric(10,2)"`
	IsRentOnDiscount bool                `gorm:"column:is_rent_on_discount;not null;default:false"`
	NewPricePerDay   decimal.NullDecimal `gorm:"column:new_price_per_day;type:numeric(10,2)"`
	IsForSale        bool                `gorm:"column:is_for_sale;not null;default:false"`
	BuyPrice         decimal.NullDecimal `gorm:"column:buy_price;type:numeric(10,2)"`
	IsSellOnDiscount bool                `gorm:"column:is_sell_on_discount;not null;default:false"`
	NewBuyPrice      decimal.NullDecimal `gorm:"column:new_buy_price;type:numeric(10,2)"`
	Sizes            []string            `gorm:"column:sizes;type:jsonb;serializer:json"`
	Colors           []DressColor        `gorm:"foreignKey:DressID;constraint:OnDelete:CASCADE"`
	Categories       []Category          `gorm:"many2many:dress_categories;joinForeignKey:DressID;joinReferences:CategoryID"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Dress) TableName() string { return "dresses" }

func (d *Dress) BeforeCreate(*gorm.DB) error {
	ensureID(&d.ID)
	return nil
}

// DressColor is one color variant of a dress.
type DressColor struct {
	ID        uuid.UUID    `gorm:"column:id;type:uuid;primaryKey"`
	DressID   uuid.UUID    `gorm:"column:dress_id;type:uuid;not null;index"`
	ColorName string       `gorm:"column:color_name;not null"`
	SortOrder int          `gorm:"column:sort_order;not null;default:0"`
	Images    []DressImage `gorm:"foreignKey:DressColorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime"`
}

func (DressColor) TableName() string { return "dress_colors" }

func (c *DressColor) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// DressImage references an already-hosted picture of a dress color.
type DressImage struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	DressColorID uuid.UUID `gorm:"column:dress_color_id;type:uuid;not null;index"`
	ImageURL     string    `gorm:"column:image_url;not null"`
	SortOrder    int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (DressImage) TableName() string { return "dress_images" }

func (i *DressImage) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
