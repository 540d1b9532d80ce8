package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wahiba-atelier/atelier-backend/pkg/enums"
)

// SiteImage is a storefront banner or about-us picture.
type SiteImage struct {
	ID        uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	Placement enums.SiteImagePlacement `gorm:"column:placement;not null;index"`
	ImageURL  string                   `gorm:"column:image_url;not null"`
	SortOrder int                      `gorm:"column:sort_order;not null;default:0"`
	IsActive  bool                     `gorm:"column:is_active;not null"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

func (SiteImage) TableName() string { return "site_images" }

func (s *SiteImage) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
