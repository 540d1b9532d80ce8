package dresses

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wahiba-atelier/atelier-backend/pkg/db/models"
)

// DressDTO is the catalog payload returned to the storefront and back office.
type DressDTO struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	Description      *string          `json:"description,omitempty"`
	NewCollection    bool             `json:"newCollection"`
	PricePerDay      *decimal.Decimal `json:"pricePerDay,omitempty"`
	IsRentOnDiscount bool             `json:"isRentOnDiscount"`
	NewPricePerDay   *decimal.Decimal `json:"newPricePerDay,omitempty"`
	IsForSale        bool             `json:"isForSale"`
	BuyPrice         *decimal.Decimal `json:"buyPrice,omitempty"`
	IsSellOnDiscount bool             `json:"isSellOnDiscount"`
	NewBuyPrice      *decimal.Decimal `json:"newBuyPrice,omitempty"`
	Sizes            []string         `json:"sizes"`
	Colors           []ColorDTO       `json:"colors"`
	Categories       []CategoryRefDTO `json:"categories"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

type ColorDTO struct {
	ID        uuid.UUID  `json:"id"`
	ColorName string     `json:"colorName"`
	SortOrder int        `json:"sortOrder"`
	Images    []ImageDTO `json:"images"`
}

type ImageDTO struct {
	ID        uuid.UUID `json:"id"`
	ImageURL  string    `json:"imageUrl"`
	SortOrder int       `json:"sortOrder"`
}

type CategoryRefDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func nullable(v decimal.NullDecimal) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d := v.Decimal
	return &d
}

// FromModel maps a dress row with its preloaded associations into a DTO.
func FromModel(m models.Dress) DressDTO {
	sizes := m.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	dto := DressDTO{
		ID:               m.ID,
		Name:             m.Name,
		Description:      m.Description,
		NewCollection:    m.NewCollection,
		PricePerDay:      nullable(m.PricePerDay),
		IsRentOnDiscount: m.IsRentOnDiscount,
		NewPricePerDay:   nullable(m.NewPricePerDay),
		IsForSale:        m.IsForSale,
		BuyPrice:         nullable(m.BuyPrice),
		IsSellOnDiscount: m.IsSellOnDiscount,
		NewBuyPrice:      nullable(m.NewBuyPrice),
		Sizes:            sizes,
		Colors:           make([]ColorDTO, 0, len(m.Colors)),
		Categories:       make([]CategoryRefDTO, 0, len(m.Categories)),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	for _, c := range m.Colors {
		color := ColorDTO{
			ID:        c.ID,
			ColorName: c.ColorName,
			SortOrder: c.SortOrder,
			Images:    make([]ImageDTO, 0, len(c.Images)),
		}
		for _, img := range c.Images {
			color.Images = append(color.Images, ImageDTO{ID: img.ID, ImageURL: img.ImageURL, SortOrder: img.SortOrder})
		}
		dto.Colors = append(dto.Colors, color)
	}
	for _, cat := range m.Categories {
		dto.Categories = append(dto.Categories, CategoryRefDTO{ID: cat.ID, Name: cat.Name})
	}
	return dto
}
