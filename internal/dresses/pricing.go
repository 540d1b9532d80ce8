package dresses

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wahiba-atelier/atelier-backend/pkg/db/models"
)

// CatalogItem is the pricing view of a dress used by the cart.
type CatalogItem struct {
	ID            uuid.UUID
	Name          string
	NewCollection bool
	// DayRate is the effective rental price per day, nil when the dress
	// cannot be rented.
	DayRate *decimal.Decimal
	// PurchasePrice is the effective unit price, nil unless the dress is for
	// sale with a buy price.
	PurchasePrice *decimal.Decimal
	Colors        []string
	Sizes         []string
}

// RentalRate returns the day rate the storefront charges, honoring the rent
// discount flag.
func RentalRate(m models.Dress) *decimal.Decimal {
	if m.IsRentOnDiscount && m.NewPricePerDay.Valid {
		return nullable(m.NewPricePerDay)
	}
	return nullable(m.PricePerDay)
}

// SalePrice returns the purchase unit price, honoring the sell discount flag.
func SalePrice(m models.Dress) *decimal.Decimal {
	if !m.IsForSale {
		return nil
	}
	if m.IsSellOnDiscount && m.NewBuyPrice.Valid {
		return nullable(m.NewBuyPrice)
	}
	return nullable(m.BuyPrice)
}

// ToCatalogItem builds the pricing view. New-collection dresses carry no
// prices at all.
func ToCatalogItem(m models.Dress) CatalogItem {
	item := CatalogItem{
		ID:            m.ID,
		Name:          m.Name,
		NewCollection: m.NewCollection,
		Colors:        make([]string, 0, len(m.Colors)),
		Sizes:         append([]string(nil), m.Sizes...),
	}
	for _, c := range m.Colors {
		item.Colors = append(item.Colors, c.ColorName)
	}
	if !m.NewCollection {
		item.DayRate = RentalRate(m)
		item.PurchasePrice = SalePrice(m)
	}
	return item
}

// OffersColor reports whether color is one of the dress variants.
func (c CatalogItem) OffersColor(color string) bool {
	for _, candidate := range c.Colors {
		if candidate == color {
			return true
		}
	}
	return false
}

// OffersSize reports whether size is one of the dress sizes.
func (c CatalogItem) OffersSize(size string) bool {
	for _, candidate := range c.Sizes {
		if candidate == size {
			return true
		}
	}
	return false
}
