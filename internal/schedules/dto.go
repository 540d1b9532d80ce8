package schedules

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wahiba-atelier/atelier-backend/pkg/db/models"
	"github.com/wahiba-atelier/atelier-backend/pkg/enums"
	"github.com/wahiba-atelier/atelier-backend/pkg/types"
)

type ScheduleDTO struct {
	ID        uuid.UUID            `json:"id"`
	FullName  string               `json:"fullName"`
	Phone     string               `json:"phone"`
	Address   *string              `json:"address,omitempty"`
	Note      *string              `json:"note,omitempty"`
	TryOnDate *time.Time           `json:"tryOnDate,omitempty"`
	Total     decimal.Decimal      `json:"total"`
	Status    enums.ScheduleStatus `json:"status"`
	Items     []ItemDTO            `json:"items"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

type ItemDTO struct {
	ID          uuid.UUID        `json:"id"`
	DressID     *uuid.UUID       `json:"dressId,omitempty"`
	DressName   string           `json:"dressName"`
	Color       *string          `json:"color,omitempty"`
	Size        *string          `json:"size,omitempty"`
	Quantity    int              `json:"quantity"`
	StartDate   *time.Time       `json:"startDate,omitempty"`
	EndDate     *time.Time       `json:"endDate,omitempty"`
	PricePerDay *decimal.Decimal `json:"pricePerDay,omitempty"`
	BuyPrice    *decimal.Decimal `json:"buyPrice,omitempty"`
	Type        enums.LineKind   `json:"type"`
}

// ListResult wraps a page of schedules and the cursor of the next page.
type ListResult = types.ListEnvelope[ScheduleDTO]

func nullable(v decimal.NullDecimal) *decimal.Decimal {
	if !v.Valid {
		return nil
	}
	d := v.Decimal
	return &d
}

// FromModel maps a schedule and its preloaded items.
func FromModel(m models.Schedule) ScheduleDTO {
	dto := ScheduleDTO{
		ID:        m.ID,
		FullName:  m.FullName,
		Phone:     m.Phone,
		Address:   m.Address,
		Note:      m.Note,
		TryOnDate: m.TryOnDate,
		Total:     m.Total,
		Status:    m.Status,
		Items:     make([]ItemDTO, 0, len(m.Items)),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	for _, item := range m.Items {
		dto.Items = append(dto.Items, ItemDTO{
			ID:          item.ID,
			DressID:     item.DressID,
			DressName:   item.DressName,
			Color:       item.Color,
			Size:        item.Size,
			Quantity:    item.Quantity,
			StartDate:   item.StartDate,
			EndDate:     item.EndDate,
			PricePerDay: nullable(item.PricePerDay),
			BuyPrice:    nullable(item.BuyPrice),
			Type:        item.Type,
		})
	}
	return dto
}
