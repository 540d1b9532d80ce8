package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wahiba-atelier/atelier-backend/internal/availability"
	"github.com/wahiba-atelier/atelier-backend/internal/dresses"
	"github.com/wahiba-atelier/atelier-backend/pkg/enums"
	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
)

type catalogLoader interface {
	CatalogItem(ctx context.Context, id uuid.UUID) (*dresses.CatalogItem, error)
}

type rangeChecker interface {
	CheckRange(ctx context.Context, dressID uuid.UUID, start, end time.Time) error
}

// MutationRecorder observes cart mutations.
type MutationRecorder interface {
	CartMutation(op string)
}

// View is the cart as returned to the storefront.
type View struct {
	Items     []Line          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	QuoteOnly bool            `json:"quoteOnly"`
	ItemCount int             `json:"itemCount"`
}

// NewView renders the cart for presentation.
func NewView(c *Cart) *View {
	return &View{
		Items:     c.Items(),
		Total:     RoundForDisplay(c.Total()),
		QuoteOnly: c.IsQuoteOnly(),
		ItemCount: c.Len(),
	}
}

// Service runs every cart mutation as Load, mutate, Save.
type Service interface {
	Get(ctx context.Context, session string) (*View, error)
	Add(ctx context.Context, session string, sel Selection) (*View, error)
	Remove(ctx context.Context, session string, key Key) (*View, error)
	Clear(ctx context.Context, session string) (*View, error)
}

type ServiceParams struct {
	Store        Store
	Catalog      catalogLoader
	Availability rangeChecker
	Logger       *logger.Logger
	Metrics      MutationRecorder
	Now          func() time.Time
}

type service struct {
	store    Store
	catalog  catalogLoader
	avail    rangeChecker
	logg     *logger.Logger
	recorder MutationRecorder
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog loader required")
	}
	if params.Availability == nil {
		return nil, fmt.Errorf("availability checker required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		store:    params.Store,
		catalog:  params.Catalog,
		avail:    params.Availability,
		logg:     params.Logger,
		recorder: params.Metrics,
		now:      now,
	}, nil
}

func (s *service) Get(ctx context.Context, session string) (*View, error) {
	c, err := Load(ctx, s.store, session)
	if err != nil {
		return nil, err
	}
	return NewView(c), nil
}

func (s *service) Add(ctx context.Context, session string, sel Selection) (*View, error) {
	item, err := s.catalog.CatalogItem(ctx, sel.DressID)
	if err != nil {
		return nil, err
	}
	if err := checkKind(sel.Kind, *item); err != nil {
		return nil, err
	}
	if err := ValidateSelection(sel, *item); err != nil {
		return nil, err
	}

	line, err := s.buildLine(ctx, sel, *item)
	if err != nil {
		return nil, err
	}

	c, err := Load(ctx, s.store, session)
	if err != nil {
		return nil, err
	}
	if existing, ok := c.Find(line.Key()); ok {
		lineCtx := s.logg.WithDressID(ctx, line.ItemID.String())
		if !samePrice(existing.UnitPrice, line.UnitPrice) {
			s.logg.Warn(s.logg.WithFields(lineCtx, map[string]any{
				"kind":           line.Kind.String(),
				"snapshot_price": priceString(existing.UnitPrice),
				"current_price":  priceString(line.UnitPrice),
			}), "cart merge kept snapshot price")
		}
		if !sameDay(existing.StartDate, line.StartDate) || !sameDay(existing.EndDate, line.EndDate) {
			s.logg.Warn(s.logg.WithFields(lineCtx, map[string]any{
				"kept_start":        dayString(existing.StartDate),
				"kept_end":          dayString(existing.EndDate),
				"discarded_start":   dayString(line.StartDate),
				"discarded_end":     dayString(line.EndDate),
				"added_rental_days": line.Quantity,
			}), "cart merge kept first rental dates")
		}
	}
	c.AddItem(line)
	if err := c.Save(ctx); err != nil {
		return nil, err
	}
	s.record("add")
	return NewView(c), nil
}

func (s *service) Remove(ctx context.Context, session string, key Key) (*View, error) {
	c, err := Load(ctx, s.store, session)
	if err != nil {
		return nil, err
	}
	if c.RemoveItem(key) == 0 {
		return NewView(c), nil
	}
	if err := c.Save(ctx); err != nil {
		return nil, err
	}
	s.record("remove")
	return NewView(c), nil
}

func (s *service) Clear(ctx context.Context, session string) (*View, error) {
	c, err := Load(ctx, s.store, session)
	if err != nil {
		return nil, err
	}
	c.Clear()
	if err := c.Save(ctx); err != nil {
		return nil, err
	}
	s.record("clear")
	return NewView(c), nil
}

func (s *service) buildLine(ctx context.Context, sel Selection, item dresses.CatalogItem) (Line, error) {
	key := sel.Key()
	line := Line{
		ItemID:   item.ID,
		ItemName: item.Name,
		Kind:     key.Kind,
		Color:    key.Color,
		Size:     key.Size,
		AddedAt:  s.now().UTC(),
	}

	switch sel.Kind {
	case enums.LineKindRental:
		start := availability.NormalizeDate(*sel.StartDate)
		end := availability.NormalizeDate(*sel.EndDate)
		if err := availability.ValidateRange(start, end); err != nil {
			return Line{}, err
		}
		if err := s.avail.CheckRange(ctx, item.ID, start, end); err != nil {
			return Line{}, err
		}
		price := *item.DayRate
		line.StartDate = &start
		line.EndDate = &end
		line.Quantity = availability.RentalDays(start, end)
		line.UnitPrice = &price
	case enums.LineKindPurchase:
		qty := sel.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 {
			return Line{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
		price := *item.PurchasePrice
		line.Quantity = qty
		line.UnitPrice = &price
	default:
		line.Quantity = 1
	}
	return line, nil
}

func (s *service) record(op string) {
	if s.recorder != nil {
		s.recorder.CartMutation(op)
	}
}

func samePrice(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// sameDay compares optional rental dates at day precision.
func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return availability.NormalizeDate(*a).Equal(availability.NormalizeDate(*b))
}

func dayString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func priceString(p *decimal.Decimal) string {
	if p == nil {
		return ""
	}
	return p.String()
}
