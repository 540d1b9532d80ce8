// Package checkout turns a session cart into a pending booking request.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/wahiba-atelier/atelier-backend/internal/availability"
	"github.com/wahiba-atelier/atelier-backend/internal/cart"
	"github.com/wahiba-atelier/atelier-backend/internal/schedules"
	"github.com/wahiba-atelier/atelier-backend/pkg/db/models"
	"github.com/wahiba-atelier/atelier-backend/pkg/enums"
	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
)

type windowSource interface {
	Windows(ctx context.Context, fresh bool) (availability.Windows, error)
}

type scheduleSubmitter interface {
	Submit(ctx context.Context, input schedules.SubmitInput) (*schedules.ScheduleDTO, error)
}

// RejectionRecorder counts bookings refused for taken dates.
type RejectionRecorder interface {
	AvailabilityRejected(stage string)
}

// Service executes checkout.
type Service interface {
	Submit(ctx context.Context, session string, input Input) (*Result, error)
}

// Input carries the contact details entered on the checkout form.
type Input struct {
	FullName   string
	Phone      string
	Address    string
	PostalCode string
	State      string
	Note       string
	TryOnDate  *time.Time
}

// Result summarizes the created booking request.
type Result struct {
	ScheduleID uuid.UUID            `json:"scheduleId"`
	Status     enums.ScheduleStatus `json:"status"`
	Total      decimal.Decimal      `json:"total"`
	QuoteOnly  bool                 `json:"quoteOnly"`
	ItemCount  int                  `json:"itemCount"`
}

type ServiceParams struct {
	Carts        cart.Store
	Availability windowSource
	Schedules    scheduleSubmitter
	Logger       *logger.Logger
	Metrics      RejectionRecorder
}

type service struct {
	carts     cart.Store
	avail     windowSource
	schedules scheduleSubmitter
	logg      *logger.Logger
	recorder  RejectionRecorder
}

func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Availability == nil {
		return nil, fmt.Errorf("availability source required")
	}
	if params.Schedules == nil {
		return nil, fmt.Errorf("schedule service required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		carts:     params.Carts,
		avail:     params.Availability,
		schedules: params.Schedules,
		logg:      params.Logger,
		recorder:  params.Metrics,
	}, nil
}

func (s *service) Submit(ctx context.Context, session string, input Input) (*Result, error) {
	if err := validateContact(input); err != nil {
		return nil, err
	}

	c, err := cart.Load(ctx, s.carts, session)
	if err != nil {
		return nil, err
	}
	if c.Len() == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	items := c.Items()

	var tryOn *time.Time
	if input.TryOnDate != nil {
		normalized := availability.NormalizeDate(*input.TryOnDate)
		tryOn = &normalized
	}
	if c.HasRentals() {
		if err := checkTryOn(tryOn, items); err != nil {
			return nil, err
		}
		if err := s.recheck(ctx, items); err != nil {
			return nil, err
		}
	}

	total := c.Total()
	quoteOnly := c.IsQuoteOnly()
	created, err := s.schedules.Submit(ctx, schedules.SubmitInput{
		FullName:    input.FullName,
		Phone:       input.Phone,
		Address:     ComposeAddress(input.Address, input.PostalCode, input.State),
		Note:        optional(input.Note),
		TryOnDate:   tryOn,
		Total:       total,
		QuoteOnly:   quoteOnly,
		Items:       toScheduleItems(items),
		CartSession: session,
	})
	if err != nil {
		return nil, err
	}

	c.Clear()
	if err := c.Save(ctx); err != nil {
		s.logg.Error(s.logg.WithScheduleID(ctx, created.ID.String()), "cart not cleared after checkout", err)
	}

	return &Result{
		ScheduleID: created.ID,
		Status:     created.Status,
		Total:      cart.RoundForDisplay(total),
		QuoteOnly:  quoteOnly,
		ItemCount:  len(items),
	}, nil
}

// recheck validates every rental line against windows read straight from the
// database, so a booking confirmed since the line was added is caught.
func (s *service) recheck(ctx context.Context, items []cart.Line) error {
	windows, err := s.avail.Windows(ctx, true)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.Kind != enums.LineKindRental || item.StartDate == nil || item.EndDate == nil {
			continue
		}
		if err := availability.Check(item.ItemID, *item.StartDate, *item.EndDate, windows); err != nil {
			var unavailable *availability.UnavailableDateError
			if errors.As(err, &unavailable) && s.recorder != nil {
				s.recorder.AvailabilityRejected("checkout")
			}
			return err
		}
	}
	return nil
}

func validateContact(input Input) error {
	var errs error
	if strings.TrimSpace(input.FullName) == "" {
		errs = multierr.Append(errs, errors.New("fullName is required"))
	}
	if strings.TrimSpace(input.Phone) == "" {
		errs = multierr.Append(errs, errors.New("phone is required"))
	}
	if errs == nil {
		return nil
	}
	messages := []string{}
	for _, err := range multierr.Errors(errs) {
		messages = append(messages, err.Error())
	}
	return pkgerrors.New(pkgerrors.CodeValidation, strings.Join(messages, "; ")).WithDetails(map[string]any{"errors": messages})
}

// checkTryOn requires a try-on date strictly before the earliest rental start.
func checkTryOn(tryOn *time.Time, items []cart.Line) error {
	if tryOn == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "tryOnDate is required when renting")
	}
	var earliest *time.Time
	for _, item := range items {
		if item.Kind != enums.LineKindRental || item.StartDate == nil {
			continue
		}
		start := availability.NormalizeDate(*item.StartDate)
		if earliest == nil || start.Before(*earliest) {
			earliest = &start
		}
	}
	if earliest != nil && !tryOn.Before(*earliest) {
		return pkgerrors.New(pkgerrors.CodeValidation, "tryOnDate must be before the first rental day").
			WithDetails(map[string]any{"tryOnDate": tryOn.Format("2006-01-02"), "firstRentalDay": earliest.Format("2006-01-02")})
	}
	return nil
}

// ComposeAddress joins the non-blank address parts as "address, postalCode, state".
func ComposeAddress(address, postalCode, state string) *string {
	parts := []string{}
	for _, p := range []string{address, postalCode, state} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, ", ")
	return &joined
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func toScheduleItems(lines []cart.Line) []models.ScheduleItem {
	out := make([]models.ScheduleItem, 0, len(lines))
	for _, line := range lines {
		dressID := line.ItemID
		item := models.ScheduleItem{
			DressID:   &dressID,
			DressName: line.ItemName,
			Color:     optional(line.Color),
			Size:      optional(line.Size),
			Quantity:  line.Quantity,
			StartDate: line.StartDate,
			EndDate:   line.EndDate,
			Type:      line.Kind,
		}
		if line.UnitPrice != nil {
			switch line.Kind {
			case enums.LineKindRental:
				item.PricePerDay = decimal.NewNullDecimal(*line.UnitPrice)
			case enums.LineKindPurchase:
				item.BuyPrice = decimal.NewNullDecimal(*line.UnitPrice)
			}
		}
		out = append(out, item)
	}
	return out
}
