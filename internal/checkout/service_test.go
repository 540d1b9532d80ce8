package checkout

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wahiba-atelier/atelier-backend/internal/availability"
	"github.com/wahiba-atelier/atelier-backend/internal/cart"
	"github.com/wahiba-atelier/atelier-backend/internal/schedules"
	"github.com/wahiba-atelier/atelier-backend/pkg/db"
	"github.com/wahiba-atelier/atelier-backend/pkg/db/dbtest"
	"github.com/wahiba-atelier/atelier-backend/pkg/db/models"
	"github.com/wahiba-atelier/atelier-backend/pkg/enums"
	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
	"github.com/wahiba-atelier/atelier-backend/pkg/outbox"
)

type sessionStore struct {
	slots map[string][]cart.Line
}

func (s *sessionStore) Read(_ context.Context, session string) ([]cart.Line, error) {
	return append([]cart.Line(nil), s.slots[session]...), nil
}

func (s *sessionStore) Write(_ context.Context, session string, items []cart.Line) error {
	s.slots[session] = append([]cart.Line{}, items...)
	return nil
}

type freshWindows struct {
	windows    availability.Windows
	freshReads int
}

func (f *freshWindows) Windows(_ context.Context, fresh bool) (availability.Windows, error) {
	if fresh {
		f.freshReads++
	}
	return f.windows, nil
}

func (f *freshWindows) Invalidate(context.Context) error { return nil }

type rejections struct {
	stages []string
}

func (r *rejections) AvailabilityRejected(stage string) { r.stages = append(r.stages, stage) }

type fixture struct {
	conn    *gorm.DB
	store   *sessionStore
	windows *freshWindows
	rejects *rejections
	svc     Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := dbtest.Open(t)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	f := &fixture{
		conn:    conn,
		store:   &sessionStore{slots: map[string][]cart.Line{}},
		windows: &freshWindows{},
		rejects: &rejections{},
	}
	scheduleSvc, err := schedules.NewService(schedules.ServiceParams{
		Repo:         schedules.NewRepository(conn),
		Tx:           db.Wrap(conn),
		Outbox:       outbox.NewService(outbox.NewRepository(conn), logg),
		Availability: f.windows,
		Logger:       logg,
	})
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{
		Carts:        f.store,
		Availability: f.windows,
		Schedules:    scheduleSvc,
		Logger:       logg,
		Metrics:      f.rejects,
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func (f *fixture) seed(session string, lines ...cart.Line) {
	f.store.slots[session] = lines
}

func rentalLine(id uuid.UUID, start, end *time.Time) cart.Line {
	return cart.Line{ItemID: id, ItemName: "Layla", Kind: enums.LineKindRental, Color: "red", Size: "M", Quantity: 3, StartDate: start, EndDate: end, UnitPrice: price(100)}
}

func contact(tryOn *time.Time) Input {
	return Input{FullName: "Sara K", Phone: "+212600000000", Address: "12 Rue Atlas", PostalCode: "20000", State: "Casablanca", TryOnDate: tryOn}
}

func TestSubmitCreatesScheduleAndClearsCart(t *testing.T) {
	f := newFixture(t)
	dress := uuid.New()
	f.seed("s1",
		rentalLine(dress, day(2025, time.July, 1), day(2025, time.July, 4)),
		cart.Line{ItemID: uuid.New(), ItemName: "Noor", Kind: enums.LineKindPurchase, Color: "black", Quantity: 2, UnitPrice: price(50)},
		cart.Line{ItemID: uuid.New(), ItemName: "Amira", Kind: enums.LineKindQuote, Color: "gold", Quantity: 1},
	)

	res, err := f.svc.Submit(context.Background(), "s1", contact(day(2025, time.June, 28)))
	require.NoError(t, err)
	assert.True(t, res.Total.Equal(decimal.NewFromInt(400)))
	assert.False(t, res.QuoteOnly)
	assert.Equal(t, enums.ScheduleStatusPending, res.Status)
	assert.Equal(t, 3, res.ItemCount)
	assert.Equal(t, 1, f.windows.freshReads)

	var schedule models.Schedule
	require.NoError(t, f.conn.Preload("Items").First(&schedule, "id = ?", res.ScheduleID).Error)
	require.NotNil(t, schedule.Address)
	assert.Equal(t, "12 Rue Atlas, 20000, Casablanca", *schedule.Address)
	require.Len(t, schedule.Items, 3)

	byKind := map[enums.LineKind]models.ScheduleItem{}
	for _, item := range schedule.Items {
		byKind[item.Type] = item
	}
	assert.True(t, byKind[enums.LineKindRental].PricePerDay.Decimal.Equal(decimal.NewFromInt(100)))
	assert.True(t, byKind[enums.LineKindPurchase].BuyPrice.Decimal.Equal(decimal.NewFromInt(50)))
	assert.False(t, byKind[enums.LineKindQuote].PricePerDay.Valid)

	var events int64
	require.NoError(t, f.conn.Model(&models.OutboxEvent{}).Where("event_type = ?", enums.EventScheduleCreated).Count(&events).Error)
	assert.EqualValues(t, 1, events)

	remaining, ok := f.store.slots["s1"]
	require.True(t, ok)
	assert.Empty(t, remaining)
}

func TestSubmitQuoteOnlyNeedsNoTryOnDate(t *testing.T) {
	f := newFixture(t)
	f.seed("q", cart.Line{ItemID: uuid.New(), ItemName: "Amira", Kind: enums.LineKindQuote, Color: "gold", Quantity: 1})

	res, err := f.svc.Submit(context.Background(), "q", Input{FullName: "Lina", Phone: "0600"})
	require.NoError(t, err)
	assert.True(t, res.QuoteOnly)
	assert.True(t, res.Total.IsZero())
	assert.Zero(t, f.windows.freshReads)

	var schedule models.Schedule
	require.NoError(t, f.conn.First(&schedule, "id = ?", res.ScheduleID).Error)
	assert.Nil(t, schedule.Address)
}

func TestSubmitRejectsEmptyCartAndMissingContact(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), "empty", contact(nil))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	f.seed("s", rentalLine(uuid.New(), day(2025, time.July, 1), day(2025, time.July, 4)))
	_, err = f.svc.Submit(context.Background(), "s", Input{TryOnDate: day(2025, time.June, 1)})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Contains(t, typed.Message(), "fullName is required")
	assert.Contains(t, typed.Message(), "phone is required")
}

func TestSubmitTryOnRules(t *testing.T) {
	f := newFixture(t)
	dress := uuid.New()
	f.seed("s",
		rentalLine(dress, day(2025, time.July, 10), day(2025, time.July, 12)),
		rentalLine(uuid.New(), day(2025, time.July, 5), day(2025, time.July, 8)),
	)

	for name, tryOn := range map[string]*time.Time{
		"missing":        nil,
		"on first day":   day(2025, time.July, 5),
		"after rentals":  day(2025, time.July, 20),
		"same day later": ptrTime(time.Date(2025, time.July, 5, 18, 0, 0, 0, time.UTC)),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Submit(context.Background(), "s", contact(tryOn))
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}

	_, err := f.svc.Submit(context.Background(), "s", contact(day(2025, time.July, 4)))
	require.NoError(t, err)
}

func TestSubmitRechecksAvailability(t *testing.T) {
	f := newFixture(t)
	dress := uuid.New()
	f.seed("s", rentalLine(dress, day(2025, time.June, 12), day(2025, time.June, 20)))
	f.windows.windows = availability.Windows{{ItemID: dress, Intervals: []availability.Interval{{Start: *day(2025, time.June, 10), End: *day(2025, time.June, 15)}}}}

	_, err := f.svc.Submit(context.Background(), "s", contact(day(2025, time.June, 1)))
	var unavailable *availability.UnavailableDateError
	require.True(t, errors.As(err, &unavailable), "expected UnavailableDateError, got %v", err)
	assert.Equal(t, "2025-06-12", unavailable.DateString())
	assert.Equal(t, []string{"checkout"}, f.rejects.stages)

	assert.Len(t, f.store.slots["s"], 1, "cart must survive a refused checkout")
	var count int64
	require.NoError(t, f.conn.Model(&models.Schedule{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestComposeAddress(t *testing.T) {
	got := ComposeAddress(" 1 Main St ", "", "Rabat")
	require.NotNil(t, got)
	assert.Equal(t, "1 Main St, Rabat", *got)
	assert.Nil(t, ComposeAddress("", " ", ""))
}

func ptrTime(t time.Time) *time.Time { return &t }
