package cart

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wahiba-atelier/atelier-backend/internal/availability"
	"github.com/wahiba-atelier/atelier-backend/internal/dresses"
	"github.com/wahiba-atelier/atelier-backend/pkg/enums"
	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
)

type stubCatalog struct {
	items map[uuid.UUID]*dresses.CatalogItem
}

func (s *stubCatalog) CatalogItem(_ context.Context, id uuid.UUID) (*dresses.CatalogItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dress not found")
	}
	copied := *item
	return &copied, nil
}

type stubAvailability struct {
	windows availability.Windows
	calls   int
}

func (s *stubAvailability) CheckRange(_ context.Context, dressID uuid.UUID, start, end time.Time) error {
	s.calls++
	return availability.Check(dressID, start, end, s.windows)
}

type countingRecorder struct {
	ops []string
}

func (c *countingRecorder) CartMutation(op string) {
	c.ops = append(c.ops, op)
}

type fixture struct {
	svc      Service
	store    *memoryStore
	catalog  *stubCatalog
	avail    *stubAvailability
	recorder *countingRecorder
	logs     *bytes.Buffer
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newFixture(t *testing.T, out io.Writer) *fixture {
	t.Helper()
	logs := &bytes.Buffer{}
	if out == nil {
		out = logs
	}
	f := &fixture{
		store:    newMemoryStore(),
		catalog:  &stubCatalog{items: map[uuid.UUID]*dresses.CatalogItem{}},
		avail:    &stubAvailability{},
		recorder: &countingRecorder{},
		logs:     logs,
	}
	svc, err := NewService(ServiceParams{
		Store:        f.store,
		Catalog:      f.catalog,
		Availability: f.avail,
		Logger:       logger.New(logger.Options{ServiceName: "test", Output: out}),
		Metrics:      f.recorder,
		Now:          func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) addDress(item dresses.CatalogItem) uuid.UUID {
	item.ID = uuid.New()
	f.catalog.items[item.ID] = &item
	return item.ID
}

func rentable(rate string) dresses.CatalogItem {
	return dresses.CatalogItem{Name: "Layla", DayRate: price(rate), Colors: []string{"red", "ivory"}, Sizes: []string{"S", "M"}}
}

func TestAddRentalSnapshotsPriceAndDays(t *testing.T) {
	f := newFixture(t, nil)
	id := f.addDress(rentable("100"))

	start := time.Date(2025, 6, 5, 15, 30, 0, 0, time.UTC)
	view, err := f.svc.Add(context.Background(), "s1", Selection{
		DressID: id, Kind: enums.LineKindRental, Color: "red", Size: "M",
		StartDate: &start, EndDate: day(2025, time.June, 8),
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(view.Items))
	}
	line := view.Items[0]
	if line.Quantity != 3 {
		t.Fatalf("expected 3 rental days, got %d", line.Quantity)
	}
	if !line.StartDate.Equal(*day(2025, time.June, 5)) {
		t.Fatalf("expected normalized start, got %v", line.StartDate)
	}
	if !view.Total.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected total 300, got %s", view.Total)
	}
	if f.avail.calls != 1 {
		t.Fatalf("expected one availability check, got %d", f.avail.calls)
	}
	if len(f.store.slots["s1"]) != 1 {
		t.Fatal("expected cart persisted after add")
	}
	if len(f.recorder.ops) != 1 || f.recorder.ops[0] != "add" {
		t.Fatalf("unexpected recorded ops %v", f.recorder.ops)
	}

	// later price change must not touch the stored line
	f.catalog.items[id].DayRate = price("150")
	got, err := f.svc.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Items[0].UnitPrice.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected snapshot price 100, got %s", got.Items[0].UnitPrice)
	}
}

func TestAddMixedCartTotals400(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	rental := f.addDress(rentable("100"))
	sale := f.addDress(dresses.CatalogItem{Name: "Noor", PurchasePrice: price("50"), Colors: []string{"black"}})
	quote := f.addDress(dresses.CatalogItem{Name: "Amira", NewCollection: true, Colors: []string{"gold"}})

	if _, err := f.svc.Add(ctx, "s", Selection{DressID: rental, Kind: enums.LineKindRental, Color: "red", Size: "S", StartDate: day(2025, time.July, 1), EndDate: day(2025, time.July, 4)}); err != nil {
		t.Fatalf("add rental: %v", err)
	}
	if _, err := f.svc.Add(ctx, "s", Selection{DressID: sale, Kind: enums.LineKindPurchase, Color: "black", Quantity: 2}); err != nil {
		t.Fatalf("add purchase: %v", err)
	}
	view, err := f.svc.Add(ctx, "s", Selection{DressID: quote, Kind: enums.LineKindQuote, Color: "gold"})
	if err != nil {
		t.Fatalf("add quote: %v", err)
	}
	if !view.Total.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("expected total 400, got %s", view.Total)
	}
	if view.QuoteOnly {
		t.Fatal("mixed cart is not quote-only")
	}
	if view.Items[2].UnitPrice != nil || view.Items[2].Quantity != 1 {
		t.Fatalf("unexpected quote line %+v", view.Items[2])
	}
}

func TestAddRejectsUnavailableRange(t *testing.T) {
	f := newFixture(t, nil)
	id := f.addDress(rentable("100"))
	f.avail.windows = availability.Windows{{ItemID: id, Intervals: []availability.Interval{{Start: *day(2025, time.June, 10), End: *day(2025, time.June, 15)}}}}

	_, err := f.svc.Add(context.Background(), "s", Selection{DressID: id, Kind: enums.LineKindRental, Color: "red", Size: "S", StartDate: day(2025, time.June, 12), EndDate: day(2025, time.June, 20)})
	var unavailable *availability.UnavailableDateError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected UnavailableDateError, got %v", err)
	}
	if unavailable.DateString() != "2025-06-12" {
		t.Fatalf("expected first conflict 2025-06-12, got %s", unavailable.DateString())
	}
	if _, ok := f.store.slots["s"]; ok {
		t.Fatal("rejected selection must not be persisted")
	}
}

func TestAddRejectsInvertedRange(t *testing.T) {
	f := newFixture(t, nil)
	id := f.addDress(rentable("100"))

	_, err := f.svc.Add(context.Background(), "s", Selection{DressID: id, Kind: enums.LineKindRental, Color: "red", Size: "S", StartDate: day(2025, time.June, 12), EndDate: day(2025, time.June, 12)})
	var invalid *availability.InvalidRangeError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidRangeError, got %v", err)
	}
	if f.avail.calls != 0 {
		t.Fatal("range must be validated before availability lookup")
	}
}

func TestAddIncompleteSelection(t *testing.T) {
	f := newFixture(t, nil)
	id := f.addDress(rentable("100"))

	_, err := f.svc.Add(context.Background(), "s", Selection{DressID: id, Kind: enums.LineKindRental})
	var incomplete *IncompleteSelectionError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected IncompleteSelectionError, got %v", err)
	}
	want := []string{"color", "size", "startDate", "endDate"}
	if strings.Join(incomplete.Fields, ",") != strings.Join(want, ",") {
		t.Fatalf("expected fields %v, got %v", want, incomplete.Fields)
	}
}

func TestAddRejectsUnknownVariant(t *testing.T) {
	f := newFixture(t, nil)
	id := f.addDress(rentable("100"))

	_, err := f.svc.Add(context.Background(), "s", Selection{DressID: id, Kind: enums.LineKindRental, Color: "green", Size: "S", StartDate: day(2025, time.June, 1), EndDate: day(2025, time.June, 2)})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown color, got %v", err)
	}
	_, err = f.svc.Add(context.Background(), "s", Selection{DressID: id, Kind: enums.LineKindRental, Color: "red", Size: "XXL", StartDate: day(2025, time.June, 1), EndDate: day(2025, time.June, 2)})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown size, got %v", err)
	}
}

func TestAddEnforcesLineKinds(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	newCollection := f.addDress(dresses.CatalogItem{Name: "Amira", NewCollection: true, Colors: []string{"gold"}})
	rentOnly := f.addDress(rentable("80"))

	cases := []struct {
		name string
		sel  Selection
	}{
		{"new collection rental", Selection{DressID: newCollection, Kind: enums.LineKindRental, Color: "gold", StartDate: day(2025, time.June, 1), EndDate: day(2025, time.June, 2)}},
		{"purchase without price", Selection{DressID: rentOnly, Kind: enums.LineKindPurchase, Color: "red", Size: "S"}},
		{"quote on regular dress", Selection{DressID: rentOnly, Kind: enums.LineKindQuote, Color: "red", Size: "S"}},
		{"unknown kind", Selection{DressID: rentOnly, Kind: enums.LineKind("lease"), Color: "red", Size: "S"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Add(ctx, "s", tc.sel)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	_, err := f.svc.Add(ctx, "s", Selection{DressID: uuid.New(), Kind: enums.LineKindQuote, Color: "gold"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMergeKeepsSnapshotAndWarns(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.addDress(dresses.CatalogItem{Name: "Noor", PurchasePrice: price("50"), Colors: []string{"black"}})

	if _, err := f.svc.Add(ctx, "s", Selection{DressID: id, Kind: enums.LineKindPurchase, Color: "black"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	f.catalog.items[id].PurchasePrice = price("40")
	view, err := f.svc.Add(ctx, "s", Selection{DressID: id, Kind: enums.LineKindPurchase, Color: "black", Quantity: 2})
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 3 {
		t.Fatalf("expected merged line of 3, got %+v", view.Items)
	}
	if !view.Total.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected total at snapshot price 150, got %s", view.Total)
	}
	if !strings.Contains(f.logs.String(), "cart merge kept snapshot price") {
		t.Fatalf("expected price mismatch warning, got logs %q", f.logs.String())
	}
}

func TestMergeOfDifferentRentalDatesWarns(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.addDress(rentable("100"))

	if _, err := f.svc.Add(ctx, "s", Selection{
		DressID: id, Kind: enums.LineKindRental, Color: "red", Size: "M",
		StartDate: day(2025, time.June, 1), EndDate: day(2025, time.June, 3),
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if strings.Contains(f.logs.String(), "cart merge kept first rental dates") {
		t.Fatal("first add must not warn")
	}

	view, err := f.svc.Add(ctx, "s", Selection{
		DressID: id, Kind: enums.LineKindRental, Color: "red", Size: "M",
		StartDate: day(2025, time.July, 1), EndDate: day(2025, time.July, 6),
	})
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 7 {
		t.Fatalf("expected merged line of 7 days, got %+v", view.Items)
	}
	if !view.Items[0].StartDate.Equal(*day(2025, time.June, 1)) {
		t.Fatalf("expected first start kept, got %v", view.Items[0].StartDate)
	}
	logs := f.logs.String()
	if !strings.Contains(logs, "cart merge kept first rental dates") || !strings.Contains(logs, "2025-07-01") {
		t.Fatalf("expected date mismatch warning naming the discarded range, got %q", logs)
	}
}

func TestRemoveAndClear(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.addDress(dresses.CatalogItem{Name: "Noor", PurchasePrice: price("50"), Colors: []string{"black", "white"}})

	for _, color := range []string{"black", "white"} {
		if _, err := f.svc.Add(ctx, "s", Selection{DressID: id, Kind: enums.LineKindPurchase, Color: color}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	writes := f.store.writes
	view, err := f.svc.Remove(ctx, "s", Key{ItemID: id, Kind: enums.LineKindPurchase, Color: "red"})
	if err != nil {
		t.Fatalf("remove missing: %v", err)
	}
	if len(view.Items) != 2 || f.store.writes != writes {
		t.Fatal("removing an absent line must be a no-op")
	}

	view, err = f.svc.Remove(ctx, "s", Key{ItemID: id, Kind: enums.LineKindPurchase, Color: "black"})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Color != "white" {
		t.Fatalf("unexpected items %+v", view.Items)
	}

	view, err = f.svc.Clear(ctx, "s")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(view.Items) != 0 || !view.Total.IsZero() {
		t.Fatalf("expected empty view, got %+v", view)
	}
	if items, ok := f.store.slots["s"]; !ok || len(items) != 0 {
		t.Fatal("expected empty list persisted")
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatal("expected error without store")
	}
	if _, err := NewService(ServiceParams{Store: newMemoryStore(), Catalog: &stubCatalog{}, Availability: &stubAvailability{}}); err == nil {
		t.Fatal("expected error without logger")
	}
}
