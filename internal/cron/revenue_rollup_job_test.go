package cron

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wahiba-atelier/atelier-backend/internal/revenues"
	"github.com/wahiba-atelier/atelier-backend/internal/schedules"
	"github.com/wahiba-atelier/atelier-backend/pkg/db/dbtest"
	"github.com/wahiba-atelier/atelier-backend/pkg/db/models"
	"github.com/wahiba-atelier/atelier-backend/pkg/enums"
)

func TestSummarizeSplitsSalesAndRentals(t *testing.T) {
	items := []models.ScheduleItem{
		{Type: enums.LineKindRental, Quantity: 3, PricePerDay: decimal.NewNullDecimal(decimal.NewFromInt(100))},
		{Type: enums.LineKindPurchase, Quantity: 2, BuyPrice: decimal.NewNullDecimal(decimal.RequireFromString("49.995"))},
		{Type: enums.LineKindQuote, Quantity: 1},
	}
	got := Summarize(items)
	if got.TotalRental != 1 || got.TotalSales != 1 {
		t.Fatalf("unexpected counts %+v", got)
	}
	if !got.RentalRevenue.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("rental revenue %s", got.RentalRevenue)
	}
	if !got.SalesRevenue.Equal(decimal.RequireFromString("99.99")) {
		t.Fatalf("sales revenue %s", got.SalesRevenue)
	}
}

func TestRevenueRollupJobWritesCurrentAndPreviousMonth(t *testing.T) {
	conn := dbtest.Open(t)
	seed := func(status enums.ScheduleStatus, tryOn time.Time, items ...models.ScheduleItem) {
		t.Helper()
		s := models.Schedule{FullName: "Sara", Phone: "0600", TryOnDate: &tryOn, Status: status, Total: decimal.Zero, Items: items}
		if err := conn.Create(&s).Error; err != nil {
			t.Fatalf("seed schedule: %v", err)
		}
	}
	dress := uuid.New()
	rental := func(days int64, rate int64) models.ScheduleItem {
		return models.ScheduleItem{DressID: &dress, DressName: "Layla", Type: enums.LineKindRental, Quantity: int(days), PricePerDay: decimal.NewNullDecimal(decimal.NewFromInt(rate))}
	}
	purchase := models.ScheduleItem{DressID: &dress, DressName: "Layla", Type: enums.LineKindPurchase, Quantity: 1, BuyPrice: decimal.NewNullDecimal(decimal.NewFromInt(250))}

	seed(enums.ScheduleStatusCompleted, time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC), rental(3, 100), purchase)
	seed(enums.ScheduleStatusCompleted, time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC), rental(2, 80))
	seed(enums.ScheduleStatusConfirmed, time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC), rental(5, 100))
	seed(enums.ScheduleStatusCompleted, time.Date(2025, time.April, 9, 0, 0, 0, 0, time.UTC), rental(5, 100))

	revenueSvc, err := revenues.NewService(revenues.NewRepository(conn))
	if err != nil {
		t.Fatalf("revenues.NewService: %v", err)
	}
	jobIface, err := NewRevenueRollupJob(RevenueRollupJobParams{
		Logger:    quietLogger(),
		Schedules: schedules.NewRepository(conn),
		Revenues:  revenueSvc,
	})
	if err != nil {
		t.Fatalf("NewRevenueRollupJob: %v", err)
	}
	job := jobIface.(*revenueRollupJob)
	job.now = func() time.Time { return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC) }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	june, err := revenueSvc.GetByMonth(context.Background(), "2025-06")
	if err != nil {
		t.Fatalf("june: %v", err)
	}
	if june.TotalRental != 1 || june.TotalSales != 1 || !june.RentalRevenue.Equal(decimal.NewFromInt(300)) || !june.SalesRevenue.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("unexpected june figures %+v", june)
	}
	may, err := revenueSvc.GetByMonth(context.Background(), "2025-05")
	if err != nil {
		t.Fatalf("may: %v", err)
	}
	if may.TotalRental != 1 || !may.RentalRevenue.Equal(decimal.NewFromInt(160)) {
		t.Fatalf("unexpected may figures %+v", may)
	}
	list, err := revenueSvc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("april must not be recomputed, got %d rows", len(list))
	}
}
