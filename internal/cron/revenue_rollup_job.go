package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/wahiba-atelier/atelier-backend/internal/revenues"
	"github.com/wahiba-atelier/atelier-backend/pkg/db/models"
	"github.com/wahiba-atelier/atelier-backend/pkg/enums"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
)

type completedItemSource interface {
	CompletedItems(ctx context.Context, from, until time.Time) ([]models.ScheduleItem, error)
}

type revenueWriter interface {
	Upsert(ctx context.Context, input revenues.UpsertInput) (*revenues.RevenueDTO, bool, error)
}

type RevenueRollupJobParams struct {
	Logger    *logger.Logger
	Schedules completedItemSource
	Revenues  revenueWriter
}

// NewRevenueRollupJob recomputes the revenues row of the current and the
// previous month from completed schedules, grouped by try-on month.
func NewRevenueRollupJob(params RevenueRollupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Schedules == nil {
		return nil, fmt.Errorf("schedule source required")
	}
	if params.Revenues == nil {
		return nil, fmt.Errorf("revenue writer required")
	}
	return &revenueRollupJob{
		logg:      params.Logger,
		schedules: params.Schedules,
		revenues:  params.Revenues,
		now:       time.Now,
	}, nil
}

type revenueRollupJob struct {
	logg      *logger.Logger
	schedules completedItemSource
	revenues  revenueWriter
	now       func() time.Time
}

func (j *revenueRollupJob) Name() string { return "revenue-rollup" }

func (j *revenueRollupJob) Run(ctx context.Context) error {
	current := revenues.MonthStart(j.now())
	var errs error
	for _, month := range []time.Time{current.AddDate(0, -1, 0), current} {
		errs = multierr.Append(errs, j.rollup(ctx, month))
	}
	return errs
}

func (j *revenueRollupJob) rollup(ctx context.Context, month time.Time) error {
	items, err := j.schedules.CompletedItems(ctx, month, month.AddDate(0, 1, 0))
	if err != nil {
		return fmt.Errorf("load completed items for %s: %w", month.Format("2006-01"), err)
	}
	input := Summarize(items)
	input.Month = month.Format("2006-01")
	if _, _, err := j.revenues.Upsert(ctx, input); err != nil {
		return fmt.Errorf("upsert revenue for %s: %w", input.Month, err)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"month":          input.Month,
		"total_sales":    input.TotalSales,
		"sales_revenue":  input.SalesRevenue.StringFixed(2),
		"total_rental":   input.TotalRental,
		"rental_revenue": input.RentalRevenue.StringFixed(2),
	}), "revenue rollup complete")
	return nil
}

// Summarize counts purchase and rental lines and sums unit price times
// quantity for each. Quote lines carry no price and are ignored.
func Summarize(items []models.ScheduleItem) revenues.UpsertInput {
	out := revenues.UpsertInput{SalesRevenue: decimal.Zero, RentalRevenue: decimal.Zero}
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		switch item.Type {
		case enums.LineKindPurchase:
			out.TotalSales++
			if item.BuyPrice.Valid {
				out.SalesRevenue = out.SalesRevenue.Add(item.BuyPrice.Decimal.Mul(qty))
			}
		case enums.LineKindRental:
			out.TotalRental++
			if item.PricePerDay.Valid {
				out.RentalRevenue = out.RentalRevenue.Add(item.PricePerDay.Decimal.Mul(qty))
			}
		}
	}
	return out
}
