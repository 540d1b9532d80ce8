// Package revenues keeps the monthly sales and rental figures shown in the
// back office.
package revenues

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wahiba-atelier/atelier-backend/pkg/db"
	"github.com/wahiba-atelier/atelier-backend/pkg/db/models"
	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
)

const monthLayout = "2006-01"

type RevenueDTO struct {
	ID            uuid.UUID       `json:"id"`
	Month         string          `json:"month"`
	TotalSales    int             `json:"totalSales"`
	SalesRevenue  decimal.Decimal `json:"salesRevenue"`
	TotalRental   int             `json:"totalRental"`
	RentalRevenue decimal.Decimal `json:"rentalRevenue"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// UpsertInput replaces the figures of one month. Omitted figures are stored
// as zero.
type UpsertInput struct {
	Month         string
	TotalSales    int
	SalesRevenue  decimal.Decimal
	TotalRental   int
	RentalRevenue decimal.Decimal
}

type Service interface {
	List(ctx context.Context) ([]RevenueDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*RevenueDTO, error)
	GetByMonth(ctx context.Context, month string) (*RevenueDTO, error)
	Upsert(ctx context.Context, input UpsertInput) (*RevenueDTO, bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("revenue repository required")
	}
	return &service{repo: repo}, nil
}

// MonthStart returns midnight UTC of the first day of t's month.
func MonthStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ParseMonth accepts YYYY-MM or a full YYYY-MM-DD date.
func ParseMonth(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) >= len("2006-01-02") {
		t, err := time.Parse("2006-01-02", raw[:10])
		if err != nil {
			return time.Time{}, err
		}
		return MonthStart(t), nil
	}
	t, err := time.Parse(monthLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	return MonthStart(t), nil
}

func (s *service) List(ctx context.Context) ([]RevenueDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list revenues")
	}
	out := make([]RevenueDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RevenueDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	return s.found(row, err)
}

func (s *service) GetByMonth(ctx context.Context, month string) (*RevenueDTO, error) {
	start, err := ParseMonth(month)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "month must be YYYY-MM")
	}
	row, err := s.repo.FindByMonth(ctx, start)
	return s.found(row, err)
}

// Upsert reports whether a new month row was created.
func (s *service) Upsert(ctx context.Context, input UpsertInput) (*RevenueDTO, bool, error) {
	month, err := ParseMonth(input.Month)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "month must be YYYY-MM")
	}
	if input.TotalSales < 0 || input.TotalRental < 0 || input.SalesRevenue.IsNegative() || input.RentalRevenue.IsNegative() {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "revenue figures cannot be negative")
	}
	row := &models.Revenue{
		Month:         month,
		TotalSales:    input.TotalSales,
		SalesRevenue:  input.SalesRevenue,
		TotalRental:   input.TotalRental,
		RentalRevenue: input.RentalRevenue,
	}
	created, err := s.repo.Upsert(ctx, row)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert revenue")
	}
	dto := toDTO(*row)
	return &dto, created, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete revenue")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "revenue not found")
	}
	return nil
}

func (s *service) found(row *models.Revenue, err error) (*RevenueDTO, error) {
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "revenue not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load revenue")
	}
	dto := toDTO(*row)
	return &dto, nil
}

func toDTO(m models.Revenue) RevenueDTO {
	return RevenueDTO{
		ID:            m.ID,
		Month:         m.Month.UTC().Format(monthLayout),
		TotalSales:    m.TotalSales,
		SalesRevenue:  m.SalesRevenue,
		TotalRental:   m.TotalRental,
		RentalRevenue: m.RentalRevenue,
		UpdatedAt:     m.UpdatedAt,
	}
}
