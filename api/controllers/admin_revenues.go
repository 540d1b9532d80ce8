package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/wahiba-atelier/atelier-backend/api/responses"
	"github.com/wahiba-atelier/atelier-backend/api/validators"
	"github.com/wahiba-atelier/atelier-backend/internal/revenues"
	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
)

type revenueRequest struct {
	Month         string           `json:"month" validate:"required,yearmonth"`
	TotalSales    int              `json:"totalSales" validate:"gte=0"`
	SalesRevenue  *decimal.Decimal `json:"salesRevenue"`
	TotalRental   int              `json:"totalRental" validate:"gte=0"`
	RentalRevenue *decimal.Decimal `json:"rentalRevenue"`
}

func orZero(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}

func AdminListRevenues(svc revenues.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "revenue service unavailable"))
			return
		}
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminGetRevenue(svc revenues.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "revenue service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "revenueId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		revenue, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, revenue)
	}
}

// AdminGetRevenueByMonth looks a month up by YYYY-MM.
func AdminGetRevenueByMonth(svc revenues.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "revenue service unavailable"))
			return
		}
		revenue, err := svc.GetByMonth(r.Context(), chi.URLParam(r, "month"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, revenue)
	}
}

// AdminUpsertRevenue replaces the figures of a month, creating the row when
// the month is new.
func AdminUpsertRevenue(svc revenues.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "revenue service unavailable"))
			return
		}
		var payload revenueRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		revenue, created, err := svc.Upsert(r.Context(), revenues.UpsertInput{
			Month:         payload.Month,
			TotalSales:    payload.TotalSales,
			SalesRevenue:  orZero(payload.SalesRevenue),
			TotalRental:   payload.TotalRental,
			RentalRevenue: orZero(payload.RentalRevenue),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, revenue)
	}
}

func AdminDeleteRevenue(svc revenues.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "revenue service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "revenueId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
