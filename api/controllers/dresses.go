package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/wahiba-atelier/atelier-backend/api/responses"
	"github.com/wahiba-atelier/atelier-backend/api/validators"
	"github.com/wahiba-atelier/atelier-backend/internal/availability"
	"github.com/wahiba-atelier/atelier-backend/internal/dresses"
	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
)

const (
	dateLayout          = "2006-01-02"
	defaultCalendarDays = 90
)

// ListDresses serves the storefront catalog with optional filters.
func ListDresses(svc dresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dress service unavailable"))
			return
		}

		categoryID, err := validators.ParseQueryUUID(r, "category")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		newCollection, err := validators.ParseQueryBool(r, "newCollection")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		forSale, err := validators.ParseQueryBool(r, "forSale")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), dresses.ListFilter{
			CategoryID:    categoryID,
			NewCollection: newCollection,
			ForSale:       forSale,
			Query:         validators.SanitizeString(r.URL.Query().Get("q"), 100),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func GetDress(svc dresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dress service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "dressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dress, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dress)
	}
}

type calendarResponse struct {
	DressID      string   `json:"dressId"`
	From         string   `json:"from"`
	To           string   `json:"to"`
	BlockedDates []string `json:"blockedDates"`
}

// DressAvailability returns the days the storefront calendar must disable.
// Without from/to it covers the next 90 days.
func DressAvailability(catalog dresses.Service, avail availability.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalog == nil || avail == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "availability service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "dressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		fromParam, err := validators.ParseQueryDate(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		toParam, err := validators.ParseQueryDate(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		from := availability.NormalizeDate(time.Now())
		if fromParam != nil {
			from = availability.NormalizeDate(*fromParam)
		}
		to := from.AddDate(0, 0, defaultCalendarDays)
		if toParam != nil {
			to = availability.NormalizeDate(*toParam)
		}

		if _, err := catalog.Get(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		blocked, err := avail.Calendar(r.Context(), id, from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		days := make([]string, 0, len(blocked))
		for _, d := range blocked {
			days = append(days, d.Format(dateLayout))
		}
		responses.WriteSuccess(w, calendarResponse{
			DressID:      id.String(),
			From:         from.Format(dateLayout),
			To:           to.Format(dateLayout),
			BlockedDates: days,
		})
	}
}

// ConfirmedBookings exposes the committed windows of every dress.
func ConfirmedBookings(avail availability.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if avail == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "availability service unavailable"))
			return
		}
		windows, err := avail.Windows(r.Context(), false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if windows == nil {
			windows = availability.Windows{}
		}
		responses.WriteSuccess(w, windows)
	}
}

func trimmedPtr(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
