package controllers

import (
	"net/http"

	"github.com/wahiba-atelier/atelier-backend/api/responses"
	"github.com/wahiba-atelier/atelier-backend/api/validators"
	"github.com/wahiba-atelier/atelier-backend/internal/checkout"
	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
)

type checkoutRequest struct {
	FullName   string  `json:"fullName" validate:"required,notblank,max=255"`
	Phone      string  `json:"phone" validate:"required,notblank,max=50"`
	Address    string  `json:"address" validate:"max=500"`
	PostalCode string  `json:"postalCode" validate:"max=20"`
	State      string  `json:"state" validate:"max=100"`
	Note       string  `json:"note" validate:"max=2000"`
	TryOnDate  *string `json:"tryOnDate"`
}

// Checkout turns the session cart into a pending booking request.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		session, ok := cartSession(w, r, logg)
		if !ok {
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tryOn, err := validators.ParseOptionalDate("tryOnDate", payload.TryOnDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), session, checkout.Input{
			FullName:   payload.FullName,
			Phone:      payload.Phone,
			Address:    payload.Address,
			PostalCode: payload.PostalCode,
			State:      payload.State,
			Note:       payload.Note,
			TryOnDate:  tryOn,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
