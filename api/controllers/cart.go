package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/wahiba-atelier/atelier-backend/api/middleware"
	"github.com/wahiba-atelier/atelier-backend/api/responses"
	"github.com/wahiba-atelier/atelier-backend/api/validators"
	"github.com/wahiba-atelier/atelier-backend/internal/cart"
	"github.com/wahiba-atelier/atelier-backend/pkg/enums"
	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
)

type addCartItemRequest struct {
	DressID   string  `json:"dressId" validate:"required,uuid"`
	Type      string  `json:"type" validate:"required,oneof=rental purchase quote"`
	Color     string  `json:"color"`
	Size      string  `json:"size"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Quantity  int     `json:"quantity" validate:"gte=0"`
}

func (req addCartItemRequest) toSelection() (cart.Selection, error) {
	dressID, err := uuid.Parse(req.DressID)
	if err != nil {
		return cart.Selection{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid dressId")
	}
	kind, err := enums.ParseLineKind(req.Type)
	if err != nil {
		return cart.Selection{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type")
	}
	start, err := validators.ParseOptionalDate("startDate", req.StartDate)
	if err != nil {
		return cart.Selection{}, err
	}
	end, err := validators.ParseOptionalDate("endDate", req.EndDate)
	if err != nil {
		return cart.Selection{}, err
	}
	return cart.Selection{
		DressID:   dressID,
		Kind:      kind,
		Color:     strings.TrimSpace(req.Color),
		Size:      strings.TrimSpace(req.Size),
		StartDate: start,
		EndDate:   end,
		Quantity:  req.Quantity,
	}, nil
}

type removeCartItemRequest struct {
	DressID string `json:"dressId" validate:"required,uuid"`
	Type    string `json:"type" validate:"required,oneof=rental purchase quote"`
	Color   string `json:"color"`
	Size    string `json:"size"`
}

func cartSession(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (string, bool) {
	session := middleware.CartSessionFromContext(r.Context())
	if session == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing"))
		return "", false
	}
	return session, true
}

func GetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		session, ok := cartSession(w, r, logg)
		if !ok {
			return
		}
		view, err := svc.Get(r.Context(), session)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// AddCartItem validates the selection against the dress and its bookings,
// then merges it into the session cart.
func AddCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		session, ok := cartSession(w, r, logg)
		if !ok {
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sel, err := payload.toSelection()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Add(r.Context(), session, sel)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func RemoveCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		session, ok := cartSession(w, r, logg)
		if !ok {
			return
		}

		var payload removeCartItemRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dressID, err := uuid.Parse(payload.DressID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid dressId"))
			return
		}
		kind, err := enums.ParseLineKind(payload.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type"))
			return
		}

		view, err := svc.Remove(r.Context(), session, cart.Key{
			ItemID: dressID,
			Kind:   kind,
			Color:  strings.TrimSpace(payload.Color),
			Size:   strings.TrimSpace(payload.Size),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func ClearCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		session, ok := cartSession(w, r, logg)
		if !ok {
			return
		}
		view, err := svc.Clear(r.Context(), session)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
