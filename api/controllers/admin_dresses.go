package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wahiba-atelier/atelier-backend/api/responses"
	"github.com/wahiba-atelier/atelier-backend/api/validators"
	"github.com/wahiba-atelier/atelier-backend/internal/dresses"
	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
)

type pricingRequest struct {
	PricePerDay      *decimal.Decimal `json:"pricePerDay"`
	IsRentOnDiscount bool             `json:"isRentOnDiscount"`
	NewPricePerDay   *decimal.Decimal `json:"newPricePerDay"`
	IsForSale        bool             `json:"isForSale"`
	BuyPrice         *decimal.Decimal `json:"buyPrice"`
	IsSellOnDiscount bool             `json:"isSellOnDiscount"`
	NewBuyPrice      *decimal.Decimal `json:"newBuyPrice"`
}

func (p pricingRequest) toPricing() dresses.Pricing {
	return dresses.Pricing{
		PricePerDay:      p.PricePerDay,
		IsRentOnDiscount: p.IsRentOnDiscount,
		NewPricePerDay:   p.NewPricePerDay,
		IsForSale:        p.IsForSale,
		BuyPrice:         p.BuyPrice,
		IsSellOnDiscount: p.IsSellOnDiscount,
		NewBuyPrice:      p.NewBuyPrice,
	}
}

type colorRequest struct {
	ColorName string   `json:"colorName" validate:"required,max=100"`
	ImageURLs []string `json:"imageUrls" validate:"omitempty,dive,required,url"`
}

func (c colorRequest) toInput() dresses.ColorInput {
	return dresses.ColorInput{ColorName: strings.TrimSpace(c.ColorName), ImageURLs: c.ImageURLs}
}

type createDressRequest struct {
	Name          string         `json:"name" validate:"required,max=255"`
	Description   *string        `json:"description"`
	NewCollection bool           `json:"newCollection"`
	Pricing       pricingRequest `json:"pricing"`
	Sizes         []string       `json:"sizes" validate:"omitempty,dive,required,max=20"`
	Colors        []colorRequest `json:"colors" validate:"omitempty,dive"`
	CategoryIDs   []string       `json:"categoryIds" validate:"omitempty,dive,uuid"`
}

// updateDressRequest mirrors dresses.UpdateInput: a pricing object replaces
// every monetary field at once.
type updateDressRequest struct {
	Name          *string         `json:"name" validate:"omitempty,max=255"`
	Description   *string         `json:"description"`
	NewCollection *bool           `json:"newCollection"`
	Pricing       *pricingRequest `json:"pricing"`
	Sizes         *[]string       `json:"sizes"`
}

type addImageRequest struct {
	ImageURL string `json:"imageUrl" validate:"required,url"`
}

type setCategoriesRequest struct {
	CategoryIDs []string `json:"categoryIds" validate:"dive,uuid"`
}

func parseUUIDs(field string, raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, v := range raw {
		id, err := uuid.Parse(strings.TrimSpace(v))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
		}
		out = append(out, id)
	}
	return out, nil
}

func AdminCreateDress(svc dresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dress service unavailable"))
			return
		}
		var payload createDressRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryIDs, err := parseUUIDs("categoryIds", payload.CategoryIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		colors := make([]dresses.ColorInput, 0, len(payload.Colors))
		for _, c := range payload.Colors {
			colors = append(colors, c.toInput())
		}

		dress, err := svc.Create(r.Context(), dresses.CreateInput{
			Name:          payload.Name,
			Description:   trimmedPtr(payload.Description),
			NewCollection: payload.NewCollection,
			Pricing:       payload.Pricing.toPricing(),
			Sizes:         payload.Sizes,
			Colors:        colors,
			CategoryIDs:   categoryIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dress)
	}
}

func AdminUpdateDress(svc dresses.Service, logg *logger.Logger) http.HandlerFunc {
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
		var payload updateDressRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := dresses.UpdateInput{
			Name:          payload.Name,
			Description:   trimmedPtr(payload.Description),
			NewCollection: payload.NewCollection,
			Sizes:         payload.Sizes,
		}
		if payload.Pricing != nil {
			pricing := payload.Pricing.toPricing()
			input.Pricing = &pricing
		}

		dress, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dress)
	}
}

func AdminDeleteDress(svc dresses.Service, logg *logger.Logger) http.HandlerFunc {
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
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func AdminAddDressColor(svc dresses.Service, logg *logger.Logger) http.HandlerFunc {
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
		var payload colorRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dress, err := svc.AddColor(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dress)
	}
}

func AdminDeleteDressColor(svc dresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dress service unavailable"))
			return
		}
		dressID, err := validators.ParseUUIDParam(r, "dressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		colorID, err := validators.ParseUUIDParam(r, "colorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteColor(r.Context(), dressID, colorID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func AdminAddDressImage(svc dresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dress service unavailable"))
			return
		}
		dressID, err := validators.ParseUUIDParam(r, "dressId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		colorID, err := validators.ParseUUIDParam(r, "colorId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload addImageRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dress, err := svc.AddImage(r.Context(), dressID, colorID, strings.TrimSpace(payload.ImageURL))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dress)
	}
}

func AdminDeleteDressImage(svc dresses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dress service unavailable"))
			return
		}
		ids := make([]uuid.UUID, 0, 3)
		for _, name := range []string{"dressId", "colorId", "imageId"} {
			id, err := validators.ParseUUIDParam(r, name)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			ids = append(ids, id)
		}
		if err := svc.DeleteImage(r.Context(), ids[0], ids[1], ids[2]); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// AdminSetDressCategories replaces the category links of a dress.
func AdminSetDressCategories(svc dresses.Service, logg *logger.Logger) http.HandlerFunc {
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
		var payload setCategoriesRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryIDs, err := parseUUIDs("categoryIds", payload.CategoryIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dress, err := svc.SetCategories(r.Context(), id, categoryIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dress)
	}
}
