package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wahiba-atelier/atelier-backend/api/responses"
	"github.com/wahiba-atelier/atelier-backend/internal/siteimages"
	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
)

// ActiveSiteImages lists the active pictures of one placement (banner or about).
func ActiveSiteImages(svc siteimages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "site image service unavailable"))
			return
		}
		images, err := svc.Active(r.Context(), chi.URLParam(r, "placement"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, images)
	}
}
