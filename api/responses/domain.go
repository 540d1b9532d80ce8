package responses

import (
	"errors"

	"github.com/wahiba-atelier/atelier-backend/internal/availability"
	"github.com/wahiba-atelier/atelier-backend/internal/cart"
	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
)

// fromDomain maps the booking rule errors onto their public codes. It returns
// nil for anything else.
func fromDomain(err error) *pkgerrors.Error {
	var invalid *availability.InvalidRangeError
	if errors.As(err, &invalid) {
		return pkgerrors.Wrap(pkgerrors.CodeInvalidRange, err, invalid.Error()).WithDetails(map[string]any{
			"startDate": invalid.Start.Format("2006-01-02"),
			"endDate":   invalid.End.Format("2006-01-02"),
		})
	}

	var unavailable *availability.UnavailableDateError
	if errors.As(err, &unavailable) {
		return pkgerrors.Wrap(pkgerrors.CodeUnavailableDate, err, unavailable.Error()).WithDetails(map[string]any{
			"dressId": unavailable.ItemID.String(),
			"date":    unavailable.DateString(),
		})
	}

	var incomplete *cart.IncompleteSelectionError
	if errors.As(err, &incomplete) {
		return pkgerrors.Wrap(pkgerrors.CodeIncompleteSelection, err, incomplete.Error()).WithDetails(map[string]any{
			"fields": incomplete.Fields,
		})
	}
	return nil
}
