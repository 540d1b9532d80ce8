package cart

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/wahiba-atelier/atelier-backend/internal/dresses"
	"github.com/wahiba-atelier/atelier-backend/pkg/enums"
	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
)

// Selection is what the storefront submits when a dress is added to the cart.
type Selection struct {
	DressID   uuid.UUID
	Kind      enums.LineKind
	Color     string
	Size      string
	StartDate *time.Time
	EndDate   *time.Time
	// Quantity is the number of units for purchases; ignored otherwise.
	Quantity int
}

// Key returns the merge key the selection will be stored under.
func (s Selection) Key() Key {
	return Key{ItemID: s.DressID, Kind: s.Kind, Color: strings.TrimSpace(s.Color), Size: strings.TrimSpace(s.Size)}
}

// IncompleteSelectionError lists the required fields the selection is missing.
type IncompleteSelectionError struct {
	Fields []string
}

func (e *IncompleteSelectionError) Error() string {
	return "incomplete selection: missing " + strings.Join(e.Fields, ", ")
}

type missingField string

func (f missingField) Error() string {
	return string(f) + " is required"
}

// ValidateSelection checks that every field the dress requires is present and
// that the chosen variant exists. Missing fields are reported together as an
// IncompleteSelectionError.
func ValidateSelection(sel Selection, item dresses.CatalogItem) error {
	var missing error
	color := strings.TrimSpace(sel.Color)
	size := strings.TrimSpace(sel.Size)

	if color == "" {
		missing = multierr.Append(missing, missingField("color"))
	}
	if len(item.Sizes) > 0 && size == "" {
		missing = multierr.Append(missing, missingField("size"))
	}
	if sel.Kind == enums.LineKindRental {
		if sel.StartDate == nil {
			missing = multierr.Append(missing, missingField("startDate"))
		}
		if sel.EndDate == nil {
			missing = multierr.Append(missing, missingField("endDate"))
		}
	}
	if missing != nil {
		fields := []string{}
		for _, err := range multierr.Errors(missing) {
			var field missingField
			if errors.As(err, &field) {
				fields = append(fields, string(field))
			}
		}
		return &IncompleteSelectionError{Fields: fields}
	}

	if !item.OffersColor(color) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("color %q is not offered for this dress", color)).
			WithDetails(map[string]any{"color": color, "available": item.Colors})
	}
	if size != "" && !item.OffersSize(size) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size %q is not offered for this dress", size)).
			WithDetails(map[string]any{"size": size, "available": item.Sizes})
	}
	return nil
}

// checkKind enforces which line kinds a dress supports.
func checkKind(kind enums.LineKind, item dresses.CatalogItem) error {
	if !kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid variant kind %q", kind))
	}
	if item.NewCollection {
		if kind != enums.LineKindQuote {
			return pkgerrors.New(pkgerrors.CodeValidation, "new collection dresses are available on quote only")
		}
		return nil
	}
	switch kind {
	case enums.LineKindQuote:
		return pkgerrors.New(pkgerrors.CodeValidation, "quotes are only available for new collection dresses")
	case enums.LineKindRental:
		if item.DayRate == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "this dress is not available for rent")
		}
	case enums.LineKindPurchase:
		if item.PurchasePrice == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "this dress is not for sale")
		}
	}
	return nil
}
