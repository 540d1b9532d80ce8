package enums

import "fmt"

// LineKind is the commercial nature of a cart or booking line.
type LineKind string

const (
	LineKindRental   LineKind = "rental"
	LineKindPurchase LineKind = "purchase"
	LineKindQuote    LineKind = "quote"
)

var validLineKinds = []LineKind{
	LineKindRental,
	LineKindPurchase,
	LineKindQuote,
}

// String implements fmt.Stringer.
func (k LineKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known LineKind.
func (k LineKind) IsValid() bool {
	for _, candidate := range validLineKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// Priced reports whether lines of this kind contribute to monetary totals.
func (k LineKind) Priced() bool {
	return k == LineKindRental || k == LineKindPurchase
}

// ParseLineKind converts raw input into a LineKind.
func ParseLineKind(value string) (LineKind, error) {
	for _, candidate := range validLineKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid line kind %q", value)
}
