package enums

import "fmt"

// SiteImagePlacement selects where a storefront image is displayed.
type SiteImagePlacement string

const (
	PlacementBanner SiteImagePlacement = "banner"
	PlacementAbout  SiteImagePlacement = "about"
)

var validPlacements = []SiteImagePlacement{
	PlacementBanner,
	PlacementAbout,
}

// String implements fmt.Stringer.
func (p SiteImagePlacement) String() string {
	return string(p)
}

// IsValid reports whether the value is a known placement.
func (p SiteImagePlacement) IsValid() bool {
	for _, candidate := range validPlacements {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseSiteImagePlacement converts raw input into a SiteImagePlacement.
func ParseSiteImagePlacement(value string) (SiteImagePlacement, error) {
	for _, candidate := range validPlacements {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid placement %q", value)
}
