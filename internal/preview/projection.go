package preview

import (
	"fmt"

	"github.com/champierre/mappreview/internal/settings"
)

// The two projections every installation offers, in this order.
const (
	ProjectionWGS84       = "EPSG:4326"
	ProjectionWebMercator = "EPSG:3857"
)

// Choices returns the ordered projection option list: the two fixed entries
// first, then user-configured projections formatted "EPSG:<code>", skipping
// duplicates of the fixed two.
func Choices(custom []settings.Projection) []string {
	choices := []string{ProjectionWGS84, ProjectionWebMercator}
	for _, p := range custom {
		code := fmt.Sprintf("EPSG:%d", p.EpsgCode)
		if code == ProjectionWGS84 || code == ProjectionWebMercator {
			continue
		}
		choices = append(choices, code)
	}
	return choices
}

// ValidChoice reports whether code is present in the choice list built from
// the given custom projections.
func ValidChoice(custom []settings.Projection, code string) bool {
	for _, c := range Choices(custom) {
		if c == code {
			return true
		}
	}
	return false
}
