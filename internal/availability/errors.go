package availability

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// InvalidRangeError reports a rental whose end is not after its start.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: end date %s must be after start date %s", e.End.Format(dateLayout), e.Start.Format(dateLayout))
}

// UnavailableDateError reports the first committed day inside a requested range.
type UnavailableDateError struct {
	ItemID uuid.UUID
	Date   time.Time
}

func (e *UnavailableDateError) Error() string {
	return fmt.Sprintf("dress %s is not available on %s", e.ItemID, e.Date.Format(dateLayout))
}

// DateString returns the conflicting day as YYYY-MM-DD.
func (e *UnavailableDateError) DateString() string {
	return e.Date.Format(dateLayout)
}
