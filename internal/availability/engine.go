package availability

import (
	"time"

	"github.com/google/uuid"
)

const day = 24 * time.Hour

// Interval is a closed, date-only period during which an item is committed.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Window lists the committed intervals of one catalog item. Intervals are not
// merged and may overlap.
type Window struct {
	ItemID    uuid.UUID  `json:"itemId"`
	Intervals []Interval `json:"intervals"`
}

// Windows is every known booking window, for any item.
type Windows []Window

// NormalizeDate drops the time of day using UTC as the reference so the
// calendar, the cart and checkout agree on which day a timestamp falls on.
func NormalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ValidateRange returns an InvalidRangeError unless end falls on a later day
// than start.
func ValidateRange(start, end time.Time) error {
	s, e := NormalizeDate(start), NormalizeDate(end)
	if !e.After(s) {
		return &InvalidRangeError{Start: s, End: e}
	}
	return nil
}

// RentalDays is the number of whole days between start and end, rounding a
// partial day up.
func RentalDays(start, end time.Time) int {
	d := NormalizeDate(end).Sub(NormalizeDate(start))
	if d <= 0 {
		return 0
	}
	return int((d + day - 1) / day)
}

// IsDateAvailable reports whether date is outside every interval of the
// item's window. Items without a window are always available.
func IsDateAvailable(itemID uuid.UUID, date time.Time, windows Windows) bool {
	d := NormalizeDate(date)
	for _, w := range windows {
		if w.ItemID != itemID {
			continue
		}
		for _, iv := range w.Intervals {
			if !d.Before(NormalizeDate(iv.Start)) && !d.After(NormalizeDate(iv.End)) {
				return false
			}
		}
	}
	return true
}

// IsRangeAvailable reports whether every day of [start, end] is available.
// Callers must reject ranges where start is not before end.
func IsRangeAvailable(itemID uuid.UUID, start, end time.Time, windows Windows) bool {
	_, blocked := FirstConflict(itemID, start, end, windows)
	return !blocked
}

// FirstConflict returns the earliest unavailable day of [start, end].
func FirstConflict(itemID uuid.UUID, start, end time.Time, windows Windows) (time.Time, bool) {
	last := NormalizeDate(end)
	for d := NormalizeDate(start); !d.After(last); d = d.AddDate(0, 0, 1) {
		if !IsDateAvailable(itemID, d, windows) {
			return d, true
		}
	}
	return time.Time{}, false
}

// BlockedDates lists the unavailable days of [from, to], in order.
func BlockedDates(itemID uuid.UUID, from, to time.Time, windows Windows) []time.Time {
	blocked := []time.Time{}
	last := NormalizeDate(to)
	for d := NormalizeDate(from); !d.After(last); d = d.AddDate(0, 0, 1) {
		if !IsDateAvailable(itemID, d, windows) {
			blocked = append(blocked, d)
		}
	}
	return blocked
}

// For returns the windows that belong to itemID.
func (w Windows) For(itemID uuid.UUID) Windows {
	out := Windows{}
	for _, win := range w {
		if win.ItemID == itemID {
			out = append(out, win)
		}
	}
	return out
}

// Check validates [start, end] for itemID and returns an InvalidRangeError or
// an UnavailableDateError naming the first committed day.
func Check(itemID uuid.UUID, start, end time.Time, windows Windows) error {
	if err := ValidateRange(start, end); err != nil {
		return err
	}
	if d, blocked := FirstConflict(itemID, start, end, windows); blocked {
		return &UnavailableDateError{ItemID: itemID, Date: d}
	}
	return nil
}

// RentalPeriod is one rental line of a committed booking.
type RentalPeriod struct {
	DressID uuid.UUID
	Start   time.Time
	End     time.Time
}

// BuildWindows groups rental periods by dress, keeping first-seen order.
func BuildWindows(periods []RentalPeriod) Windows {
	index := map[uuid.UUID]int{}
	windows := Windows{}
	for _, p := range periods {
		if p.DressID == uuid.Nil {
			continue
		}
		iv := Interval{Start: NormalizeDate(p.Start), End: NormalizeDate(p.End)}
		pos, ok := index[p.DressID]
		if !ok {
			index[p.DressID] = len(windows)
			windows = append(windows, Window{ItemID: p.DressID, Intervals: []Interval{iv}})
			continue
		}
		windows[pos].Intervals = append(windows[pos].Intervals, iv)
	}
	return windows
}
