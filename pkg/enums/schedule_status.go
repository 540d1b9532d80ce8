package enums

import "fmt"

// ScheduleStatus tracks a booking request through the back-office workflow.
type ScheduleStatus string

const (
	ScheduleStatusPending   ScheduleStatus = "pending"
	// ScheduleStatusAppointmentConfirmed means the try-on appointment is set
	// but the rental itself is not yet committed.
	ScheduleStatusAppointmentConfirmed ScheduleStatus = "apConfirmed"
	ScheduleStatusConfirmed            ScheduleStatus = "confirmed"
	ScheduleStatusCompleted            ScheduleStatus = "completed"
	ScheduleStatusCancelled            ScheduleStatus = "cancelled"
)

var validScheduleStatuses = []ScheduleStatus{
	ScheduleStatusPending,
	ScheduleStatusAppointmentConfirmed,
	ScheduleStatusConfirmed,
	ScheduleStatusCompleted,
	ScheduleStatusCancelled,
}

// String implements fmt.Stringer.
func (s ScheduleStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ScheduleStatus.
func (s ScheduleStatus) IsValid() bool {
	for _, candidate := range validScheduleStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// BlocksAvailability reports whether rentals under this status occupy dates.
func (s ScheduleStatus) BlocksAvailability() bool {
	return s == ScheduleStatusConfirmed
}

// ParseScheduleStatus converts raw input into a ScheduleStatus.
func ParseScheduleStatus(value string) (ScheduleStatus, error) {
	for _, candidate := range validScheduleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid schedule status %q", value)
}
