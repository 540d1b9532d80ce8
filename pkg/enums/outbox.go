package enums

import "fmt"

// OutboxAggregateType names the entity an outbox event is about.
type OutboxAggregateType string

const (
	AggregateSchedule OutboxAggregateType = "schedule"
	AggregateContact  OutboxAggregateType = "contact"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateSchedule,
	AggregateContact,
}

// IsValid reports whether the value is a known aggregate type.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType names a domain event stored in outbox_events.
type OutboxEventType string

const (
	EventScheduleCreated       OutboxEventType = "schedule_created"
	EventScheduleStatusChanged OutboxEventType = "schedule_status_changed"
	EventScheduleDeleted       OutboxEventType = "schedule_deleted"
	EventContactReceived       OutboxEventType = "contact_received"
)

var validOutboxEventTypes = []OutboxEventType{
	EventScheduleCreated,
	EventScheduleStatusChanged,
	EventScheduleDeleted,
	EventContactReceived,
}

// IsValid reports whether the value is a known event type.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
