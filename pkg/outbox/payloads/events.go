package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/wahiba-atelier/atelier-backend/pkg/enums"
)

// ScheduleLine summarizes one booked line for downstream consumers.
type ScheduleLine struct {
	DressID   *uuid.UUID     `json:"dress_id,omitempty"`
	DressName string         `json:"dress_name"`
	Kind      enums.LineKind `json:"kind"`
	Color     string         `json:"color,omitempty"`
	Size      string         `json:"size,omitempty"`
	Quantity  int            `json:"quantity"`
	StartDate *time.Time     `json:"start_date,omitempty"`
	EndDate   *time.Time     `json:"end_date,omitempty"`
}

// ScheduleCreatedEvent is emitted when a checkout becomes a booking request.
type ScheduleCreatedEvent struct {
	ScheduleID uuid.UUID      `json:"schedule_id"`
	FullName   string         `json:"full_name"`
	Phone      string         `json:"phone"`
	TryOnDate  *time.Time     `json:"try_on_date,omitempty"`
	Total      string         `json:"total"`
	QuoteOnly  bool           `json:"quote_only"`
	Lines      []ScheduleLine `json:"lines"`
}

// ScheduleStatusChangedEvent is emitted by back-office status transitions.
type ScheduleStatusChangedEvent struct {
	ScheduleID     uuid.UUID            `json:"schedule_id"`
	PreviousStatus enums.ScheduleStatus `json:"previous_status"`
	Status         enums.ScheduleStatus `json:"status"`
}

// ScheduleDeletedEvent is emitted when a booking is removed.
type ScheduleDeletedEvent struct {
	ScheduleID uuid.UUID            `json:"schedule_id"`
	Status     enums.ScheduleStatus `json:"status"`
}

// ContactReceivedEvent lets the shop be notified of contact-form messages.
type ContactReceivedEvent struct {
	ContactID uuid.UUID `json:"contact_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
}
