package outbox

import (
	"encoding/json"
	"time"
)

// ActorRef identifies who produced the event. Storefront events carry the
// cart session; back-office events carry the admin subject.
type ActorRef struct {
	AdminID     string `json:"adminId,omitempty"`
	CartSession string `json:"cartSession,omitempty"`
	Role        string `json:"role,omitempty"`
}

// PayloadEnvelope is the stable payload structure stored in outbox_events.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}
