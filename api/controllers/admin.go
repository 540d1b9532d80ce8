package controllers

import (
	"net/http"

	"github.com/wahiba-atelier/atelier-backend/api/middleware"
	"github.com/wahiba-atelier/atelier-backend/pkg/outbox"
)

// adminActor identifies the back-office user on emitted events.
func adminActor(r *http.Request) *outbox.ActorRef {
	return &outbox.ActorRef{
		AdminID: middleware.AdminIDFromContext(r.Context()),
		Role:    middleware.RoleFromContext(r.Context()),
	}
}
