package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
)

// CartSessionHeader carries the anonymous storefront session.
const CartSessionHeader = "X-Cart-Session"

// CartSession resolves the cart session from the request header. A missing or
// malformed value is replaced by a fresh id, which is echoed back so the
// storefront can keep it.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := strings.TrimSpace(r.Header.Get(CartSessionHeader))
			if _, err := uuid.Parse(session); err != nil {
				session = uuid.NewString()
			}
			w.Header().Set(CartSessionHeader, session)

			ctx := WithCartSession(r.Context(), session)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, session)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
