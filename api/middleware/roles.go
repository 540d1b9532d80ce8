package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/wahiba-atelier/atelier-backend/api/responses"
	pkgerrors "github.com/wahiba-atelier/atelier-backend/pkg/errors"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
)

// RequireRole admits requests whose token role matches one of roles. It must
// run after Auth so the role is already on the context.
func RequireRole(logg *logger.Logger, roles ...string) func(http.Handler) http.Handler {
	allowed := make([]string, 0, len(roles))
	for _, role := range roles {
		if role = strings.ToLower(strings.TrimSpace(role)); role != "" {
			allowed = append(allowed, role)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" || !slices.Contains(allowed, role) {
				err := pkgerrors.New(pkgerrors.CodeForbidden, "role not permitted for back-office routes").
					WithDetails(map[string]any{"role": role, "allowed": allowed})
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
