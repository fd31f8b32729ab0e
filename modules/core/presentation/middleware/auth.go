// Package middleware resolves the acting user for a request. Identity is
// taken from the X-User-Id header set by the fronting gateway; this service
// does not own sessions.
package middleware

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kars-hq/kars/modules/core/services"
	"github.com/kars-hq/kars/pkg/composables"
)

const userIDHeader = "X-User-Id"

// ProvideActor loads the user named by the identity header and stores its
// workflow actor on the context. Requests without the header pass through
// unauthenticated; handlers that need an actor fail on UseActor instead.
func ProvideActor(users *services.UserService) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(userIDHeader)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			u, err := users.GetByID(r.Context(), uint(id))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := composables.WithActor(r.Context(), u.Actor())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
