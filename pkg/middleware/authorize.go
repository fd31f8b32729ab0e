package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kars-hq/kars/pkg/authz"
	"github.com/kars-hq/kars/pkg/composables"
	"github.com/kars-hq/kars/pkg/httpapi"
)

// Authorize gates a route subtree on a casbin policy check for the actor's
// role. Transition-level rules are enforced separately by the workflow engine.
func Authorize(svc *authz.Service, object, action string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := composables.UseActor(r.Context())
			if err != nil {
				httpapi.WriteError(w, http.StatusUnauthorized, err)
				return
			}
			req := authz.NewRequest(authz.SubjectForRole(actor.Role), object, action)
			if err := svc.Authorize(r.Context(), req); err != nil {
				httpapi.WriteError(w, http.StatusForbidden, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
