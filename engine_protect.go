package authflow

import (
	"context"
	"net/http"

	"github.com/MrEthical07/authflow/metrics"
	"github.com/MrEthical07/authflow/pipeline"
)

type contextKey struct{ name string }

var authContextKey = &contextKey{"authflow.auth"}

func withAuth(ctx context.Context, auth *AuthResult) context.Context {
	return context.WithValue(ctx, authContextKey, auth)
}

// AuthFromContext returns the authenticated identity placed on the request
// context by Protect. The second return is false on requests that did not
// pass through the middleware.
func AuthFromContext(ctx context.Context) (*AuthResult, bool) {
	auth, ok := ctx.Value(authContextKey).(*AuthResult)
	return auth, ok
}

// Protect describes the protect operation and its observable behavior.
//
// A missing, malformed or expired token fails with 401 before the adapter
// is consulted. A valid token whose user lacks one of the required roles
// fails with 403, so clients can tell "log in again" apart from "you may
// not do this". With no roles listed any authenticated user passes. The
// resolved identity is attached to the request context for the wrapped
// handler.
func (e *Engine) Protect(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := e.Authenticate(r)
			if err != nil {
				e.metrics.Inc(metrics.TokenRejected)
				status, message := e.Classify(err)
				pipeline.Error(w, status, message)
				return
			}

			user, err := e.lookupUser(r.Context(), UserFilter{ID: claims.ID})
			if err != nil {
				status, message := e.Classify(err)
				pipeline.Error(w, status, message)
				return
			}

			if len(roles) > 0 && !roleAllowed(roles, user.role) {
				e.metrics.Inc(metrics.PermissionDenied)
				status, message := e.Classify(ErrPermissionDenied)
				pipeline.Error(w, status, message)
				return
			}

			auth := &AuthResult{
				UserID: user.id,
				Email:  user.email,
				Role:   user.role,
				User:   sanitizeUser(user.raw),
			}
			next.ServeHTTP(w, r.WithContext(withAuth(r.Context(), auth)))
		})
	}
}
