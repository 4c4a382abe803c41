// Package pipeline composes a literal (path, method) binding with three
// request stages (an optional pre-check gate, a main flow, and an optional
// post-hook) into standard net/http middleware.
//
// Requests whose path or method do not match fall through unmodified to the
// next handler in the surrounding chain; a non-match is never an error.
//
// # What this package must NOT do
//
//   - Assume any HTTP framework beyond net/http.
//   - Inspect or classify domain errors itself; classification is injected
//     through [Route.OnError].
package pipeline

import (
	"encoding/json"
	"net/http"
)

// PreHook gates a matched request before the main flow runs. Returning false
// aborts the request; the hook must already have written a response.
type PreHook func(w http.ResponseWriter, r *http.Request) bool

// PostHook receives the context produced by the main flow. When a route has
// a post-hook and the flow produced a context, the hook fully owns the
// response; the default responder is not invoked.
type PostHook func(ctx any, w http.ResponseWriter, r *http.Request)

// MainFunc is the flow stage of a route. A nil Outcome with a nil error means
// the flow already wrote its response.
type MainFunc func(w http.ResponseWriter, r *http.Request) (*Outcome, error)

// Outcome carries either a structured context for a post-hook or the default
// response directive, never implicitly both: when Context is non-nil and the
// route has a post-hook, Resolve is skipped.
type Outcome struct {
	Context any
	Resolve func()
}

// Classifier maps a flow error to the (status, message) pair written as the
// error response.
type Classifier func(err error) (status int, message string)

// Route defines a public type used by authflow APIs.
//
// Route instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Route struct {
	Path    string
	Method  string
	Pre     PreHook
	Main    MainFunc
	Post    PostHook
	OnError Classifier
}

// Middleware describes the middleware operation and its observable behavior.
//
// The returned middleware matches exactly Route.Path and Route.Method and
// passes every other request to next untouched.
func (rt Route) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != rt.Path || r.Method != rt.Method {
				next.ServeHTTP(w, r)
				return
			}

			if rt.Pre != nil && !rt.Pre(w, r) {
				return
			}

			outcome, err := rt.Main(w, r)
			if err != nil {
				status, message := http.StatusInternalServerError, "Internal server error"
				if rt.OnError != nil {
					status, message = rt.OnError(err)
				}
				Error(w, status, message)
				return
			}
			if outcome == nil {
				return
			}

			if rt.Post != nil && outcome.Context != nil {
				rt.Post(outcome.Context, w, r)
				return
			}
			if outcome.Resolve != nil {
				outcome.Resolve()
			}
		})
	}
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes the canonical {"error": message} JSON error body.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
