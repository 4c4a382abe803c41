package authflow

import (
	"net/http"

	"github.com/MrEthical07/authflow/pipeline"
)

// RouteOptions defines a public type used by authflow APIs.
//
// RouteOptions instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RouteOptions struct {
	// Role is injected into register payloads; it is never read from the
	// request body, so clients cannot self-assign a role.
	Role string

	// Pre runs before the flow. Returning false aborts the request; the
	// hook must already have written a response.
	Pre pipeline.PreHook

	// Post receives the flow's context value and owns the response when
	// set. The default JSON responder is skipped.
	Post pipeline.PostHook

	// Body replaces the default JSON body decoder for the route's payload.
	Body PayloadFunc
}

// PayloadFunc extracts a flow payload from the request when the default
// JSON body decoding does not fit, e.g. form posts or enveloped bodies.
type PayloadFunc func(r *http.Request) (any, error)

// RegisterContext is handed to a register route's post-hook.
type RegisterContext struct {
	Token string
	Email string
	ID    string
}

// LoginContext is handed to a login route's post-hook.
type LoginContext struct {
	Token string
	User  map[string]any
}

// VerifyContext is handed to a verify route's post-hook.
type VerifyContext struct {
	User map[string]any
}

// ResendContext is handed to a resend-verification route's post-hook.
type ResendContext struct {
	User             map[string]any
	VerificationCode int
}

// ForgotPasswordContext is handed to a forgot-password route's post-hook.
type ForgotPasswordContext struct {
	User      map[string]any
	ResetCode int
}

// ResetPasswordContext is handed to a reset-password route's post-hook.
type ResetPasswordContext struct {
	Email string
	User  map[string]any
}

func routeOptions(opts []RouteOptions) RouteOptions {
	if len(opts) == 0 {
		return RouteOptions{}
	}
	return opts[0]
}

func decodePayload[T any](r *http.Request, opt RouteOptions) (T, error) {
	var payload T
	if opt.Body != nil {
		v, err := opt.Body(r)
		if err != nil {
			return payload, err
		}
		typed, ok := v.(T)
		if !ok {
			return payload, &ValidationError{Fields: []FieldError{{Field: "body", Constraint: "has an unexpected payload type"}}}
		}
		return typed, nil
	}
	if err := decodeJSON(r, &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

// RegisterRoute describes the register-route operation and its observable
// behavior.
//
// POST path with {"email","password"}. The default response is
// {"token": ...}; the verification code never appears in it, it travels by
// mail. Wire the returned middleware in front of your mux.
func (e *Engine) RegisterRoute(path string, opts ...RouteOptions) func(http.Handler) http.Handler {
	opt := routeOptions(opts)
	return pipeline.Route{
		Path:    path,
		Method:  http.MethodPost,
		Pre:     opt.Pre,
		Post:    opt.Post,
		OnError: e.Classify,
		Main: func(w http.ResponseWriter, r *http.Request) (*pipeline.Outcome, error) {
			req, err := decodePayload[RegisterRequest](r, opt)
			if err != nil {
				return nil, err
			}
			req.Role = opt.Role
			result, err := e.Register(r.Context(), w, req)
			if err != nil {
				return nil, err
			}
			return &pipeline.Outcome{
				Context: &RegisterContext{Token: result.Token, Email: result.Email, ID: result.UserID},
				Resolve: func() {
					pipeline.JSON(w, http.StatusCreated, map[string]string{"token": result.Token})
				},
			}, nil
		},
	}.Middleware()
}

// LoginRoute describes the login-route operation and its observable behavior.
//
// POST path with {"email","password"}. The default response is {"token": ...}.
func (e *Engine) LoginRoute(path string, opts ...RouteOptions) func(http.Handler) http.Handler {
	opt := routeOptions(opts)
	return pipeline.Route{
		Path:    path,
		Method:  http.MethodPost,
		Pre:     opt.Pre,
		Post:    opt.Post,
		OnError: e.Classify,
		Main: func(w http.ResponseWriter, r *http.Request) (*pipeline.Outcome, error) {
			req, err := decodePayload[LoginRequest](r, opt)
			if err != nil {
				return nil, err
			}
			result, err := e.Login(r.Context(), w, req)
			if err != nil {
				return nil, err
			}
			return &pipeline.Outcome{
				Context: &LoginContext{Token: result.Token, User: result.User},
				Resolve: func() {
					pipeline.JSON(w, http.StatusOK, map[string]string{"token": result.Token})
				},
			}, nil
		},
	}.Middleware()
}

// VerifyRoute describes the verify-route operation and its observable
// behavior.
//
// POST path with {"email","code"}.
func (e *Engine) VerifyRoute(path string, opts ...RouteOptions) func(http.Handler) http.Handler {
	opt := routeOptions(opts)
	return pipeline.Route{
		Path:    path,
		Method:  http.MethodPost,
		Pre:     opt.Pre,
		Post:    opt.Post,
		OnError: e.Classify,
		Main: func(w http.ResponseWriter, r *http.Request) (*pipeline.Outcome, error) {
			req, err := decodePayload[VerifyRequest](r, opt)
			if err != nil {
				return nil, err
			}
			result, err := e.Verify(r.Context(), req)
			if err != nil {
				return nil, err
			}
			return &pipeline.Outcome{
				Context: &VerifyContext{User: result.User},
				Resolve: func() {
					pipeline.JSON(w, http.StatusOK, map[string]string{"message": "OK"})
				},
			}, nil
		},
	}.Middleware()
}

// ResendVerificationRoute describes the resend-verification-route operation
// and its observable behavior.
//
// POST path, no body; the caller is identified by their auth token. The
// default response confirms dispatch without echoing the code.
func (e *Engine) ResendVerificationRoute(path string, opts ...RouteOptions) func(http.Handler) http.Handler {
	opt := routeOptions(opts)
	return pipeline.Route{
		Path:    path,
		Method:  http.MethodPost,
		Pre:     opt.Pre,
		Post:    opt.Post,
		OnError: e.Classify,
		Main: func(w http.ResponseWriter, r *http.Request) (*pipeline.Outcome, error) {
			result, err := e.ResendVerification(r.Context(), r)
			if err != nil {
				return nil, err
			}
			return &pipeline.Outcome{
				Context: &ResendContext{
					User:             map[string]any{"id": result.UserID, "email": result.Email},
					VerificationCode: result.VerificationCode,
				},
				Resolve: func() {
					pipeline.JSON(w, http.StatusOK, map[string]string{"message": "Verification code sent."})
				},
			}, nil
		},
	}.Middleware()
}

// ForgotPasswordRoute describes the forgot-password-route operation and its
// observable behavior.
//
// POST path with {"email"}. The reset code travels by mail; the default
// response only confirms dispatch.
func (e *Engine) ForgotPasswordRoute(path string, opts ...RouteOptions) func(http.Handler) http.Handler {
	opt := routeOptions(opts)
	return pipeline.Route{
		Path:    path,
		Method:  http.MethodPost,
		Pre:     opt.Pre,
		Post:    opt.Post,
		OnError: e.Classify,
		Main: func(w http.ResponseWriter, r *http.Request) (*pipeline.Outcome, error) {
			req, err := decodePayload[ForgotPasswordRequest](r, opt)
			if err != nil {
				return nil, err
			}
			result, err := e.ForgotPassword(r.Context(), req)
			if err != nil {
				return nil, err
			}
			return &pipeline.Outcome{
				Context: &ForgotPasswordContext{User: result.User, ResetCode: result.ResetCode},
				Resolve: func() {
					pipeline.JSON(w, http.StatusOK, map[string]string{"message": "Password reset code sent."})
				},
			}, nil
		},
	}.Middleware()
}

// ResetPasswordRoute describes the reset-password-route operation and its
// observable behavior.
//
// POST path with {"email","code","password"}.
func (e *Engine) ResetPasswordRoute(path string, opts ...RouteOptions) func(http.Handler) http.Handler {
	opt := routeOptions(opts)
	return pipeline.Route{
		Path:    path,
		Method:  http.MethodPost,
		Pre:     opt.Pre,
		Post:    opt.Post,
		OnError: e.Classify,
		Main: func(w http.ResponseWriter, r *http.Request) (*pipeline.Outcome, error) {
			req, err := decodePayload[ResetPasswordRequest](r, opt)
			if err != nil {
				return nil, err
			}
			result, err := e.ResetPassword(r.Context(), req)
			if err != nil {
				return nil, err
			}
			return &pipeline.Outcome{
				Context: &ResetPasswordContext{Email: result.Email, User: result.User},
				Resolve: func() {
					pipeline.JSON(w, http.StatusOK, map[string]string{"message": "Password changed."})
				},
			}, nil
		},
	}.Middleware()
}
