package authflow

import (
	"context"
	"errors"
	"net/http"

	"github.com/MrEthical07/authflow/metrics"
)

// Login describes the login operation and its observable behavior.
//
// An unknown email and a wrong password fail identically with
// ErrInvalidCredentials; callers cannot tell which half was wrong, so the
// endpoint does not leak which addresses hold accounts. On success a token
// is issued through the configured method and the sanitized user record is
// returned with the password hash stripped.
func (e *Engine) Login(ctx context.Context, w http.ResponseWriter, req LoginRequest) (*LoginResult, error) {
	if e.adapter == nil || e.hasher == nil || e.issuer == nil {
		return nil, ErrEngineNotReady
	}

	if err := validatePayload(req); err != nil {
		return nil, err
	}

	user, err := e.lookupUser(ctx, UserFilter{Email: req.Email})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.metrics.Inc(metrics.LoginFailure)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := e.hasher.Verify(req.Password, user.passwordHash)
	if err != nil || !match {
		e.metrics.Inc(metrics.LoginFailure)
		return nil, ErrInvalidCredentials
	}

	tok, err := e.issuer.Issue(w, user.id)
	if err != nil {
		return nil, err
	}

	e.notify(ctx, MailOnLogin, user.raw, 0)
	e.metrics.Inc(metrics.LoginSuccess)
	return &LoginResult{Token: tok, User: sanitizeUser(user.raw)}, nil
}

// sanitizeUser returns a copy of the adapter document without credential
// material. The original map is never mutated; adapters may hand back
// references to their own storage.
func sanitizeUser(raw map[string]any) map[string]any {
	if raw == nil {
		return nil
	}
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == "password" {
			continue
		}
		out[k] = v
	}
	return out
}
