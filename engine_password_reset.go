package authflow

import (
	"context"
	"errors"

	"github.com/MrEthical07/authflow/codes"
	"github.com/MrEthical07/authflow/metrics"
)

// ForgotPassword describes the forgot-password operation and its observable
// behavior.
//
// Reset codes are keyed by email, replace any pending code for that address,
// and expire on the configured TTL. The code reaches the caller only through
// the mail notifier and the programmatic result; the default HTTP responder
// never echoes it.
func (e *Engine) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*ForgotPasswordResult, error) {
	if e.adapter == nil || e.resetCodes == nil {
		return nil, ErrEngineNotReady
	}

	if err := validatePayload(req); err != nil {
		return nil, err
	}

	user, err := e.lookupUser(ctx, UserFilter{Email: req.Email})
	if err != nil {
		return nil, err
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}
	if err := e.resetCodes.Set(ctx, user.email, code); err != nil {
		return nil, err
	}

	e.notify(ctx, MailOnForgotPassword, user.raw, code)
	e.metrics.Inc(metrics.ResetRequested)
	return &ForgotPasswordResult{User: sanitizeUser(user.raw), ResetCode: code}, nil
}

// ResetPassword describes the reset-password operation and its observable
// behavior.
//
// The code is consumed atomically before the password moves: a stale or
// wrong code fails without touching the stored hash, and a matched code
// cannot be replayed. The new password goes through the same hasher as
// registration.
func (e *Engine) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*ResetPasswordResult, error) {
	if e.adapter == nil || e.hasher == nil || e.resetCodes == nil {
		return nil, ErrEngineNotReady
	}

	if err := validatePayload(req); err != nil {
		return nil, err
	}

	user, err := e.lookupUser(ctx, UserFilter{Email: req.Email})
	if err != nil {
		return nil, err
	}

	if err := e.resetCodes.Consume(ctx, user.email, req.Code); err != nil {
		if errors.Is(err, codes.ErrNoMatch) {
			e.metrics.Inc(metrics.ResetFailure)
			return nil, ErrInvalidResetCode
		}
		return nil, err
	}

	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	updated, err := e.adapter.UpdateUser(ctx, user.id, map[string]any{"password": hash})
	if err != nil {
		return nil, err
	}
	fresh, err := userFromResult(updated)
	if err != nil {
		return nil, err
	}

	e.notify(ctx, MailOnPasswordChange, fresh.raw, 0)
	e.metrics.Inc(metrics.ResetSuccess)
	return &ResetPasswordResult{Email: fresh.email, User: sanitizeUser(fresh.raw)}, nil
}
