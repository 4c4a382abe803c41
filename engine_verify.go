package authflow

import (
	"context"
	"errors"
	"net/http"

	"github.com/MrEthical07/authflow/codes"
	"github.com/MrEthical07/authflow/metrics"
)

// Verify describes the verify operation and its observable behavior.
//
// The submitted code is consumed atomically: it either matches the single
// pending code for the account and is deleted in the same step, or the flow
// fails and the pending code survives for another attempt until its TTL.
// A matched code flips the adapter's verified flag before anything is
// reported back.
func (e *Engine) Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	if e.adapter == nil || e.verifications == nil {
		return nil, ErrEngineNotReady
	}
	if !e.config.Verification.Enabled {
		return nil, ErrVerificationDisabled
	}

	if err := validatePayload(req); err != nil {
		return nil, err
	}

	user, err := e.lookupUser(ctx, UserFilter{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user.verified {
		return nil, ErrAlreadyVerified
	}

	if err := e.verifications.Consume(ctx, user.id, req.Code); err != nil {
		if errors.Is(err, codes.ErrNoMatch) {
			e.metrics.Inc(metrics.VerifyFailure)
			return nil, ErrInvalidVerificationCode
		}
		return nil, err
	}

	updated, err := e.adapter.UpdateUser(ctx, user.id, map[string]any{"verified": true})
	if err != nil {
		return nil, err
	}
	fresh, err := userFromResult(updated)
	if err != nil {
		return nil, err
	}

	e.notify(ctx, MailOnVerificationSuccess, fresh.raw, 0)
	e.metrics.Inc(metrics.VerifySuccess)
	return &VerifyResult{User: sanitizeUser(fresh.raw)}, nil
}

// ResendVerification describes the resend-verification operation and its
// observable behavior.
//
// The caller is identified by their auth token, not by a request body;
// only the account holder can ask for a fresh code. Issuing a new code
// replaces any pending one, so exactly one code is live per account. An
// already-verified account is rejected before a code is generated.
func (e *Engine) ResendVerification(ctx context.Context, r *http.Request) (*ResendResult, error) {
	if e.adapter == nil || e.verifications == nil {
		return nil, ErrEngineNotReady
	}
	if !e.config.Verification.Enabled {
		return nil, ErrVerificationDisabled
	}

	claims, err := e.Authenticate(r)
	if err != nil {
		e.metrics.Inc(metrics.TokenRejected)
		return nil, err
	}

	user, err := e.lookupUser(ctx, UserFilter{ID: claims.ID})
	if err != nil {
		return nil, err
	}
	if user.verified {
		return nil, ErrAlreadyVerified
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}
	if err := e.verifications.Set(ctx, user.id, code); err != nil {
		return nil, err
	}

	e.notify(ctx, MailOnVerificationResend, user.raw, code)
	e.metrics.Inc(metrics.VerificationResent)
	return &ResendResult{UserID: user.id, Email: user.email, VerificationCode: code}, nil
}
