package authflow

import (
	"context"
	"net/http"

	"github.com/MrEthical07/authflow/metrics"
)

// Register describes the register operation and its observable behavior.
//
// The password is hashed before the adapter sees it; the plaintext is never
// persisted. When verification is enabled a 6-digit code is stored under the
// new user's id before any notification fires, so a verify request racing
// the registration response always sees the code. A uniqueness violation
// from the adapter aborts the flow with the conflicting field name(s); no
// second user record exists afterwards.
func (e *Engine) Register(ctx context.Context, w http.ResponseWriter, req RegisterRequest) (*RegisterResult, error) {
	if e.adapter == nil || e.hasher == nil || e.issuer == nil {
		return nil, ErrEngineNotReady
	}

	if err := validatePayload(req); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = e.config.Roles.Default
	}
	if !roleAllowed(e.config.Roles.Allowed, role) {
		return nil, &ValidationError{Fields: []FieldError{{Field: "role", Constraint: "is not an allowed role"}}}
	}

	passwordHash, err := e.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]any, len(req.Extra)+4)
	for k, v := range req.Extra {
		fields[k] = v
	}
	fields["email"] = req.Email
	fields["password"] = passwordHash
	fields["role"] = role
	fields["verified"] = false

	created, err := e.adapter.AddUser(ctx, fields)
	if err != nil {
		e.metrics.Inc(metrics.RegisterDuplicate)
		return nil, err
	}

	user, err := userFromResult(created)
	if err != nil {
		return nil, err
	}

	tok, err := e.issuer.Issue(w, user.id)
	if err != nil {
		return nil, err
	}

	result := &RegisterResult{
		Token:  tok,
		Email:  user.email,
		UserID: user.id,
	}
	if result.Email == "" {
		result.Email = req.Email
	}

	if e.config.Verification.Enabled {
		code, err := generateCode()
		if err != nil {
			return nil, err
		}
		if err := e.verifications.Set(ctx, user.id, code); err != nil {
			// The account exists and the token is issued; a failed code
			// write must not unwind that. The user can request a resend.
			e.logger.Error("verification code store failed", "user", user.id, "err", err)
		} else {
			result.VerificationCode = code
			e.notify(ctx, MailOnRegister, user.raw, code)
		}
	}

	e.metrics.Inc(metrics.RegisterSuccess)
	return result, nil
}
