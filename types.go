package authflow

import (
	"context"

	"github.com/MrEthical07/authflow/mail"
)

// FlowResult is the canonical adapter response envelope. Status carries an
// HTTP-shaped code so the engine can branch on success (2xx) versus domain
// failure without inspecting error values.
type FlowResult struct {
	Status  int
	Message string
	Data    map[string]any
}

// OK reports whether the result carries a success status.
func (r *FlowResult) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// UserFilter selects a user by exactly one of ID or Email.
type UserFilter struct {
	ID    string
	Email string
}

// ErrorMatcher inspects an error and, when it recognizes it, supplies the
// (status, message) pair for the response. Matchers run in order; the first
// match wins.
type ErrorMatcher func(err error) (status int, message string, ok bool)

// CredentialAdapter is the persistence contract the engine calls through.
// Implementations own user storage entirely; the engine never stores a user
// record itself.
//
// AddUser must fail with [*DuplicateKeyError] (or an adapter-specific error
// recognized by one of its Handlers) when a uniqueness constraint is
// violated, naming the conflicting field(s). GetUser signals "not found"
// with a nil result and nil error, or with a non-2xx Status; the engine
// treats both identically. UpdateUser applies partial updates: only the
// supplied fields change.
type CredentialAdapter interface {
	AddUser(ctx context.Context, fields map[string]any) (*FlowResult, error)
	GetUser(ctx context.Context, filter UserFilter) (*FlowResult, error)
	UpdateUser(ctx context.Context, id string, update map[string]any) (*FlowResult, error)

	// Handlers returns adapter-specific error matchers (e.g. translating a
	// storage-engine duplicate-key error). They are appended to the engine's
	// classifier chain after the validation matcher.
	Handlers() []ErrorMatcher
}

// MailEvent identifies which flow outcome triggered a notification.
type MailEvent string

const (
	// MailOnRegister is an exported constant or variable used by the authentication engine.
	MailOnRegister MailEvent = "onRegister"
	// MailOnLogin is an exported constant or variable used by the authentication engine.
	MailOnLogin MailEvent = "onLogin"
	// MailOnForgotPassword is an exported constant or variable used by the authentication engine.
	MailOnForgotPassword MailEvent = "onForgotPassword"
	// MailOnPasswordChange is an exported constant or variable used by the authentication engine.
	MailOnPasswordChange MailEvent = "onPasswordChange"
	// MailOnVerificationSuccess is an exported constant or variable used by the authentication engine.
	MailOnVerificationSuccess MailEvent = "onVerificationSuccess"
	// MailOnVerificationResend is an exported constant or variable used by the authentication engine.
	MailOnVerificationResend MailEvent = "onVerificationResend"
)

// MailContext is handed to a [MailTrigger] so the caller can compose the
// outgoing message. Code is zero for events that carry no code (login,
// password change).
type MailContext struct {
	User map[string]any
	Code int
}

// MailTrigger builds the message for one [MailEvent]. Returning nil skips
// the send. Events without a registered trigger send nothing.
type MailTrigger func(ctx MailContext) *mail.Message

// RegisterRequest is the payload for [Engine.Register]. Role is set by the
// route configuration, never by the client payload; Extra carries arbitrary
// provider metadata persisted alongside the credential fields.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`

	Role  string         `json:"-"`
	Extra map[string]any `json:"-"`
}

// RegisterResult is returned by [Engine.Register]. VerificationCode is
// exposed for callback consumers only; the default HTTP response never
// includes it.
type RegisterResult struct {
	Token            string
	Email            string
	UserID           string
	VerificationCode int
}

// LoginRequest is the payload for [Engine.Login].
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned by [Engine.Login]. Token is empty in cookie mode,
// where the carrier is written as a Set-Cookie header instead.
type LoginResult struct {
	Token string
	User  map[string]any
}

// VerifyRequest is the payload for [Engine.Verify].
type VerifyRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  int    `json:"code" validate:"required"`
}

// VerifyResult is returned by [Engine.Verify].
type VerifyResult struct {
	User map[string]any
}

// ResendResult is returned by [Engine.ResendVerification]. The code is for
// callback consumers only, never for the default HTTP response body.
type ResendResult struct {
	UserID           string
	Email            string
	VerificationCode int
}

// ForgotPasswordRequest is the payload for [Engine.ForgotPassword].
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPasswordResult is returned by [Engine.ForgotPassword]. ResetCode is
// exposed for callback consumers only.
type ForgotPasswordResult struct {
	User      map[string]any
	ResetCode int
}

// ResetPasswordRequest is the payload for [Engine.ResetPassword].
type ResetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Code     int    `json:"code" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// ResetPasswordResult is returned by [Engine.ResetPassword].
type ResetPasswordResult struct {
	Email string
	User  map[string]any
}

// AuthResult is attached to the request context by [Engine.Protect] after a
// successful authentication and role check.
type AuthResult struct {
	UserID string
	Email  string
	Role   string
	User   map[string]any
}

// userRecord is the engine's read-side view of an adapter result.
type userRecord struct {
	id           string
	email        string
	passwordHash string
	role         string
	verified     bool
	raw          map[string]any
}
