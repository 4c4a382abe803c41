package authflow

import (
	"context"
	"errors"
	"testing"
)

func TestVerify(t *testing.T) {
	adapter := newStubAdapter()
	e := newTestEngine(t, adapter)
	reg := mustRegister(t, e, "verify@example.com", "password-1")

	result, err := e.Verify(context.Background(), VerifyRequest{
		Email: "verify@example.com",
		Code:  reg.VerificationCode,
	})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.User["verified"] != true {
		t.Fatalf("user payload = %v", result.User)
	}
	if verified := adapter.field(t, reg.UserID, "verified"); verified != true {
		t.Fatal("verified flag not persisted")
	}

	// Once verified, the flow rejects further attempts outright.
	_, err = e.Verify(context.Background(), VerifyRequest{
		Email: "verify@example.com",
		Code:  reg.VerificationCode,
	})
	if !errors.Is(err, ErrAlreadyVerified) {
		t.Fatalf("expected ErrAlreadyVerified, got %v", err)
	}
}

// A failed attempt must not burn the pending code.
func TestVerifyWrongCodeKeepsPending(t *testing.T) {
	e := newTestEngine(t, newStubAdapter())
	reg := mustRegister(t, e, "retry@example.com", "password-1")

	wrong := reg.VerificationCode + 1
	if wrong > 999999 {
		wrong = 100000
	}
	_, err := e.Verify(context.Background(), VerifyRequest{Email: "retry@example.com", Code: wrong})
	if !errors.Is(err, ErrInvalidVerificationCode) {
		t.Fatalf("expected ErrInvalidVerificationCode, got %v", err)
	}

	if _, err := e.Verify(context.Background(), VerifyRequest{Email: "retry@example.com", Code: reg.VerificationCode}); err != nil {
		t.Fatalf("correct code after failed attempt: %v", err)
	}
}

func TestVerifyUnknownEmail(t *testing.T) {
	e := newTestEngine(t, newStubAdapter())

	_, err := e.Verify(context.Background(), VerifyRequest{Email: "ghost@example.com", Code: 123456})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestVerifyDisabled(t *testing.T) {
	e := newTestEngine(t, newStubAdapter(), func(cfg *Config) {
		cfg.Verification.Enabled = false
	})
	mustRegister(t, e, "off@example.com", "password-1")

	_, err := e.Verify(context.Background(), VerifyRequest{Email: "off@example.com", Code: 123456})
	if !errors.Is(err, ErrVerificationDisabled) {
		t.Fatalf("expected ErrVerificationDisabled, got %v", err)
	}
}

// A resend replaces the pending code: the original stops working and the
// fresh one verifies.
func TestResendVerification(t *testing.T) {
	e := newTestEngine(t, newStubAdapter())
	reg := mustRegister(t, e, "resend@example.com", "password-1")

	resent, err := e.ResendVerification(context.Background(), bearerRequest(reg.Token))
	if err != nil {
		t.Fatalf("ResendVerification: %v", err)
	}
	if resent.UserID != reg.UserID || resent.Email != "resend@example.com" {
		t.Fatalf("resend result = %+v", resent)
	}

	if resent.VerificationCode != reg.VerificationCode {
		_, err = e.Verify(context.Background(), VerifyRequest{Email: "resend@example.com", Code: reg.VerificationCode})
		if !errors.Is(err, ErrInvalidVerificationCode) {
			t.Fatalf("stale code still accepted: %v", err)
		}
	}

	if _, err := e.Verify(context.Background(), VerifyRequest{Email: "resend@example.com", Code: resent.VerificationCode}); err != nil {
		t.Fatalf("fresh code rejected: %v", err)
	}
}

func TestResendVerificationAlreadyVerified(t *testing.T) {
	e := newTestEngine(t, newStubAdapter())
	reg := mustRegister(t, e, "done@example.com", "password-1")

	if _, err := e.Verify(context.Background(), VerifyRequest{Email: "done@example.com", Code: reg.VerificationCode}); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	_, err := e.ResendVerification(context.Background(), bearerRequest(reg.Token))
	if !errors.Is(err, ErrAlreadyVerified) {
		t.Fatalf("expected ErrAlreadyVerified, got %v", err)
	}
}

func TestResendVerificationRequiresToken(t *testing.T) {
	e := newTestEngine(t, newStubAdapter())
	mustRegister(t, e, "anon@example.com", "password-1")

	_, err := e.ResendVerification(context.Background(), bearerRequest(""))
	if err == nil {
		t.Fatal("expected auth failure without token")
	}
	status, _ := e.Classify(err)
	if status != 401 {
		t.Fatalf("status = %d, want 401", status)
	}
}
