package authflow

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
)

func TestLogin(t *testing.T) {
	e := newTestEngine(t, newStubAdapter())
	mustRegister(t, e, "login@example.com", "password-1")

	result, err := e.Login(context.Background(), httptest.NewRecorder(), LoginRequest{
		Email:    "login@example.com",
		Password: "password-1",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected issued token")
	}
	if result.User["email"] != "login@example.com" {
		t.Fatalf("user payload = %v", result.User)
	}
	if _, leaked := result.User["password"]; leaked {
		t.Fatal("password hash leaked into login result")
	}
}

// A wrong password and an unknown email must be indistinguishable to the
// caller, so the endpoint cannot be used to probe which addresses exist.
func TestLoginFailureIsUniform(t *testing.T) {
	e := newTestEngine(t, newStubAdapter())
	mustRegister(t, e, "known@example.com", "password-1")

	_, wrongPassword := e.Login(context.Background(), httptest.NewRecorder(), LoginRequest{
		Email:    "known@example.com",
		Password: "password-wrong",
	})
	_, unknownEmail := e.Login(context.Background(), httptest.NewRecorder(), LoginRequest{
		Email:    "unknown@example.com",
		Password: "password-1",
	})

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Fatalf("unknown email: %v", unknownEmail)
	}

	s1, m1 := e.Classify(wrongPassword)
	s2, m2 := e.Classify(unknownEmail)
	if s1 != s2 || m1 != m2 {
		t.Fatalf("responses differ: (%d %q) vs (%d %q)", s1, m1, s2, m2)
	}
	if s1 != 401 {
		t.Fatalf("status = %d, want 401", s1)
	}
}

func TestLoginCookieMethod(t *testing.T) {
	e := newTestEngine(t, newStubAdapter(), func(cfg *Config) {
		cfg.Token.Method = MethodCookie
	})

	w := httptest.NewRecorder()
	_, err := e.Register(context.Background(), w, RegisterRequest{
		Email:    "cookie@example.com",
		Password: "password-1",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	w = httptest.NewRecorder()
	result, err := e.Login(context.Background(), w, LoginRequest{
		Email:    "cookie@example.com",
		Password: "password-1",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token != "" {
		t.Fatalf("cookie mode returned bearer token %q", result.Token)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != "_auth_afw" {
		t.Fatalf("cookie name = %q", c.Name)
	}
	if !c.HttpOnly || !c.Secure {
		t.Fatal("cookie must be httpOnly and secure")
	}
}
