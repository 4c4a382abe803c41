package authflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func protectedProbe(t *testing.T) (http.Handler, *AuthResult) {
	t.Helper()
	captured := &AuthResult{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth, ok := AuthFromContext(r.Context())
		if !ok {
			t.Fatal("AuthFromContext empty inside protected handler")
		}
		*captured = *auth
		w.WriteHeader(http.StatusNoContent)
	})
	return handler, captured
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

func TestProtect(t *testing.T) {
	e := newTestEngine(t, newStubAdapter())
	reg := mustRegister(t, e, "member@example.com", "password-1")

	probe, captured := protectedProbe(t)
	handler := e.Protect()(probe)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, bearerRequest(reg.Token))

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if captured.UserID != reg.UserID || captured.Email != "member@example.com" || captured.Role != "user" {
		t.Fatalf("auth context = %+v", captured)
	}
	if _, leaked := captured.User["password"]; leaked {
		t.Fatal("password hash leaked into auth context")
	}
}

func TestProtectMissingToken(t *testing.T) {
	e := newTestEngine(t, newStubAdapter())

	handler := e.Protect()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler ran without a token")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, bearerRequest(""))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if msg := errorBody(t, w); msg != "Invalid auth token" {
		t.Fatalf("error = %q", msg)
	}
}

func TestProtectGarbageToken(t *testing.T) {
	e := newTestEngine(t, newStubAdapter())

	handler := e.Protect()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler ran with a garbage token")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, bearerRequest("not.a.jwt"))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

// A valid token with the wrong role is a 403, not a 401: the caller is
// authenticated, just not allowed.
func TestProtectRoleMismatch(t *testing.T) {
	e := newTestEngine(t, newStubAdapter())
	reg := mustRegister(t, e, "member@example.com", "password-1")

	handler := e.Protect("admin")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler ran despite missing role")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, bearerRequest(reg.Token))

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if msg := errorBody(t, w); msg != "Unauthorized (Missing permission)" {
		t.Fatalf("error = %q", msg)
	}
}

func TestProtectRoleMatch(t *testing.T) {
	e := newTestEngine(t, newStubAdapter())

	w := httptest.NewRecorder()
	reg, err := e.Register(context.Background(), w, RegisterRequest{Email: "root@example.com", Password: "password-1", Role: "admin"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	probe, captured := protectedProbe(t)
	handler := e.Protect("admin", "user")(probe)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, bearerRequest(reg.Token))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if captured.Role != "admin" {
		t.Fatalf("role = %q", captured.Role)
	}
}

func TestProtectCookieMethod(t *testing.T) {
	e := newTestEngine(t, newStubAdapter(), func(cfg *Config) {
		cfg.Token.Method = MethodCookie
	})

	w := httptest.NewRecorder()
	_, err := e.Register(context.Background(), w, RegisterRequest{Email: "cookie@example.com", Password: "password-1"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}

	probe, captured := protectedProbe(t)
	handler := e.Protect()(probe)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if captured.Email != "cookie@example.com" {
		t.Fatalf("auth context = %+v", captured)
	}
}
