package authflow

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/authflow/password"
)

// stubAdapter is a minimal in-process CredentialAdapter for engine tests.
// Ids are deterministic ("user-1", "user-2", ...) so assertions can name
// them directly.
type stubAdapter struct {
	mu      sync.Mutex
	seq     int
	users   map[string]map[string]any
	byEmail map[string]string

	addErr   error
	matchers []ErrorMatcher
}

func newStubAdapter() *stubAdapter {
	return &stubAdapter{
		users:   make(map[string]map[string]any),
		byEmail: make(map[string]string),
	}
}

func (s *stubAdapter) AddUser(ctx context.Context, fields map[string]any) (*FlowResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.addErr != nil {
		return nil, s.addErr
	}

	email, _ := fields["email"].(string)
	if _, taken := s.byEmail[email]; taken {
		return nil, &DuplicateKeyError{Fields: []string{"email"}}
	}

	s.seq++
	id := fmt.Sprintf("user-%d", s.seq)
	record := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		record[k] = v
	}
	record["id"] = id

	s.users[id] = record
	s.byEmail[email] = id
	return &FlowResult{Status: http.StatusCreated, Message: "User created", Data: record}, nil
}

func (s *stubAdapter) GetUser(ctx context.Context, filter UserFilter) (*FlowResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := filter.ID
	if id == "" {
		id = s.byEmail[filter.Email]
	}
	record, ok := s.users[id]
	if !ok {
		return &FlowResult{Status: http.StatusNotFound, Message: "User not found"}, nil
	}
	return &FlowResult{Status: http.StatusOK, Message: "User found", Data: record}, nil
}

func (s *stubAdapter) UpdateUser(ctx context.Context, id string, update map[string]any) (*FlowResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.users[id]
	if !ok {
		return &FlowResult{Status: http.StatusNotFound, Message: "User not found"}, nil
	}
	for k, v := range update {
		record[k] = v
	}
	return &FlowResult{Status: http.StatusOK, Message: "User updated", Data: record}, nil
}

func (s *stubAdapter) Handlers() []ErrorMatcher {
	return s.matchers
}

// field reads one stored user field, bypassing the engine.
func (s *stubAdapter) field(t *testing.T, id, key string) any {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.users[id]
	if !ok {
		t.Fatalf("no stored user %q", id)
	}
	return record[key]
}

// testConfig keeps argon2 at its floor parameters so hashing stays cheap.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Token.Secret = []byte("0123456789abcdef")
	cfg.Token.BearerTTL = time.Hour
	cfg.Roles.Allowed = []string{"user", "admin"}
	cfg.Password = password.Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	}
	return cfg
}

func newTestEngine(t *testing.T, adapter *stubAdapter, mutate ...func(*Config)) *Engine {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	engine, err := New().WithConfig(cfg).WithAdapter(adapter).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func mustRegister(t *testing.T, e *Engine, email, pass string) *RegisterResult {
	t.Helper()
	result, err := e.Register(context.Background(), httptest.NewRecorder(), RegisterRequest{Email: email, Password: pass})
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	return result
}

func bearerRequest(token string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}
