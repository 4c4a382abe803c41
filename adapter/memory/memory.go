// Package memory provides a map-backed [authflow.CredentialAdapter] for
// tests, examples and prototypes. Records live for the lifetime of the
// process; nothing is persisted.
package memory

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/MrEthical07/authflow"
)

// ErrConflict is the storage-level uniqueness error this adapter emits. Its
// matcher translates it to the canonical duplicate-key response, the same
// way a database adapter would translate its driver's error type.
var ErrConflict = errors.New("memory: unique index violation")

// Adapter defines a public type used by authflow APIs.
//
// Adapter instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Adapter struct {
	mu      sync.RWMutex
	users   map[string]map[string]any
	byEmail map[string]string
}

// New returns an empty adapter.
func New() *Adapter {
	return &Adapter{
		users:   make(map[string]map[string]any),
		byEmail: make(map[string]string),
	}
}

// AddUser describes the add-user operation and its observable behavior.
//
// The email field is a unique index; inserting a taken address fails with
// [ErrConflict] wrapping the field name, and no record is written.
func (a *Adapter) AddUser(ctx context.Context, fields map[string]any) (*authflow.FlowResult, error) {
	email, _ := fields["email"].(string)
	email = strings.ToLower(email)

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, taken := a.byEmail[email]; taken {
		return nil, wrapConflict("email")
	}

	id := uuid.NewString()
	record := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		record[k] = v
	}
	record["id"] = id
	record["email"] = email

	a.users[id] = record
	a.byEmail[email] = id

	return &authflow.FlowResult{
		Status:  http.StatusCreated,
		Message: "User created",
		Data:    copyRecord(record),
	}, nil
}

// GetUser describes the get-user operation and its observable behavior.
func (a *Adapter) GetUser(ctx context.Context, filter authflow.UserFilter) (*authflow.FlowResult, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	id := filter.ID
	if id == "" {
		id = a.byEmail[strings.ToLower(filter.Email)]
	}
	record, ok := a.users[id]
	if !ok {
		return &authflow.FlowResult{Status: http.StatusNotFound, Message: "User not found"}, nil
	}

	return &authflow.FlowResult{
		Status:  http.StatusOK,
		Message: "User found",
		Data:    copyRecord(record),
	}, nil
}

// UpdateUser describes the update-user operation and its observable behavior.
//
// Only the supplied fields change. The id field cannot be overwritten, and
// changing the email re-points the unique index.
func (a *Adapter) UpdateUser(ctx context.Context, id string, update map[string]any) (*authflow.FlowResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	record, ok := a.users[id]
	if !ok {
		return &authflow.FlowResult{Status: http.StatusNotFound, Message: "User not found"}, nil
	}

	if next, ok := update["email"].(string); ok {
		next = strings.ToLower(next)
		prev, _ := record["email"].(string)
		if next != prev {
			if _, taken := a.byEmail[next]; taken {
				return nil, wrapConflict("email")
			}
			delete(a.byEmail, prev)
			a.byEmail[next] = id
		}
	}

	for k, v := range update {
		if k == "id" {
			continue
		}
		if s, ok := v.(string); ok && k == "email" {
			record[k] = strings.ToLower(s)
			continue
		}
		record[k] = v
	}

	return &authflow.FlowResult{
		Status:  http.StatusOK,
		Message: "User updated",
		Data:    copyRecord(record),
	}, nil
}

// Handlers describes the handlers operation and its observable behavior.
func (a *Adapter) Handlers() []authflow.ErrorMatcher {
	return []authflow.ErrorMatcher{
		func(err error) (int, string, bool) {
			if !errors.Is(err, ErrConflict) {
				return 0, "", false
			}
			dup := &authflow.DuplicateKeyError{Fields: conflictFields(err)}
			return http.StatusBadRequest, dup.Error(), true
		},
	}
}

type conflictError struct {
	fields []string
}

func (e *conflictError) Error() string {
	return ErrConflict.Error() + ": " + strings.Join(e.fields, ", ")
}

func (e *conflictError) Unwrap() error { return ErrConflict }

func wrapConflict(fields ...string) error {
	return &conflictError{fields: fields}
}

func conflictFields(err error) []string {
	var conflict *conflictError
	if errors.As(err, &conflict) {
		return conflict.fields
	}
	return nil
}

func copyRecord(record map[string]any) map[string]any {
	out := make(map[string]any, len(record))
	for k, v := range record {
		out[k] = v
	}
	return out
}
