package authflow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/MrEthical07/authflow/codes"
	"github.com/MrEthical07/authflow/mail"
	"github.com/MrEthical07/authflow/metrics"
	"github.com/MrEthical07/authflow/password"
	"github.com/MrEthical07/authflow/token"
)

// Engine defines a public type used by authflow APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config     Config
	adapter    CredentialAdapter
	issuer     *token.Issuer
	hasher     password.Hasher
	notifier   mail.Notifier
	classifier *Classifier
	metrics    *metrics.Metrics
	logger     *slog.Logger

	// verifications and resetCodes are separate purposes with separate
	// namespaces; a registration code never validates as a reset code.
	verifications codes.Store
	resetCodes    codes.Store

	mu       sync.RWMutex
	triggers map[MailEvent]MailTrigger

	closers []func()
}

// Close describes the close operation and its observable behavior.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	for _, closeFn := range e.closers {
		closeFn()
	}
}

// AddTrigger registers the mail-composition callback for one event. Events
// without a trigger send no mail. Safe for concurrent use, though triggers
// are normally registered once during wiring.
func (e *Engine) AddTrigger(event MailEvent, trigger MailTrigger) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.triggers[event] = trigger
}

// Classify maps a flow error through the engine's classifier chain.
func (e *Engine) Classify(err error) (int, string) {
	return e.classifier.Classify(err)
}

// MetricsSnapshot returns a point-in-time copy of all flow counters.
func (e *Engine) MetricsSnapshot() map[string]uint64 {
	return e.metrics.Snapshot()
}

// MetricsCollector returns a Prometheus collector over the engine's flow
// counters for mounting on a caller-owned registry.
func (e *Engine) MetricsCollector() *metrics.Collector {
	return metrics.NewCollector(e.metrics)
}

// Authenticate validates the request's token carrier and returns its claims.
func (e *Engine) Authenticate(r *http.Request) (*token.Claims, error) {
	if e.issuer == nil {
		return nil, ErrEngineNotReady
	}
	return e.issuer.Validate(r)
}

// notify sends the mail for one flow event, best-effort. Failures are
// logged and counted, never propagated: by the time a notification fires
// the primary adapter mutation has already committed.
func (e *Engine) notify(ctx context.Context, event MailEvent, user map[string]any, code int) {
	e.mu.RLock()
	trigger, ok := e.triggers[event]
	e.mu.RUnlock()
	if !ok || trigger == nil || e.notifier == nil {
		return
	}

	msg := trigger(MailContext{User: user, Code: code})
	if msg == nil {
		return
	}

	if err := e.notifier.Send(ctx, *msg); err != nil {
		e.metrics.Inc(metrics.MailSendFailure)
		e.logger.Error("mail send failed",
			"event", string(event),
			"to", msg.To,
			"err", err,
		)
	}
}

// lookupUser resolves a filter through the adapter. A nil result and a
// non-2xx status are both "not found", independent of the underlying cause.
func (e *Engine) lookupUser(ctx context.Context, filter UserFilter) (*userRecord, error) {
	result, err := e.adapter.GetUser(ctx, filter)
	if err != nil {
		return nil, err
	}
	if !result.OK() {
		return nil, ErrUserNotFound
	}
	return userFromResult(result)
}

func userFromResult(result *FlowResult) (*userRecord, error) {
	if result == nil || result.Data == nil {
		return nil, fmt.Errorf("%w: missing data", ErrAdapterResult)
	}

	record := &userRecord{raw: result.Data}

	id, ok := stringField(result.Data, "id")
	if !ok {
		// Document-store adapters surface the primary key as _id.
		id, ok = stringField(result.Data, "_id")
	}
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrAdapterResult)
	}
	record.id = id

	record.email, _ = stringField(result.Data, "email")
	record.passwordHash, _ = stringField(result.Data, "password")
	record.role, _ = stringField(result.Data, "role")
	if verified, ok := result.Data["verified"].(bool); ok {
		record.verified = verified
	}

	return record, nil
}

func stringField(data map[string]any, key string) (string, bool) {
	v, ok := data[key].(string)
	return v, ok
}

// generateCode returns a uniformly random 6-digit code in [100000, 999999].
func generateCode() (int, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	n := binary.BigEndian.Uint64(buf[:]) % 900000
	return int(n) + 100000, nil
}
