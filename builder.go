package authflow

import (
	"errors"
	"log/slog"

	"github.com/MrEthical07/authflow/codes"
	"github.com/MrEthical07/authflow/mail"
	"github.com/MrEthical07/authflow/metrics"
	"github.com/MrEthical07/authflow/password"
	"github.com/MrEthical07/authflow/token"
	"github.com/redis/go-redis/v9"
)

const (
	verificationKeyPrefix = "afv"
	resetKeyPrefix        = "afr"
)

// Builder defines a public type used by authflow APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config   Config
	adapter  CredentialAdapter
	notifier mail.Notifier
	redis    *redis.Client
	logger   *slog.Logger

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithAdapter supplies the persistence adapter. Required.
func (b *Builder) WithAdapter(adapter CredentialAdapter) *Builder {
	b.adapter = adapter
	return b
}

// WithNotifier supplies the mail transport. Defaults to [mail.LogNotifier].
func (b *Builder) WithNotifier(notifier mail.Notifier) *Builder {
	b.notifier = notifier
	return b
}

// WithRedis switches the verification and reset code stores to Redis for
// multi-instance deployments. Without it the engine uses per-instance
// in-memory stores.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := normalizeConfig(b.config)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if b.adapter == nil {
		return nil, errors.New("credential adapter required")
	}

	issuer, err := token.New(token.Config{
		Method:    cfg.Token.Method,
		Secret:    cfg.Token.Secret,
		BearerTTL: cfg.Token.BearerTTL,
		Issuer:    cfg.Token.Issuer,
		Cookie:    cfg.Token.Cookie,
	})
	if err != nil {
		return nil, err
	}

	hasher, err := password.NewArgon2(cfg.Password)
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	notifier := b.notifier
	if notifier == nil {
		notifier = mail.NewLogNotifier(logger)
	}

	engine := &Engine{
		config:     cfg,
		adapter:    b.adapter,
		issuer:     issuer,
		hasher:     hasher,
		notifier:   notifier,
		classifier: newClassifier(b.adapter.Handlers()),
		metrics:    metrics.New(cfg.Metrics.Enabled),
		logger:     logger,
		triggers:   make(map[MailEvent]MailTrigger),
	}

	if b.redis != nil {
		engine.verifications = codes.NewRedisStore(b.redis, verificationKeyPrefix, cfg.Verification.CodeTTL)
		engine.resetCodes = codes.NewRedisStore(b.redis, resetKeyPrefix, cfg.Reset.CodeTTL)
	} else {
		verifications := codes.NewMemoryStore(cfg.Verification.CodeTTL)
		resetCodes := codes.NewMemoryStore(cfg.Reset.CodeTTL)
		engine.verifications = verifications
		engine.resetCodes = resetCodes
		engine.closers = append(engine.closers, verifications.Close, resetCodes.Close)
	}

	b.built = true
	return engine, nil
}
