package authflow

import (
	"errors"
	"time"

	"github.com/MrEthical07/authflow/password"
	"github.com/MrEthical07/authflow/token"
)

// ValidationMethod selects the token carrier: [MethodBearer] or
// [MethodCookie].
type ValidationMethod = token.Method

const (
	// MethodBearer is an exported constant or variable used by the authentication engine.
	MethodBearer = token.MethodBearer
	// MethodCookie is an exported constant or variable used by the authentication engine.
	MethodCookie = token.MethodCookie
)

// CookieConfig re-exports the signed-cookie attribute overrides.
type CookieConfig = token.CookieConfig

// Config defines a public type used by authflow APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Roles        RoleConfig
	Token        TokenConfig
	Verification VerificationConfig
	Reset        ResetConfig
	Password     password.Config
	Metrics      MetricsConfig
}

/*
====================================
ROLE CONFIG
====================================
*/

// RoleConfig defines a public type used by authflow APIs.
//
// RoleConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RoleConfig struct {
	// Allowed is the closed set of roles the engine will assign or accept.
	Allowed []string
	// Default is assigned to registrations whose route does not set a role.
	// Defaults to the first allowed role.
	Default string
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by authflow APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	Method    ValidationMethod
	Secret    []byte
	BearerTTL time.Duration
	Issuer    string
	Cookie    CookieConfig
}

/*
====================================
VERIFICATION / RESET CONFIG
====================================
*/

// VerificationConfig defines a public type used by authflow APIs.
//
// VerificationConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type VerificationConfig struct {
	Enabled bool
	CodeTTL time.Duration
}

// ResetConfig defines a public type used by authflow APIs.
//
// ResetConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ResetConfig struct {
	CodeTTL time.Duration
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by authflow APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the engine defaults: bearer tokens with a 24h TTL,
// verification enabled with 5-minute codes, 5-minute reset codes, and
// interactive argon2id parameters.
func DefaultConfig() Config {
	return Config{
		Roles: RoleConfig{
			Allowed: []string{"user"},
		},
		Token: TokenConfig{
			Method:    MethodBearer,
			BearerTTL: 24 * time.Hour,
		},
		Verification: VerificationConfig{
			Enabled: true,
			CodeTTL: 5 * time.Minute,
		},
		Reset: ResetConfig{
			CodeTTL: 5 * time.Minute,
		},
		Password: password.DefaultConfig(),
		Metrics:  MetricsConfig{Enabled: true},
	}
}

func normalizeConfig(cfg Config) Config {
	if cfg.Roles.Default == "" && len(cfg.Roles.Allowed) > 0 {
		cfg.Roles.Default = cfg.Roles.Allowed[0]
	}
	if cfg.Token.BearerTTL <= 0 {
		cfg.Token.BearerTTL = 24 * time.Hour
	}
	if cfg.Verification.CodeTTL <= 0 {
		cfg.Verification.CodeTTL = 5 * time.Minute
	}
	if cfg.Reset.CodeTTL <= 0 {
		cfg.Reset.CodeTTL = 5 * time.Minute
	}
	if cfg.Password == (password.Config{}) {
		cfg.Password = password.DefaultConfig()
	}
	return cfg
}

func validateConfig(cfg Config) error {
	if len(cfg.Token.Secret) < 16 {
		return errors.New("token secret must be at least 16 bytes")
	}
	if len(cfg.Roles.Allowed) == 0 {
		return errors.New("at least one role required")
	}
	if !roleAllowed(cfg.Roles.Allowed, cfg.Roles.Default) {
		return errors.New("default role must be in the allowed set")
	}
	return nil
}

func roleAllowed(allowed []string, role string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
