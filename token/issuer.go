package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Method defines a public type used by authflow APIs.
//
// Method instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Method uint8

const (
	// MethodBearer is an exported constant or variable used by the authentication engine.
	MethodBearer Method = iota
	// MethodCookie is an exported constant or variable used by the authentication engine.
	MethodCookie
)

const (
	defaultCookieName = "_auth_afw"
	defaultBearerTTL  = 24 * time.Hour
	defaultCookieTTL  = 7 * 24 * time.Hour
)

var (
	// ErrNoToken is an exported constant or variable used by the authentication engine.
	ErrNoToken = errors.New("auth token missing")
	// ErrTokenInvalid is an exported constant or variable used by the authentication engine.
	ErrTokenInvalid = errors.New("auth token invalid")
	// ErrTokenExpired is an exported constant or variable used by the authentication engine.
	ErrTokenExpired = errors.New("auth token expired")
)

// Claims is the identity payload bound to an issued token or signed cookie.
type Claims struct {
	ID        string `json:"id"`
	ExpiresAt int64  `json:"exp"`
}

// CookieConfig overrides the signed-cookie attributes written by
// [Issuer.Issue] in [MethodCookie] mode. Zero values fall back to the
// defaults: name "_auth_afw", path "/", SameSite=None, Secure, httpOnly,
// 7-day expiry.
type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	TTL      time.Duration
	SameSite http.SameSite
}

// Config defines a public type used by authflow APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Method    Method
	Secret    []byte
	BearerTTL time.Duration
	Issuer    string
	Cookie    CookieConfig
}

// Issuer defines a public type used by authflow APIs.
//
// Issuer instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Issuer struct {
	config Config
}

type accessClaims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New(cfg Config) (*Issuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret required")
	}
	if cfg.Method != MethodBearer && cfg.Method != MethodCookie {
		return nil, errors.New("unsupported token method")
	}
	if cfg.BearerTTL <= 0 {
		cfg.BearerTTL = defaultBearerTTL
	}
	if cfg.Cookie.Name == "" {
		cfg.Cookie.Name = defaultCookieName
	}
	if cfg.Cookie.Path == "" {
		cfg.Cookie.Path = "/"
	}
	if cfg.Cookie.TTL <= 0 {
		cfg.Cookie.TTL = defaultCookieTTL
	}
	if cfg.Cookie.SameSite == 0 {
		cfg.Cookie.SameSite = http.SameSiteNoneMode
	}

	return &Issuer{config: cfg}, nil
}

// Method reports the configured carrier method.
func (i *Issuer) Method() Method {
	return i.config.Method
}

// Issue describes the issue operation and its observable behavior.
//
// In [MethodBearer] mode it returns the signed token string and leaves the
// ResponseWriter untouched; the caller transmits the token in the response
// body. In [MethodCookie] mode it writes a Set-Cookie header carrying the
// signed claim and returns an empty string.
func (i *Issuer) Issue(w http.ResponseWriter, id string) (string, error) {
	switch i.config.Method {
	case MethodCookie:
		return "", i.issueCookie(w, id)
	default:
		return i.issueBearer(id)
	}
}

// Validate describes the validate operation and its observable behavior.
//
// Validate fails with [ErrNoToken] when the carrier is absent,
// [ErrTokenExpired] when it carries a past expiry, and [ErrTokenInvalid] for
// any malformed or badly signed carrier.
func (i *Issuer) Validate(r *http.Request) (*Claims, error) {
	switch i.config.Method {
	case MethodCookie:
		return i.validateCookie(r)
	default:
		return i.validateBearer(r)
	}
}

func (i *Issuer) issueBearer(id string) (string, error) {
	now := time.Now()
	claims := accessClaims{
		UID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.config.BearerTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    i.config.Issuer,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.config.Secret)
}

func (i *Issuer) validateBearer(r *http.Request) (*Claims, error) {
	raw, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return nil, ErrNoToken
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if i.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(i.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(raw, &accessClaims{}, func(*jwt.Token) (interface{}, error) {
		return i.config.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid || claims.UID == "" {
		return nil, ErrTokenInvalid
	}

	out := &Claims{ID: claims.UID}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return out, nil
}

func (i *Issuer) issueCookie(w http.ResponseWriter, id string) error {
	expires := time.Now().Add(i.config.Cookie.TTL)
	payload, err := json.Marshal(Claims{ID: id, ExpiresAt: expires.Unix()})
	if err != nil {
		return err
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	value := encoded + "." + i.sign(encoded)

	http.SetCookie(w, &http.Cookie{
		Name:     i.config.Cookie.Name,
		Value:    value,
		Path:     i.config.Cookie.Path,
		Domain:   i.config.Cookie.Domain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: i.config.Cookie.SameSite,
	})

	return nil
}

func (i *Issuer) validateCookie(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(i.config.Cookie.Name)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoToken
	}

	encoded, tag, ok := strings.Cut(cookie.Value, ".")
	if !ok {
		return nil, ErrTokenInvalid
	}
	if subtle.ConstantTimeCompare([]byte(tag), []byte(i.sign(encoded))) != 1 {
		return nil, ErrTokenInvalid
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrTokenInvalid
	}
	if claims.ID == "" {
		return nil, ErrTokenInvalid
	}
	if time.Now().Unix() > claims.ExpiresAt {
		return nil, ErrTokenExpired
	}

	return &claims, nil
}

func (i *Issuer) sign(encoded string) string {
	mac := hmac.New(sha256.New, i.config.Secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	tok := value[len(bearer):]
	if tok == "" {
		return "", false
	}

	return tok, true
}
