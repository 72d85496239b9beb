package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Token failure kinds. They never leave the request filter.
var (
	ErrMalformed        = errors.New("token malformed")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
	ErrSubjectMismatch  = errors.New("token subject mismatch")
	ErrWeakSigningKey   = errors.New("signing key shorter than 256 bits")
)

// SigningKey is the HMAC key derived once from the configured secret.
type SigningKey struct {
	method *jwt.SigningMethodHMAC
	key    []byte
}

// NewSigningKey decodes base64 key material and picks the strongest HMAC-SHA
// algorithm the key length allows.
func NewSigningKey(encoded string) (SigningKey, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return SigningKey{}, fmt.Errorf("decode signing secret: %w", err)
		}
	}

	var method *jwt.SigningMethodHMAC
	switch bits := len(raw) * 8; {
	case bits >= 512:
		method = jwt.SigningMethodHS512
	case bits >= 384:
		method = jwt.SigningMethodHS384
	case bits >= 256:
		method = jwt.SigningMethodHS256
	default:
		return SigningKey{}, ErrWeakSigningKey
	}
	return SigningKey{method: method, key: raw}, nil
}

// Algorithm returns the JWS alg header value.
func (k SigningKey) Algorithm() string {
	if k.method == nil {
		return ""
	}
	return k.method.Alg()
}

// TokenManager issues and verifies signed identity tokens.
type TokenManager struct {
	key    SigningKey
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		tm.now = now
	}
}

// NewTokenManager builds a new manager. ttl is the default validity window.
func NewTokenManager(key SigningKey, ttl time.Duration, opts ...TokenOption) *TokenManager {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	tm := &TokenManager{
		key: key,
		ttl: ttl,
		now: time.Now,
		// expiry is checked by Check, not by the parser
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{key.Algorithm()}),
			jwt.WithoutClaimsValidation(),
		),
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// TTL returns the default validity window.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue signs a token for subject. Registered claims override entries in claims.
func (tm *TokenManager) Issue(subject string, claims map[string]any, validity time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject required")
	}
	if validity <= 0 {
		return "", fmt.Errorf("invalid token validity: %s", validity)
	}
	if tm.key.method == nil {
		return "", errors.New("signing key not initialized")
	}

	now := tm.now()
	payload := make(jwt.MapClaims, len(claims)+3)
	for k, v := range claims {
		payload[k] = v
	}
	payload["sub"] = subject
	payload["iat"] = jwt.NewNumericDate(now)
	payload["exp"] = jwt.NewNumericDate(now.Add(validity))

	signed, err := jwt.NewWithClaims(tm.key.method, payload).SignedString(tm.key.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// IssueDefault signs a token with the default validity window.
func (tm *TokenManager) IssueDefault(subject string, claims map[string]any) (string, error) {
	return tm.Issue(subject, claims, tm.ttl)
}

// VerifyAndDecode checks the signature and returns the payload. It does not check expiry.
func (tm *TokenManager) VerifyAndDecode(token string) (jwt.MapClaims, error) {
	parsed, err := tm.parser.Parse(token, func(*jwt.Token) (interface{}, error) {
		return tm.key.key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMalformed
	}
	return claims, nil
}

// ExtractSubject returns the verified sub claim.
func (tm *TokenManager) ExtractSubject(token string) (string, error) {
	claims, err := tm.VerifyAndDecode(token)
	if err != nil {
		return "", err
	}
	return subjectOf(claims)
}

// ExtractExpiry returns the verified exp claim.
func (tm *TokenManager) ExtractExpiry(token string) (time.Time, error) {
	claims, err := tm.VerifyAndDecode(token)
	if err != nil {
		return time.Time{}, err
	}
	return expiryOf(claims)
}

// Check reports why token is not valid for expectedSubject, or nil.
func (tm *TokenManager) Check(token, expectedSubject string) error {
	claims, err := tm.VerifyAndDecode(token)
	if err != nil {
		return err
	}
	subject, err := subjectOf(claims)
	if err != nil {
		return err
	}
	if subject != expectedSubject {
		return ErrSubjectMismatch
	}
	expiresAt, err := expiryOf(claims)
	if err != nil {
		return err
	}
	if !expiresAt.After(tm.now()) {
		return ErrExpired
	}
	return nil
}

// IsValid is true iff the subject matches and the token has not expired.
func (tm *TokenManager) IsValid(token, expectedSubject string) bool {
	return tm.Check(token, expectedSubject) == nil
}

func subjectOf(claims jwt.MapClaims) (string, error) {
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("%w: missing sub", ErrMalformed)
	}
	return subject, nil
}

func expiryOf(claims jwt.MapClaims) (time.Time, error) {
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("%w: missing exp", ErrMalformed)
	}
	return exp.Time, nil
}
