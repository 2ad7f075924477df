package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures, coarsest first. Callers branch on these with
// errors.Is: only ErrExpired may trigger a refresh attempt; everything else
// is treated as garbage input and fails closed.
var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrWrongKind  = errors.New("jwtx: wrong credential kind")
	ErrIssuer     = errors.New("jwtx: issuer mismatch")
	ErrExpired    = errors.New("jwtx: token expired")
)

// Codec signs and verifies the two credential kinds. It holds one Ed25519
// key pair per kind, so an access token can never verify as a refresh token
// or vice versa. Stateless apart from the injected clock.
type Codec struct {
	issuer string
	leeway time.Duration
	now    func() time.Time
	keys   map[Kind]KeyPair
}

// CodecOption customises a Codec.
type CodecOption func(*Codec)

// WithClock overrides the time source. One read per verification; tests use
// this to pin the boundary behavior.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) { c.now = now }
}

// WithLeeway allows small clock skew when validating exp/nbf. Zero by
// default: no grace window unless explicitly configured.
func WithLeeway(d time.Duration) CodecOption {
	return func(c *Codec) { c.leeway = d }
}

// NewCodec builds a codec from per-kind signing material. Key problems are
// reported here, once, so a misconfigured deployment dies at startup rather
// than failing every request.
func NewCodec(issuer string, access, refresh KeyPair, opts ...CodecOption) (*Codec, error) {
	if issuer == "" {
		return nil, errors.New("jwtx: issuer required")
	}
	if err := access.validate(); err != nil {
		return nil, fmt.Errorf("access key: %w", err)
	}
	if err := refresh.validate(); err != nil {
		return nil, fmt.Errorf("refresh key: %w", err)
	}
	if access.KID == refresh.KID {
		return nil, errors.New("jwtx: access and refresh keys must have distinct kids")
	}

	c := &Codec{
		issuer: issuer,
		now:    time.Now,
		keys: map[Kind]KeyPair{
			KindAccess:  access,
			KindRefresh: refresh,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs a credential of the given kind. It never fails for valid
// codec state; the error return exists for the signing library's sake.
func (c *Codec) Issue(kind Kind, subject string, profile Profile, ttl time.Duration) (string, error) {
	key, ok := c.keys[kind]
	if !ok {
		return "", fmt.Errorf("jwtx: unknown credential kind %q", kind)
	}

	claims := newClaims(kind, subject, profile, ttl, c.issuer, c.now().UTC())

	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = key.KID
	return t.SignedString(key.Private)
}

// Verify checks a credential of the given kind and returns its claims.
// Failures classify as exactly one of the sentinel errors above. A token
// that is both expired and mis-signed reports the signature failure:
// tampering must never look refreshable.
func (c *Codec) Verify(kind Kind, token string) (Claims, error) {
	key, ok := c.keys[kind]
	if !ok {
		return Claims{}, fmt.Errorf("jwtx: unknown credential kind %q", kind)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return c.now().UTC() }),
		jwt.WithLeeway(c.leeway),
		jwt.WithExpirationRequired(),
	)

	parsed, err := parser.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid != key.KID {
			return nil, fmt.Errorf("%w: unknown kid %q", ErrInvalidSig, kid)
		}
		return key.Public, nil
	})
	if err != nil {
		return Claims{}, classifyParseError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrMalformed
	}

	if claims.Use != string(kind) {
		return Claims{}, ErrWrongKind
	}
	if claims.Issuer != c.issuer {
		return Claims{}, ErrIssuer
	}
	if claims.Subject == "" {
		return Claims{}, ErrMalformed
	}

	return *claims, nil
}

// classifyParseError maps the jwt library's error set onto our sentinels.
// Order matters: structural and signature failures win over expiry so a
// forged token can never be classified as merely expired.
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, ErrInvalidSig):
		return fmt.Errorf("%w: %w", ErrInvalidSig, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		// Not-yet-valid is indistinguishable from clock trouble; treat it
		// as a hard failure, not a refresh trigger.
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
