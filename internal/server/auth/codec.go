// Package auth implements password hashing and the signed token codec used
// for session bearer tokens and purpose-bound action tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/flava/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claim names understood by the codec.
const (
	ClaimSubject = "sub"
	ClaimScope   = "scope"
)

// Action token scopes.
const (
	ScopeEmailVerification = "email-verification"
	ScopePasswordReset     = "password-reset"
)

// TokenError describes why a token was rejected. All values unwrap to
// common.ErrInvalidToken so callers can collapse them into one message.
type TokenError struct {
	Reason string
}

func (e *TokenError) Error() string { return "token " + e.Reason }

func (e *TokenError) Unwrap() error { return common.ErrInvalidToken }

var (
	ErrTokenExpired       = &TokenError{Reason: "expired"}
	ErrTokenBadSignature  = &TokenError{Reason: "signature invalid"}
	ErrTokenScopeMismatch = &TokenError{Reason: "scope mismatch"}
)

// Claims is the decoded payload of a token.
type Claims map[string]any

// Subject returns the "sub" claim when it is a non-empty string.
func (c Claims) Subject() (string, bool) {
	s, ok := c[ClaimSubject].(string)
	return s, ok && s != ""
}

// Codec signs and verifies tokens with one HMAC secret and one algorithm.
type Codec struct {
	key    []byte
	method jwt.SigningMethod
	now    func() time.Time
}

// NewCodec builds a Codec. algorithm must name an HMAC method (HS256,
// HS384, HS512).
func NewCodec(secret []byte, algorithm string) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("signing secret must not be empty")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &Codec{key: secret, method: method, now: time.Now}, nil
}

// Issue signs claims with an expiry of now+ttl. A non-empty scope is
// embedded so the token is only accepted by Verify with the same scope.
//
// exp is stored in whole seconds (jwt.TimePrecision) and a token counts as
// expired once now reaches exp. A token therefore expires at now+ttl
// truncated to the second, never later than now+ttl.
func (c *Codec) Issue(claims Claims, ttl time.Duration, scope string) (string, error) {
	now := c.now()

	mc := make(jwt.MapClaims, len(claims)+3)
	for k, v := range claims {
		mc[k] = v
	}
	mc["iat"] = jwt.NewNumericDate(now)
	mc["exp"] = jwt.NewNumericDate(now.Add(ttl))
	if scope != "" {
		mc[ClaimScope] = scope
	}

	signed, err := jwt.NewWithClaims(c.method, mc).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, then the expiry, then the scope. The scope
// embedded in the token must equal scope exactly; an unscoped token only
// passes when scope is empty.
func (c *Codec) Verify(token string, scope string) (Claims, error) {
	mc := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, mc,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenBadSignature
	}

	got, _ := mc[ClaimScope].(string)
	if got != scope {
		return nil, ErrTokenScopeMismatch
	}

	return Claims(mc), nil
}
