/*
 * Nuts esign
 * Copyright (C) 2020. Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package reference

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// MinSecretLength is the minimum amount of bytes a signing secret must contain
const MinSecretLength = 32

// ErrMalformed is returned when a token cannot be parsed as a signed reference
var ErrMalformed = errors.New("malformed reference")

// ErrInvalidSignature is returned when the integrity of a reference cannot be verified
var ErrInvalidSignature = errors.New("invalid reference signature")

// ErrMissingClaim is returned when a correctly signed reference does not identify a session
var ErrMissingClaim = errors.New("reference does not contain a session identifier")

// ErrExpired is returned when a reference was issued with an expiry which has passed
var ErrExpired = errors.New("reference expired")

// ErrSecretTooShort is returned by NewCodec when the secret is too short to be used with HS256
var ErrSecretTooShort = fmt.Errorf("reference secret must be at least %d bytes", MinSecretLength)

// Codec encodes and decodes references to signing sessions.
type Codec interface {
	// Encode creates a token for the given provider session identifier.
	Encode(sessionID string) (string, error)
	// Decode verifies the token and returns the session identifier it contains.
	// Nothing else from the token is returned or trusted.
	Decode(token string) (string, error)
}

// Claims holds the contents of a reference token
type Claims struct {
	jwt.StandardClaims
	DocumentID string `json:"documentId"`
}

var signingMethod = jwt.SigningMethodHS256

type hmacCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures optional codec behaviour
type Option func(*hmacCodec)

// WithTTL adds an expiry to every encoded reference. A zero duration means references never expire.
func WithTTL(ttl time.Duration) Option {
	return func(c *hmacCodec) {
		c.ttl = ttl
	}
}

// NewCodec creates a Codec which signs references with HMAC-SHA256 using the given secret.
func NewCodec(secret []byte, opts ...Option) (Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	c := &hmacCodec{
		secret: append([]byte{}, secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// RandomSecret generates a secret usable by NewCodec
func RandomSecret() ([]byte, error) {
	secret := make([]byte, MinSecretLength)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("could not generate reference secret: %w", err)
	}
	return secret, nil
}

func (c *hmacCodec) Encode(sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrMissingClaim
	}
	claims := Claims{DocumentID: sessionID}
	if c.ttl > 0 {
		claims.ExpiresAt = c.now().Add(c.ttl).Unix()
	}
	return jwt.NewWithClaims(signingMethod, claims).SignedString(c.secret)
}

func (c *hmacCodec) Decode(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: empty token", ErrMalformed)
	}

	parser := &jwt.Parser{ValidMethods: []string{signingMethod.Name}}
	claims := &Claims{}
	// the key func must not look at the claims, they are unverified at this point
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return "", classify(err)
	}
	if !parsed.Valid {
		return "", ErrInvalidSignature
	}
	if claims.DocumentID == "" {
		return "", ErrMissingClaim
	}
	return claims.DocumentID, nil
}

// classify maps jwt-go validation errors onto the reference errors.
// Malformed takes precedence over signature failures, signature failures over claim failures.
func classify(err error) error {
	var vErr *jwt.ValidationError
	if !errors.As(err, &vErr) {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch {
	case vErr.Errors&jwt.ValidationErrorMalformed != 0:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case vErr.Errors&(jwt.ValidationErrorSignatureInvalid|jwt.ValidationErrorUnverifiable) != 0:
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	case vErr.Errors&jwt.ValidationErrorExpired != 0:
		return fmt.Errorf("%w: %v", ErrExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
}
