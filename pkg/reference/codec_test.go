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
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func testCodec(t *testing.T, opts ...Option) Codec {
	t.Helper()
	c, err := NewCodec(testSecret, opts...)
	require.NoError(t, err)
	return c
}

func TestNewCodec(t *testing.T) {
	t.Run("secret too short", func(t *testing.T) {
		c, err := NewCodec([]byte("short"))
		assert.Nil(t, c)
		assert.True(t, errors.Is(err, ErrSecretTooShort))
	})

	t.Run("random secret is accepted", func(t *testing.T) {
		secret, err := RandomSecret()
		require.NoError(t, err)
		_, err = NewCodec(secret)
		assert.NoError(t, err)
	})
}

func TestCodec_RoundTrip(t *testing.T) {
	c := testCodec(t)

	ids := []string{"1", "b1ff2dd6-6c1e-4d86-a7a1-1f0c9e1b1a11", "document with spaces", "ø-æ-å"}
	for i := 0; i < 20; i++ {
		ids = append(ids, uuid.New().String())
	}

	for _, id := range ids {
		token, err := c.Encode(id)
		require.NoError(t, err)

		decoded, err := c.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, id, decoded)
	}
}

func TestCodec_Encode(t *testing.T) {
	t.Run("empty session id", func(t *testing.T) {
		_, err := testCodec(t).Encode("")
		assert.True(t, errors.Is(err, ErrMissingClaim))
	})

	t.Run("token is url safe", func(t *testing.T) {
		token, err := testCodec(t).Encode("abc")
		require.NoError(t, err)
		assert.False(t, strings.ContainsAny(token, "+/= &?"))
	})
}

func TestCodec_Decode(t *testing.T) {
	c := testCodec(t)

	t.Run("empty token", func(t *testing.T) {
		_, err := c.Decode("")
		assert.True(t, errors.Is(err, ErrMalformed))
	})

	t.Run("not a jwt", func(t *testing.T) {
		_, err := c.Decode("foo")
		assert.True(t, errors.Is(err, ErrMalformed))
	})

	t.Run("garbage segments", func(t *testing.T) {
		_, err := c.Decode("a.b.c")
		assert.True(t, errors.Is(err, ErrMalformed))
	})

	t.Run("flipped signature bits", func(t *testing.T) {
		token, err := c.Encode("document-1")
		require.NoError(t, err)
		parts := strings.Split(token, ".")
		signature, err := base64.RawURLEncoding.DecodeString(parts[2])
		require.NoError(t, err)

		for i := 0; i < len(signature)*8; i++ {
			flipped := append([]byte{}, signature...)
			flipped[i/8] ^= 1 << (uint(i) % 8)
			forged := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(flipped)

			id, err := c.Decode(forged)
			assert.Empty(t, id)
			if !assert.True(t, errors.Is(err, ErrInvalidSignature), "bit %d: %v", i, err) {
				return
			}
		}
	})

	t.Run("tampered claims", func(t *testing.T) {
		token, err := c.Encode("document-1")
		require.NoError(t, err)
		parts := strings.Split(token, ".")
		payload := base64.RawURLEncoding.EncodeToString([]byte(`{"documentId":"document-2"}`))

		id, err := c.Decode(parts[0] + "." + payload + "." + parts[2])
		assert.Empty(t, id)
		assert.True(t, errors.Is(err, ErrInvalidSignature))
	})

	t.Run("signed with another secret", func(t *testing.T) {
		other, err := NewCodec([]byte("fedcba9876543210fedcba9876543210"))
		require.NoError(t, err)
		token, err := other.Encode("document-1")
		require.NoError(t, err)

		_, err = c.Decode(token)
		assert.True(t, errors.Is(err, ErrInvalidSignature))
	})

	t.Run("alg none is rejected", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{DocumentID: "document-1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = c.Decode(token)
		assert.True(t, errors.Is(err, ErrInvalidSignature))
	})

	t.Run("other algorithm with same secret is rejected", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{DocumentID: "document-1"}).SignedString(testSecret)
		require.NoError(t, err)

		_, err = c.Decode(token)
		assert.True(t, errors.Is(err, ErrInvalidSignature))
	})

	t.Run("missing claim", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{Subject: "document-1"}).SignedString(testSecret)
		require.NoError(t, err)

		id, err := c.Decode(token)
		assert.Empty(t, id)
		assert.True(t, errors.Is(err, ErrMissingClaim))
	})

	t.Run("expired", func(t *testing.T) {
		expiring := &hmacCodec{secret: testSecret, ttl: time.Minute, now: func() time.Time {
			return time.Now().Add(-time.Hour)
		}}
		token, err := expiring.Encode("document-1")
		require.NoError(t, err)

		_, err = c.Decode(token)
		assert.True(t, errors.Is(err, ErrExpired))
	})

	t.Run("not yet expired", func(t *testing.T) {
		expiring := testCodec(t, WithTTL(time.Hour))
		token, err := expiring.Encode("document-1")
		require.NoError(t, err)

		id, err := expiring.Decode(token)
		assert.NoError(t, err)
		assert.Equal(t, "document-1", id)
	})
}
