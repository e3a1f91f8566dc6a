package jwt_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techfixpro/appkit/pkg/jwt"
)

// forgeToken builds an unsigned JWT with the given claims payload. The
// signature segment is garbage on purpose: Decode must not care.
func forgeToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + "." + enc.EncodeToString([]byte("sig"))
}

func TestDecode(t *testing.T) {
	t.Parallel()

	now := time.Now().Truncate(time.Second)

	t.Run("extracts registered claims", func(t *testing.T) {
		t.Parallel()

		token := forgeToken(t, map[string]any{
			"sub": "42",
			"iss": "techfix",
			"exp": now.Add(time.Hour).Unix(),
			"iat": now.Unix(),
		})

		claims, err := jwt.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, "42", claims.Subject)
		assert.Equal(t, "techfix", claims.Issuer)
		assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		t.Parallel()

		_, err := jwt.Decode("not-a-token")
		assert.ErrorIs(t, err, jwt.ErrMalformedToken)
	})

	t.Run("rejects bad payload encoding", func(t *testing.T) {
		t.Parallel()

		_, err := jwt.Decode("aGVhZGVy.!!!.c2ln")
		assert.ErrorIs(t, err, jwt.ErrMalformedToken)
	})
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	now := time.Now()

	t.Run("future expiry is valid", func(t *testing.T) {
		t.Parallel()

		token := forgeToken(t, map[string]any{"exp": now.Add(time.Hour).Unix()})
		assert.True(t, jwt.IsValid(token, now))
	})

	t.Run("past expiry is invalid", func(t *testing.T) {
		t.Parallel()

		token := forgeToken(t, map[string]any{"exp": now.Add(-time.Minute).Unix()})
		assert.False(t, jwt.IsValid(token, now))
	})

	t.Run("missing exp is invalid", func(t *testing.T) {
		t.Parallel()

		token := forgeToken(t, map[string]any{"sub": "42"})
		assert.False(t, jwt.IsValid(token, now))
	})

	t.Run("undecodable token is invalid", func(t *testing.T) {
		t.Parallel()

		assert.False(t, jwt.IsValid("garbage", now))
	})
}

func TestNearExpiry(t *testing.T) {
	t.Parallel()

	now := time.Now()
	threshold := 5 * time.Minute

	t.Run("inside threshold", func(t *testing.T) {
		t.Parallel()

		token := forgeToken(t, map[string]any{"exp": now.Add(2 * time.Minute).Unix()})
		assert.True(t, jwt.NearExpiry(token, threshold, now))
	})

	t.Run("outside threshold", func(t *testing.T) {
		t.Parallel()

		token := forgeToken(t, map[string]any{"exp": now.Add(time.Hour).Unix()})
		assert.False(t, jwt.NearExpiry(token, threshold, now))
	})

	t.Run("undecodable counts as near expiry", func(t *testing.T) {
		t.Parallel()

		assert.True(t, jwt.NearExpiry("garbage", threshold, now))
	})
}
