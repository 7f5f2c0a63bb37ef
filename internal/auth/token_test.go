package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func fixedTokens(at time.Time) *Tokens {
	t := NewTokens(testSecret, time.Hour)
	t.now = func() time.Time { return at }
	return t
}

func TestIssueParse_RoundTrip(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	tokens := fixedTokens(now)

	raw, exp, err := tokens.Issue("123", "alice")
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "123", claims.UserID())
	assert.Equal(t, "alice", claims.Username)
}

func TestParse_Rejections(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	raw, _, err := fixedTokens(now).Issue("123", "alice")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		_, err := fixedTokens(now.Add(2 * time.Hour)).Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokens("another-secret-another-secret", time.Hour)
		other.now = func() time.Time { return now }
		_, err := other.Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				Subject:   "123",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = fixedTokens(now).Parse(forged)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := fixedTokens(now).Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestIssue_EmptyUser(t *testing.T) {
	_, _, err := NewTokens(testSecret, time.Hour).Issue("", "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)
	raw, _, err := tokens.Issue("42", "bob")
	require.NoError(t, err)

	var seen string
	h := tokens.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromRequest(r)
	}))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
		user   string
	}{
		{"header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+raw) }, http.StatusOK, "42"},
		{"query parameter", func(r *http.Request) { r.URL.RawQuery = "access_token=" + raw }, http.StatusOK, "42"},
		{"missing", func(r *http.Request) {}, http.StatusUnauthorized, ""},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/dashboard/me", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.user, seen)
		})
	}
}
