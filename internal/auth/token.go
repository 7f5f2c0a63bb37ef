// Package auth issues and verifies the dashboard's bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/osse101/CommunityEconomy_Go/internal/logger"
)

const (
	// Issuer is stamped into every token and required on parse
	Issuer = "community-economy"

	headerAuthorization = "Authorization"
	bearerPrefix        = "Bearer "
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims identify the chat user a dashboard session belongs to
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserID is the chat-platform user id carried in the subject
func (c *Claims) UserID() string { return c.Subject }

// Tokens signs and verifies HS256 tokens
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token service with the shared secret and lifetime
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue mints a token for userID. It returns the token and its expiry.
func (t *Tokens) Issue(userID, username string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, fmt.Errorf("%w: empty user id", ErrInvalidToken)
	}
	now := t.now()
	exp := now.Add(t.ttl)
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse verifies the signature, issuer and time claims
func (t *Tokens) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(t.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

type claimsKey struct{}

// WithClaims stores verified claims in ctx
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromContext returns the claims stored by Middleware
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}

// UserFromRequest adapts ClaimsFromContext to handlers that only need the id
func UserFromRequest(r *http.Request) (string, bool) {
	c, ok := ClaimsFromContext(r.Context())
	if !ok {
		return "", false
	}
	return c.UserID(), true
}

// Middleware rejects requests without a valid bearer token
func (t *Tokens) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearerToken(r)
		if err == nil {
			var claims *Claims
			if claims, err = t.Parse(raw); err == nil {
				next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
				return
			}
		}
		logger.FromContext(r.Context()).Warn("Dashboard token rejected", "path", r.URL.Path, "error", err)
		w.Header().Set("WWW-Authenticate", `Bearer realm="dashboard"`)
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
	})
}

func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get(headerAuthorization)
	if !strings.HasPrefix(h, bearerPrefix) {
		// EventSource cannot set headers, so the live feed passes it as a query parameter
		if q := r.URL.Query().Get("access_token"); q != "" {
			return q, nil
		}
		return "", ErrMissingToken
	}
	tok := strings.TrimSpace(strings.TrimPrefix(h, bearerPrefix))
	if tok == "" {
		return "", ErrMissingToken
	}
	return tok, nil
}
