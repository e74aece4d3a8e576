package transport

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// TokenCookie carries the token for browser sessions. It is set when a GET
// request presents a valid ?token= query parameter, so the page, its assets
// and the drag requests board.js sends all authenticate without headers.
const TokenCookie = "projectboard_token"

// AuthMiddleware enforces a static token. API and MCP clients send it as
// "Authorization: Bearer <token>"; browsers use TokenCookie. An empty token
// disables the check.
func AuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, fromQuery := credential(r)
			if got == "" {
				WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "missing bearer token", nil)
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid bearer token", nil)
				return
			}
			if fromQuery {
				http.SetCookie(w, &http.Cookie{
					Name:     TokenCookie,
					Value:    got,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteStrictMode,
					Secure:   r.TLS != nil,
				})
			}
			next.ServeHTTP(w, r)
		})
	}
}

// credential returns the presented token. An Authorization header must use
// the Bearer scheme; any other scheme counts as no token.
func credential(r *http.Request) (token string, fromQuery bool) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		scheme, value, ok := strings.Cut(auth, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return "", false
		}
		return strings.TrimSpace(value), false
	}
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value, false
	}
	if r.Method == http.MethodGet {
		if q := r.URL.Query().Get("token"); q != "" {
			return q, true
		}
	}
	return "", false
}
