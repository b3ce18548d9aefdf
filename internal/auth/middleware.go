package auth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// Authorizer reports whether a request carries valid credentials.
type Authorizer func(*http.Request) bool

// APIKeyAuthorizer returns an Authorizer for the given settings.
//
// Behaviour:
//   - If mode != "apikey" or key == "", every request is authorized.
//   - Otherwise the value of header must equal key.
func APIKeyAuthorizer(mode, header, key string) Authorizer {
	if mode != "apikey" || key == "" {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		got := r.Header.Get(header)
		return got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(key)) == 1
	}
}

// APIKeyMiddleware returns middleware that enforces API key authentication.
// A missing, empty, or incorrect key is answered with 401 and a JSON error.
func APIKeyMiddleware(mode, header, key string) func(http.Handler) http.Handler {
	allow := APIKeyAuthorizer(mode, header, key)
	return func(next http.Handler) http.Handler {
		if mode != "apikey" || key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allow(r) {
				slog.Debug("auth: rejected control request", "path", r.URL.Path, "remote", r.RemoteAddr)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"invalid api key"}` + "\n")) //nolint:errcheck
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
