// Package auth guards the operator control endpoints with an optional API key.
//
// APIKeyMiddleware wraps an http.Handler. When mode is "apikey" and a key is
// configured, requests must carry the key in the configured header (default
// X-API-Key); anything else is answered with 401. Read-only endpoints are
// never wrapped, so viewers of the display need no credentials.
package auth
