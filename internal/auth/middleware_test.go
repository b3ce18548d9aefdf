package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// passHandler answers 200 "ok".
var passHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok")) //nolint:errcheck
})

func callWithKey(t *testing.T, h http.Handler, header, key string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/control/next", nil)
	if key != "" {
		req.Header.Set(header, key)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAPIKeyMiddleware_ModeNone_PassesThrough(t *testing.T) {
	h := APIKeyMiddleware("none", "X-API-Key", "secret")(passHandler)
	// No key on the request; should still pass because mode != "apikey".
	rr := callWithKey(t, h, "X-API-Key", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if rr.Body.String() != "ok" {
		t.Errorf("body: got %q, want ok", rr.Body.String())
	}
}

func TestAPIKeyMiddleware_EmptyKey_PassesThrough(t *testing.T) {
	// key="" means auth is not configured → allow all.
	h := APIKeyMiddleware("apikey", "X-API-Key", "")(passHandler)
	rr := callWithKey(t, h, "X-API-Key", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
}

func TestAPIKeyMiddleware_CorrectKey_Passes(t *testing.T) {
	h := APIKeyMiddleware("apikey", "X-API-Key", "supersecret")(passHandler)
	rr := callWithKey(t, h, "X-API-Key", "supersecret")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
}

func TestAPIKeyMiddleware_HeaderIsCaseInsensitive(t *testing.T) {
	h := APIKeyMiddleware("apikey", "X-Kiosk-Key", "supersecret")(passHandler)
	rr := callWithKey(t, h, "x-kiosk-key", "supersecret")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
}

func TestAPIKeyMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
		key    string
	}{
		{"missing key", "X-API-Key", ""},
		{"wrong key", "X-API-Key", "guess"},
		{"wrong header", "Authorization", "supersecret"},
		{"prefix of key", "X-API-Key", "super"},
	}
	h := APIKeyMiddleware("apikey", "X-API-Key", "supersecret")(passHandler)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := callWithKey(t, h, tc.header, tc.key)
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("status: got %d, want 401", rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type: got %q", ct)
			}
			if !strings.Contains(rr.Body.String(), "invalid api key") {
				t.Errorf("body: got %q", rr.Body.String())
			}
		})
	}
}

func TestAPIKeyAuthorizer(t *testing.T) {
	tests := []struct {
		name      string
		mode, key string
		sent      string
		want      bool
	}{
		{"mode none", "none", "secret", "", true},
		{"no key configured", "apikey", "", "", true},
		{"correct key", "apikey", "secret", "secret", true},
		{"missing key", "apikey", "secret", "", false},
		{"wrong key", "apikey", "secret", "nope", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws/display", nil)
			if tc.sent != "" {
				req.Header.Set("X-API-Key", tc.sent)
			}
			if got := APIKeyAuthorizer(tc.mode, "X-API-Key", tc.key)(req); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}
