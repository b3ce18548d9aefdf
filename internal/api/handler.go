package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/marocz/scoreboard/internal/display"
	"github.com/marocz/scoreboard/pkg/types"
)

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	session *display.Session
	mux     *http.ServeMux
}

// New creates a Handler for session and registers all routes. guard wraps the
// control routes; nil leaves them open.
func New(session *display.Session, guard func(http.Handler) http.Handler) http.Handler {
	if guard == nil {
		guard = func(h http.Handler) http.Handler { return h }
	}
	h := &Handler{session: session, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/display", h.display)
	h.mux.HandleFunc("/api/v1/pages", h.listPages)
	h.mux.HandleFunc("/api/v1/pages/", h.getPage) // subtree, extracts {id}
	h.mux.Handle("/api/v1/control/", guard(http.HandlerFunc(h.control)))

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rs := h.session.Rotation()
	resp := HealthResponse{
		Status:        "waiting",
		ActivePage:    rs.Active,
		Mode:          h.session.Mode(),
		Paused:        rs.Paused,
		Poll:          h.session.PollStats(),
		Rotations:     h.session.Rotations(),
		UptimeSeconds: int64(h.session.Uptime() / time.Second),
	}
	if last := h.session.LastCommit(); !last.IsZero() {
		resp.Status = "ok"
		resp.LastCommit = last.UTC().Format(time.RFC3339)
	}
	jsonResp(w, http.StatusOK, resp)
}

func (h *Handler) display(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.session.View())
}

func (h *Handler) listPages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, h.session.Pages())
}

func (h *Handler) getPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/pages/")
	if id == "" {
		h.listPages(w, r)
		return
	}

	pr, ok := h.session.PageRecords(types.PageID(id))
	if !ok {
		jsonErr(w, http.StatusNotFound, "page not found")
		return
	}
	jsonResp(w, http.StatusOK, pr)
}

func (h *Handler) control(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	a, err := display.ParseAction(strings.TrimPrefix(r.URL.Path, "/api/v1/control/"))
	if err != nil {
		jsonErr(w, http.StatusBadRequest, "unknown action")
		return
	}
	jsonResp(w, http.StatusOK, h.session.Apply(a))
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
