package api

import (
	"github.com/marocz/scoreboard/internal/poll"
	"github.com/marocz/scoreboard/pkg/types"
)

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	// Status is "ok" once any page has committed data, "waiting" before.
	Status        string            `json:"status"`
	ActivePage    types.PageID      `json:"active_page"`
	Mode          types.RankingMode `json:"mode"`
	Paused        bool              `json:"paused"`
	Poll          poll.Stats        `json:"poll"`
	Rotations     uint64            `json:"rotations"`
	LastCommit    string            `json:"last_commit,omitempty"` // RFC3339
	UptimeSeconds int64             `json:"uptime_seconds"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
