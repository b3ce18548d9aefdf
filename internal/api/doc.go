// Package api implements the HTTP REST API for the scoreboard.
//
// New(session, guard) returns an http.Handler that serves:
//
//	GET  /api/v1/health            status, poll stats, last commit time
//	GET  /api/v1/display           the current View (same as the WebSocket push)
//	GET  /api/v1/pages             the configured page table
//	GET  /api/v1/pages/{id}        committed records for one page; 404 if unknown
//	POST /api/v1/control/{action}  apply a user action, respond with the new View
//
// Read endpoints return 405 for non-GET methods; control returns 405 for
// non-POST. Control routes are wrapped in guard (see package auth), read
// routes never are. JSON types are defined in types.go.
package api
