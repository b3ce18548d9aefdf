// Package ws implements the WebSocket hub for the scoreboard display.
//
// Hub keeps a set of connected renderers and pushes the current display.View
// to all of them whenever the session changes and on a configurable interval
// (default 5s). A client that connects gets the current view immediately.
//
// New(session, interval, allowInput) creates a Hub.
// Hub.Run(ctx) starts the broadcast loop; it blocks until ctx is cancelled,
// then closes all active connections.
// Hub.ServeHTTP upgrades an HTTP connection and serves one client.
//
// Message format sent to clients:
//
//	{
//	  "event": "display",
//	  "data":  { /* same schema as GET /api/v1/display */ }
//	}
//
// Clients send input as text frames, either {"action": "toggle-pause"} using
// the control action names, or {"key": "ArrowRight"} with a browser key name.
// When control auth is enabled, input is accepted only from connections whose
// upgrade request carried the API key; other clients are read-only.
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. The endpoint is mounted at /ws/display by the binary.
package ws
