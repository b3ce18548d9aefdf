// Package display ties the poll coordinator and the rotation scheduler into
// one kiosk session.
//
// A Session owns the process-wide ranking mode, routes user input (mode
// changes, pause, optional-page toggle, prev/next) to the right component,
// and builds View, the rendering contract served over HTTP and pushed over
// the WebSocket hub.
package display
