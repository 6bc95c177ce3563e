// Package server serves the parking dashboard over HTTP.
//
// The server owns no routing decisions of its own: it is handed a
// router.Router built once at startup and uses it for every request and
// every live session.
//
// # Endpoints
//
// Under the router's base path:
//
//   - any page path: server-side rendered document for the resolved view
//     (404 and the not-found view when nothing matches, or a redirect to the
//     fallback route in redirect mode)
//   - /_parkdash/client.js: the thin client script (ETag cached)
//   - /_parkdash/ws: the WebSocket navigation channel
//   - /assets/*: static assets from the configured source
//   - /api/, /api/owners/, /api/routes: JSON API
//
// At the root, /healthz and /metrics (Prometheus).
//
// # Navigation channel
//
// Each WebSocket connection gets one Session holding a router.Navigator and
// its History. The connection's read loop is the only goroutine driving the
// navigator, so navigations within a session are sequential. Messages are
// JSON objects with a "type" field:
//
//	client → server: hello, navigate, popstate, back, forward
//	server → client: hello, render, error
//
// A render message carries the history operation the client applies
// (push, replace, pop, none), the URL to show, the absolute history index,
// the document title, and the rendered view and navigation HTML.
package server
