// Package middleware provides navigation middleware for the parking
// dashboard router.
//
// # Prometheus Metrics
//
// NewMetrics registers the dashboard collectors and returns a Metrics value
// whose Middleware records every navigation:
//
//   - parkdash_navigations_total: navigations by route, operation and status
//
//   - parkdash_navigation_duration_seconds: navigation duration histogram
//
//   - parkdash_navigation_errors_total: aborted navigations by error code
//
//   - parkdash_active_sessions: live WebSocket sessions
//
//   - parkdash_websocket_errors_total: WebSocket errors by type
//
//     m := middleware.NewMetrics(middleware.WithRegistry(reg))
//     r.Use(m.Middleware())
//
// # OpenTelemetry
//
// OpenTelemetry wraps each navigation in a span. The span context replaces
// Navigation.Context, so later middleware and the commit step inherit it.
//
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("parkdash"),
//	))
package middleware
