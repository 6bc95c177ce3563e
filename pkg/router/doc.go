// Package router binds URL paths and symbolic names to view components and
// drives history-backed navigation between them.
//
// The router provides:
//   - An immutable route Table with eager duplicate rejection
//   - Exact path matching on canonicalized paths
//   - Named routes and href generation
//   - Web, hash and memory history modes
//   - A per-session Navigator with a bounded History
//   - Navigation middleware (guards, metrics, tracing)
//
// # Route Table
//
// Routes are declared once, in order, and never change afterwards:
//
//	table, err := router.NewTable([]router.Route{
//	    {Path: "/dashboard", Name: "dashboard", Component: views.SmartParking{}},
//	    {Path: "/analytics", Name: "analytics", Component: views.Analytics{}},
//	    {Path: "/gate", Name: "gate", Component: views.Gate{}},
//	})
//
// Duplicate paths or names, missing names or components, non-canonical paths
// and dynamic segments (":id", "*rest") are construction errors.
//
// # Resolving and Navigating
//
//	r, err := router.New(table, router.WithHistory(router.HistoryWeb))
//
//	match, ok := r.Resolve("/gate")      // match.Route.Component is views.Gate{}
//	href, err := r.Href("gate", nil)     // "/gate"
//
//	nav := r.NewNavigator(router.NewHistory(0))
//	n, err := nav.Navigate(ctx, router.ToName("gate"))
//	// n.Op == router.OpPush, n.URL == "/gate"
//
// The Router is safe for concurrent use once constructed. A Navigator and
// its History belong to a single session and are not.
package router
