// Package parking is the smart parking dashboard: the route table binding
// the dashboard, analytics and gate views, and the application bootstrap that
// builds the router once and hands it to the server.
package parking

import (
	"github.com/123Haben/parking-place/pkg/router"
	"github.com/123Haben/parking-place/pkg/views"
)

// Route names.
const (
	RouteDashboard = "dashboard"
	RouteAnalytics = "analytics"
	RouteGate      = "gate"
)

// Routes returns the dashboard routes in declaration order. Each call
// returns a fresh slice with equal contents.
func Routes() []router.Route {
	return []router.Route{
		{
			Path:      "/dashboard",
			Name:      RouteDashboard,
			Component: views.SmartParking{},
			Meta:      router.PageMeta{Title: "page.dashboard.title", Description: "page.dashboard.description"},
		},
		{
			Path:      "/analytics",
			Name:      RouteAnalytics,
			Component: views.Analytics{},
			Meta:      router.PageMeta{Title: "page.analytics.title", Description: "page.analytics.description"},
		},
		{
			Path:      "/gate",
			Name:      RouteGate,
			Component: views.Gate{},
			Meta:      router.PageMeta{Title: "page.gate.title", Description: "page.gate.description"},
		},
	}
}

// NewTable builds the route table from Routes.
func NewTable() (*router.Table, error) {
	return router.NewTable(Routes())
}

// NewRouter builds the dashboard router. Unmatched paths render
// views.NotFound linking back to the dashboard unless opts say otherwise.
func NewRouter(opts ...router.Option) (*router.Router, error) {
	table, err := NewTable()
	if err != nil {
		return nil, err
	}

	// The dashboard href depends on the base and history mode in opts.
	draft, err := router.New(table, opts...)
	if err != nil {
		return nil, err
	}
	home, err := draft.Href(RouteDashboard, nil)
	if err != nil {
		return nil, err
	}

	opts = append([]router.Option{router.WithNotFound(views.NotFound{Home: home})}, opts...)
	return router.New(table, opts...)
}
