package router

import (
	"context"
	"io"
	"testing"
)

// stubView is a comparable test component.
type stubView struct{ name string }

func (v stubView) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, "<main>"+v.name+"</main>")
	return err
}

func testRoutes() []Route {
	return []Route{
		{Path: "/dashboard", Name: "dashboard", Component: stubView{"dashboard"}},
		{Path: "/analytics", Name: "analytics", Component: stubView{"analytics"}},
		{Path: "/gate", Name: "gate", Component: stubView{"gate"}},
	}
}

func newTestRouter(t *testing.T, opts ...Option) *Router {
	t.Helper()
	table, err := NewTable(testRoutes())
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	opts = append([]Option{WithNotFound(stubView{"404"})}, opts...)
	r, err := New(table, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}
