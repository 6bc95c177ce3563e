package parking

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/123Haben/parking-place/internal/config"
	perrors "github.com/123Haben/parking-place/internal/errors"
	"github.com/123Haben/parking-place/pkg/owners"
	"github.com/123Haben/parking-place/pkg/router"
)

func newTestApp(t *testing.T, cfg *config.Config, opts ...AppOption) *App {
	t.Helper()
	opts = append([]AppOption{WithRegistry(prometheus.NewRegistry())}, opts...)
	app, err := NewApp(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	t.Cleanup(func() { app.Close(context.Background()) })
	return app
}

func serve(t *testing.T, h http.Handler, target string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	res := rec.Result()
	body, _ := io.ReadAll(res.Body)
	return res, string(body)
}

func TestAppServesRoutes(t *testing.T) {
	app := newTestApp(t, config.New())

	tests := []struct {
		target string
		status int
		view   string
	}{
		{"/dashboard", http.StatusOK, `data-view="dashboard"`},
		{"/analytics", http.StatusOK, `data-view="analytics"`},
		{"/gate", http.StatusOK, `data-view="gate"`},
		{"/unknown", http.StatusNotFound, `data-view="notfound"`},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			res, body := serve(t, app.Handler(), tt.target)
			if res.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", res.StatusCode, tt.status)
			}
			if !strings.Contains(body, tt.view) {
				t.Errorf("body lacks %s", tt.view)
			}
		})
	}
}

func TestAppOwnersAPI(t *testing.T) {
	for _, driver := range []string{config.DriverMemory, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			cfg := config.New()
			cfg.Owners.Driver = driver
			cfg.Owners.DSN = ":memory:"
			app := newTestApp(t, cfg)

			res, body := serve(t, app.Handler(), "/api/owners/")
			if res.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", res.StatusCode, body)
			}
			var got []owners.Owner
			if err := json.Unmarshal([]byte(body), &got); err != nil {
				t.Fatal(err)
			}
			if len(got) != 1 || got[0] != (owners.Owner{ID: 1, Name: "Alice"}) {
				t.Errorf("owners = %+v", got)
			}
		})
	}
}

func TestAppRedirectMode(t *testing.T) {
	cfg := config.New()
	cfg.Server.NotFound.Mode = config.NotFoundRedirect
	cfg.Server.NotFound.Redirect = RouteGate
	app := newTestApp(t, cfg)

	res, _ := serve(t, app.Handler(), "/unknown")
	if res.StatusCode != http.StatusFound {
		t.Fatalf("status = %d, want 302", res.StatusCode)
	}
	if loc := res.Header.Get("Location"); loc != "/gate" {
		t.Errorf("Location = %q", loc)
	}
}

func TestAppRejectsUnknownRedirect(t *testing.T) {
	cfg := config.New()
	cfg.Server.NotFound.Mode = config.NotFoundRedirect
	cfg.Server.NotFound.Redirect = "parking"

	_, err := NewApp(context.Background(), cfg, WithRegistry(prometheus.NewRegistry()))
	if perrors.CodeOf(err) != perrors.CodeUnknownRouteName {
		t.Fatalf("err = %v, want %s", err, perrors.CodeUnknownRouteName)
	}
}

func TestAppRejectsInvalidConfig(t *testing.T) {
	cfg := config.New()
	cfg.Server.History = "tape"

	_, err := NewApp(context.Background(), cfg, WithRegistry(prometheus.NewRegistry()))
	if perrors.CodeOf(err) != perrors.CodeConfigInvalid {
		t.Fatalf("err = %v, want %s", err, perrors.CodeConfigInvalid)
	}
}

func TestAppBaseAndHash(t *testing.T) {
	cfg := config.New()
	cfg.Server.Base = "/parking"
	cfg.Server.History = "hash"
	app := newTestApp(t, cfg)

	if app.Router.Mode() != router.HistoryHash || app.Router.Base() != "/parking" {
		t.Fatalf("mode=%v base=%q", app.Router.Mode(), app.Router.Base())
	}
	res, body := serve(t, app.Handler(), "/parking")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	if !strings.Contains(body, `data-history="hash"`) {
		t.Errorf("shell lacks history mode")
	}
}

func TestAppGuardAndTracing(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	defer tp.Shutdown(context.Background())

	closed := errors.New("gate closed")
	guard := router.Guard(func(*router.Navigation) error { return closed }, RouteGate)
	app := newTestApp(t, config.New(), WithTracerProvider(tp), WithGuards(guard))

	nav := app.Router.NewNavigator(nil)
	ctx := context.Background()
	if _, err := nav.Navigate(ctx, router.ToName(RouteAnalytics)); err != nil {
		t.Fatal(err)
	}
	if _, err := nav.Navigate(ctx, router.ToName(RouteGate)); !errors.Is(err, closed) {
		t.Fatalf("err = %v, want guard error", err)
	}
	if got := nav.Current().Route.Name; got != RouteAnalytics {
		t.Errorf("current = %q after abort", got)
	}

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if spans[0].Name() != "navigate analytics" || spans[1].Name() != "navigate gate" {
		t.Errorf("span names = %q, %q", spans[0].Name(), spans[1].Name())
	}
}

func TestAppMetricsConfig(t *testing.T) {
	cfg := config.New()
	cfg.Metrics.Subsystem = "lot"
	cfg.Metrics.Labels = map[string]string{"site": "north"}
	app := newTestApp(t, cfg)

	ctx := context.Background()
	nav := app.Router.NewNavigator(nil)
	nav.Navigate(ctx, router.ToName(RouteGate))
	nav.Navigate(ctx, router.ToName(RouteGate))

	_, body := serve(t, app.Handler(), "/metrics")
	for _, want := range []string{
		`parkdash_lot_navigations_total{op="push",route="gate",site="north",status="ok"} 1`,
		`parkdash_lot_navigations_total{op="none",route="gate",site="north",status="duplicate"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics lack %s:\n%s", want, body)
		}
	}
}

func TestAppGuardsSkipDuplicates(t *testing.T) {
	calls := 0
	guard := router.Guard(func(*router.Navigation) error {
		calls++
		return nil
	}, RouteGate)
	app := newTestApp(t, config.New(), WithGuards(guard))

	ctx := context.Background()
	nav := app.Router.NewNavigator(nil)
	for range 3 {
		if _, err := nav.Navigate(ctx, router.ToName(RouteGate)); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Errorf("guard ran %d times, want 1", calls)
	}
}
