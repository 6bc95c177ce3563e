package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/123Haben/parking-place/pkg/middleware"
	"github.com/123Haben/parking-place/pkg/router"
)

func TestNewRequiresRouter(t *testing.T) {
	if _, err := New(Options{}); !errors.Is(err, ErrNoRouter) {
		t.Fatalf("err = %v, want ErrNoRouter", err)
	}
}

func TestServeStopsOnContextCancel(t *testing.T) {
	s := newTestServer(t, testRouter(t))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Timeout: 5 * time.Second}
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = client.Get("http://" + ln.Addr().String() + "/healthz")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	client.CloseIdleConnections()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServeTwice(t *testing.T) {
	s := newTestServer(t, testRouter(t))

	ln1, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln1) }()

	// Wait for the first Serve to claim the server.
	deadline := time.Now().Add(5 * time.Second)
	for {
		s.mu.Lock()
		started := s.httpServer != nil
		s.mu.Unlock()
		if started {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("first Serve did not start")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ln2, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	if err := s.Serve(context.Background(), ln2); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Serve = %v, want ErrAlreadyRunning", err)
	}

	cancel()
	<-done
}

func TestWebSocketRefusedWhileShuttingDown(t *testing.T) {
	s := newTestServer(t, testRouter(t))
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	rr := get(t, s, SocketPath)
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := middleware.NewMetrics(middleware.WithRegistry(reg))
	r := testRouter(t, router.WithMiddleware(metrics.Middleware()))
	s := newTestServer(t, r, func(o *Options) {
		o.Metrics = metrics
		o.Gatherer = reg
	})

	c := dial(t, s, nil)
	c.hello("/gate")
	c.render()

	rr := get(t, s, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	for _, want := range []string{
		`parkdash_navigations_total{op="replace",route="gate",status="ok"} 1`,
		`parkdash_active_sessions 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %q:\n%s", want, body)
		}
	}
}

func TestMetricsEndpointIgnoresBase(t *testing.T) {
	s := newTestServer(t, testRouter(t, router.WithBase("/app")), func(o *Options) {
		o.Gatherer = prometheus.NewRegistry()
	})

	if rr := get(t, s, "/metrics"); rr.Code != http.StatusOK {
		t.Errorf("/metrics status = %d", rr.Code)
	}
	if rr := get(t, s, "/healthz"); rr.Code != http.StatusOK {
		t.Errorf("/healthz status = %d", rr.Code)
	}
}
