package http

import (
	"context"
	"io"
	"log/slog"
	"net"
	gohttp "net/http"
	"strings"
	"testing"
	"time"

	"github.com/rhuss/healthchat/pkg/engine"
	"github.com/rhuss/healthchat/pkg/session"
)

type stubIssuer struct{}

func (stubIssuer) Issue(id string) (string, time.Time, error) {
	return "token-" + id, time.Now().Add(time.Hour), nil
}

func newTestAdapter() *Adapter {
	store := session.NewStore(func() (*engine.Engine, error) {
		return engine.New(&scriptedProvider{reply: "ok"}, engine.Config{})
	}, session.Options{})
	return NewAdapter(store, stubIssuer{}, DefaultConfig())
}

func TestServerStartsAndAcceptsRequests(t *testing.T) {
	srv := NewServer(newTestAdapter(), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	addr := ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ServeOn(ctx, ln) }()

	var resp *gohttp.Response
	for i := 0; i < 50; i++ {
		resp, err = gohttp.Get("http://" + addr + "/healthz")
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != gohttp.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, gohttp.StatusOK)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("ServeOn returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after context cancellation")
	}
}

func TestServerGracefulShutdown(t *testing.T) {
	adapter := newTestAdapter()
	release := make(chan struct{})
	adapter.Handle("GET /slow", gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
		<-release
		w.Write([]byte("done"))
	}))

	srv := NewServer(adapter)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	addr := ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.ServeOn(ctx, ln)

	bodyCh := make(chan string, 1)
	go func() {
		resp, err := gohttp.Get("http://" + addr + "/slow")
		if err != nil {
			bodyCh <- "error: " + err.Error()
			return
		}
		defer resp.Body.Close()
		b, _ := io.ReadAll(resp.Body)
		bodyCh <- string(b)
	}()

	time.Sleep(50 * time.Millisecond)

	shutdownDone := make(chan error, 1)
	go func() {
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		shutdownDone <- srv.Shutdown(sctx)
	}()

	time.Sleep(20 * time.Millisecond)
	close(release)

	if body := <-bodyCh; body != "done" {
		t.Errorf("in-flight request body = %q, want %q", body, "done")
	}
	if err := <-shutdownDone; err != nil {
		t.Errorf("Shutdown error: %v", err)
	}
}

func TestServerMetricsEndpoint(t *testing.T) {
	srv := NewServer(newTestAdapter(), WithMetrics("/metrics"))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.ServeOn(ctx, ln)

	base := "http://" + ln.Addr().String()
	var resp *gohttp.Response
	for i := 0; i < 50; i++ {
		resp, err = gohttp.Get(base + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}

	resp, err = gohttp.Get(base + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "healthchat_requests_total") {
		t.Error("metrics output missing healthchat_requests_total")
	}
}

func TestServerFunctionalOptions(t *testing.T) {
	srv := NewServer(newTestAdapter(),
		WithAddr(":9999"),
		WithTimeouts(5*time.Second, 10*time.Second),
		WithShutdownTimeout(15*time.Second),
		WithMetrics("/m"),
	)

	if srv.config.Addr != ":9999" {
		t.Errorf("Addr = %q, want %q", srv.config.Addr, ":9999")
	}
	if srv.httpServer.ReadTimeout != 5*time.Second || srv.httpServer.WriteTimeout != 10*time.Second {
		t.Errorf("timeouts = %v/%v", srv.httpServer.ReadTimeout, srv.httpServer.WriteTimeout)
	}
	if srv.config.ShutdownTimeout != 15*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 15s", srv.config.ShutdownTimeout)
	}
	if srv.config.MetricsPath != "/m" {
		t.Errorf("MetricsPath = %q", srv.config.MetricsPath)
	}
	if srv.config.AuthChain != nil {
		t.Error("auth should be disabled by default")
	}
}

func TestRendererDropsRawHTML(t *testing.T) {
	r := NewRenderer()

	out := r.Render("Drink *water*.\n\n<script>alert(1)</script>")
	if !strings.Contains(out, "<em>water</em>") {
		t.Errorf("emphasis not rendered: %q", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("raw HTML passed through: %q", out)
	}
}

func TestRendererLists(t *testing.T) {
	out := NewRenderer().Render("- rest\n- fluids")
	if !strings.Contains(out, "<li>rest</li>") || !strings.Contains(out, "<li>fluids</li>") {
		t.Errorf("list not rendered: %q", out)
	}
}
