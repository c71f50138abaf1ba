package server

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"searchlog/internal/config"
	"searchlog/internal/db"
	"searchlog/internal/terms"
)

func newTestServer(t *testing.T, rateLimit int) *Server {
	t.Helper()
	cfg := &config.Config{
		Env:          "test",
		BaseURL:      "http://localhost:3000",
		Store:        config.StoreMemory,
		OriginHeader: "X-Forwarded-For",
		RateLimitMax: rateLimit,
		SiteTitle:    "Search Log",
	}
	s := New(cfg)
	s.RegisterRoutes(terms.NewService(db.NewMemory(), terms.DefaultPolicy()))
	return s
}

func send(t *testing.T, app *fiber.App, method, target, body, origin string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if origin != "" {
		req.Header.Set("X-Forwarded-For", origin)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, target, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(data)
}

func TestServer_IngestAndAnalytics(t *testing.T) {
	s := newTestServer(t, 100)

	if status, body := send(t, s.App, "POST", "/searches", `{"term":"How do I"}`, "198.51.100.4"); status != 200 {
		t.Fatalf("POST /searches = %d %s", status, body)
	}
	if status, body := send(t, s.App, "POST", "/searches", `{"term":"How do I exit vim"}`, "198.51.100.4"); status != 200 {
		t.Fatalf("POST /searches = %d %s", status, body)
	}

	status, body := send(t, s.App, "GET", "/searches/analytics", "", "198.51.100.4")
	if status != 200 {
		t.Fatalf("GET /searches/analytics = %d %s", status, body)
	}
	if !strings.Contains(body, `"term":"how do i exit vim"`) {
		t.Errorf("analytics missing merged term: %s", body)
	}
	if strings.Contains(body, `"term":"how do i"`) {
		t.Errorf("analytics still lists the superseded fragment: %s", body)
	}
}

func TestServer_Dashboard(t *testing.T) {
	s := newTestServer(t, 100)
	send(t, s.App, "POST", "/searches", `{"term":"postgres vacuum"}`, "198.51.100.4")

	for _, path := range []string{"/", "/searches"} {
		status, body := send(t, s.App, "GET", path, "", "198.51.100.4")
		if status != 200 {
			t.Errorf("GET %s = %d", path, status)
		}
		if !strings.Contains(body, "postgres vacuum") {
			t.Errorf("GET %s does not show the logged search", path)
		}
	}
}

func TestServer_NotFoundRendersErrorPage(t *testing.T) {
	s := newTestServer(t, 100)

	status, body := send(t, s.App, "GET", "/does-not-exist", "", "")
	if status != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	if !strings.Contains(body, "Back to searches") {
		t.Errorf("error page not rendered: %s", body)
	}
}

func TestServer_APIErrorsAreJSON(t *testing.T) {
	s := newTestServer(t, 100)

	status, body := send(t, s.App, "GET", "/searches/unknown", "", "")
	if status != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	if !strings.Contains(body, `"status":"error"`) {
		t.Errorf("body = %s, want JSON error envelope", body)
	}
}

func TestServer_RateLimitPerOrigin(t *testing.T) {
	s := newTestServer(t, 2)

	for i := 0; i < 2; i++ {
		if status, _ := send(t, s.App, "GET", "/searches/suggestions?term=x", "", "203.0.113.1"); status != 200 {
			t.Fatalf("request %d status = %d, want 200", i+1, status)
		}
	}

	status, body := send(t, s.App, "GET", "/searches/suggestions?term=x", "", "203.0.113.1")
	if status != fiber.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", status)
	}
	if !strings.Contains(body, "Rate limit exceeded") {
		t.Errorf("body = %s", body)
	}

	// Another origin has its own budget.
	if status, _ := send(t, s.App, "GET", "/searches/suggestions?term=x", "", "203.0.113.2"); status != 200 {
		t.Errorf("other origin status = %d, want 200", status)
	}

	// Probes are never limited.
	for i := 0; i < 3; i++ {
		if status, _ := send(t, s.App, "GET", "/healthz", "", "203.0.113.1"); status != 200 {
			t.Errorf("/healthz status = %d, want 200", status)
		}
	}
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t, 100)

	status, body := send(t, s.App, "GET", "/metrics", "", "")
	if status != 200 {
		t.Fatalf("GET /metrics = %d", status)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Errorf("metrics output missing runtime collectors")
	}
}
