package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func TestOriginMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		value      string
		want       string
		wantRemote bool
	}{
		{"no header configured", "", "", "", true},
		{"header configured but absent", "X-Forwarded-For", "", "", true},
		{"single address", "X-Forwarded-For", "203.0.113.7", "203.0.113.7", false},
		{"forwarding chain", "X-Forwarded-For", "203.0.113.7, 10.0.0.1", "203.0.113.7", false},
		{"padded value", "X-Real-IP", "  198.51.100.2  ", "198.51.100.2", false},
		{"blank first entry", "X-Forwarded-For", " , 10.0.0.1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(NewOriginMiddleware(tt.header).Identify)

			var remote string
			app.Get("/", func(c fiber.Ctx) error {
				remote = c.IP()
				return c.SendString(Origin(c))
			})

			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" && tt.value != "" {
				req.Header.Set(tt.header, tt.value)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			body, _ := io.ReadAll(resp.Body)

			want := tt.want
			if tt.wantRemote {
				want = remote
			}
			if string(body) != want {
				t.Errorf("origin = %q, want %q", body, want)
			}
		})
	}
}

func TestOrigin_WithoutMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c fiber.Ctx) error {
		if got := Origin(c); got != c.IP() {
			t.Errorf("Origin() = %q, want remote IP %q", got, c.IP())
		}
		return nil
	})

	if _, err := app.Test(httptest.NewRequest("GET", "/", nil)); err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
}
