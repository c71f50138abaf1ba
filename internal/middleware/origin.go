package middleware

import (
	"github.com/gofiber/fiber/v3"

	"searchlog/internal/validation"
)

// OriginKey is the Locals key holding the caller's origin.
const OriginKey = "origin"

// OriginMiddleware identifies the client a request comes from. Behind a
// proxy the address is read from a configured header; otherwise the
// connection's remote IP is used.
type OriginMiddleware struct {
	header string
}

// NewOriginMiddleware creates an origin middleware. An empty header means
// the remote IP is always used.
func NewOriginMiddleware(header string) *OriginMiddleware {
	return &OriginMiddleware{header: header}
}

// Identify stores the request origin in Locals under OriginKey.
func (m *OriginMiddleware) Identify(c fiber.Ctx) error {
	c.Locals(OriginKey, m.resolve(c))
	return c.Next()
}

func (m *OriginMiddleware) resolve(c fiber.Ctx) string {
	if m.header != "" {
		origin := validation.OriginFromHeader(c.Get(m.header))
		if validation.ValidateOriginKey(origin) {
			return origin
		}
	}
	return c.IP()
}

// Origin returns the origin stored by Identify, or the remote IP if the
// middleware did not run.
func Origin(c fiber.Ctx) string {
	if origin, ok := c.Locals(OriginKey).(string); ok && origin != "" {
		return origin
	}
	return c.IP()
}
