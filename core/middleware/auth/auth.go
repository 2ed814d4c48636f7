package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// HeaderName is the header carrying the API key.
const HeaderName = "X-API-Key"

// Config configures the middleware.
type Config struct {
	// ApiKey is the expected key. Empty lets every request through.
	ApiKey string
	// Next skips the middleware when it returns true.
	Next func(c *fiber.Ctx) bool
}

// New rejects requests whose X-API-Key header does not match the configured key.
func New(cfg Config) fiber.Handler {
	expected := []byte(cfg.ApiKey)
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" || (cfg.Next != nil && cfg.Next(c)) {
			return c.Next()
		}
		key := c.Get(HeaderName)
		if key == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing API key"})
		}
		if subtle.ConstantTimeCompare([]byte(key), expected) != 1 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "invalid API key"})
		}
		return c.Next()
	}
}
