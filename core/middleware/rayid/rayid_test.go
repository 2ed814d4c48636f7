package rayid

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRayID(t *testing.T) {
	var seen string
	app := fiber.New()
	app.Use(New())
	app.Get("/", func(c *fiber.Ctx) error {
		seen, _ = c.Locals(LocalsKey).(string)
		return nil
	})

	t.Run("Generated", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		_, perr := uuid.Parse(seen)
		assert.NoError(t, perr)
		assert.Equal(t, seen, resp.Header.Get(HeaderName))
	})

	t.Run("Propagated", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set(HeaderName, "upstream-id")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, "upstream-id", seen)
		assert.Equal(t, "upstream-id", resp.Header.Get(HeaderName))
	})
}
