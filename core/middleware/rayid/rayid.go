package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

const (
	// HeaderName is the request and response header carrying the ray id.
	HeaderName = "X-Ray-ID"
	// LocalsKey is where the ray id is stored on the Fiber context.
	LocalsKey = "ray_id"
)

// New tags every request with a ray id. An incoming X-Ray-ID header is reused.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := utils.CopyString(c.Get(HeaderName))
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(LocalsKey, id)
		c.Set(HeaderName, id)
		return c.Next()
	}
}
