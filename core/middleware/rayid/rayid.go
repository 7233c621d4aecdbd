// Package rayid assigns a unique request id to every incoming request.
package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the response header carrying the generated id.
const HeaderName = "X-Ray-Id"

// LocalsKey is the fiber locals key under which the id is stored, read back
// by logger.WithRayID.
const LocalsKey = "ray_id"

// New creates the RayID middleware. An incoming X-Ray-Id header is honored
// so upstream proxies can propagate their own correlation ids.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderName)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(LocalsKey, rid)
		c.Set(HeaderName, rid)
		return c.Next()
	}
}
