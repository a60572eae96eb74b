package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// OperatorContextMiddleware guards booth-operator actions (clearing the
// session window, changing settings). The Gateway forwards the operator
// identity in X-Operator-ID after authenticating the admin UI.
func OperatorContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		operatorID := c.Get("X-Operator-ID")
		if operatorID == "" {
			log.Printf("❌ [OPERATOR_CTX] X-Operator-ID missing on %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-Operator-ID — request must come through gateway with operator context",
			})
		}

		c.Locals("operator_id", operatorID)
		return c.Next()
	}
}
