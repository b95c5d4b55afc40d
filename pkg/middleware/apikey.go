package middleware

import (
	"context"

	"chatdesk/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ClientResolver maps an API key to a client. Backed by the client
// repository in production.
type ClientResolver interface {
	GetByAPIKey(ctx context.Context, apiKey string) (*models.Client, error)
}

// APIKeyMiddleware authenticates chat traffic by the X-API-Key header and
// stores the resolved client in request locals.
func APIKeyMiddleware(resolver ClientResolver, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := c.Get("X-API-Key")
		if apiKey == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "API key required",
			})
		}

		client, err := resolver.GetByAPIKey(c.Context(), apiKey)
		if err != nil {
			logger.Warn("Invalid API key")
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Invalid API key",
			})
		}

		c.Locals("client", client)
		return c.Next()
	}
}
