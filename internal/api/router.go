package api

import (
	"chatdesk/docs"
	"chatdesk/internal/api/handlers"
	"chatdesk/pkg/auth"
	"chatdesk/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func SetupRouter(
	chatHandler *handlers.ChatHandler,
	wsHandler *handlers.WSHandler,
	deptHandler *handlers.DepartmentHandler,
	authHandler *handlers.AuthHandler,
	clientResolver middleware.ClientResolver,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key",
	}))
	app.Use(logger.New())

	// Swagger - importing the docs package registers the documentation via init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health check
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "Online"})
	})

	apiKey := middleware.APIKeyMiddleware(clientResolver, appLogger)

	// Chat routes (client API key)
	chat := app.Group("/api/chat", apiKey)
	chat.Post("/process", chatHandler.Process)
	chat.Post("/transfer", chatHandler.Transfer)

	// Persistent chat transport
	app.Use("/ws/chat", apiKey, wsHandler.Upgrade)
	app.Get("/ws/chat", wsHandler.Chat())

	// Admin routes
	admin := app.Group("/api/admin")

	adminAuth := admin.Group("/auth")
	adminAuth.Post("/register", authHandler.Register)
	adminAuth.Post("/login", authHandler.Login)
	adminAuth.Post("/refresh", authHandler.RefreshToken)

	protected := admin.Group("", middleware.AuthMiddleware(jwtManager, appLogger))
	protected.Get("/departments", deptHandler.List)
	protected.Post("/departments", deptHandler.Create)
	protected.Put("/departments/:id", deptHandler.Update)
	protected.Delete("/departments/:id", deptHandler.Delete)
	protected.Get("/transcripts/:session_id", deptHandler.Transcript)

	return app
}
