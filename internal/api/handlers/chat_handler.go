package handlers

import (
	"chatdesk/internal/dto"
	"chatdesk/internal/models"
	"chatdesk/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ChatHandler struct {
	router   *service.RouterService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewChatHandler(router *service.RouterService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		router:   router,
		validate: validator.New(),
		logger:   logger,
	}
}

// Process godoc
// @Summary Process an inbound chat message
// @Description Routes a message through the department state machine and returns the bot reply
// @Tags chat
// @Accept json
// @Produce json
// @Param X-API-Key header string true "Client API key"
// @Param request body dto.ChatRequest true "Inbound message"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/chat/process [post]
func (h *ChatHandler) Process(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Missing session id or text is the one error class surfaced to the
	// caller; everything past this point degrades internally.
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session_id and text are required",
		})
	}

	client := c.Locals("client").(*models.Client)
	decision := h.router.Process(c.Context(), client.ID, req.SessionID, req.CurrentDepartment, req.Text)

	return c.JSON(dto.ChatResponse{
		Department: decision.Department,
		BotMessage: decision.Message,
		Action:     string(decision.Action),
	})
}

// Transfer godoc
// @Summary Manually transfer a session to a department
// @Description Forces a session into the target department without running the classifier
// @Tags chat
// @Accept json
// @Produce json
// @Param X-API-Key header string true "Client API key"
// @Param request body dto.TransferRequest true "Transfer request"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} map[string]string
// @Router /api/chat/transfer [post]
func (h *ChatHandler) Transfer(c *fiber.Ctx) error {
	var req dto.TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session_id and target_department are required",
		})
	}

	client := c.Locals("client").(*models.Client)
	decision := h.router.Transfer(c.Context(), client.ID, req.SessionID, req.TargetDepartment)

	return c.JSON(dto.ChatResponse{
		Department: decision.Department,
		BotMessage: decision.Message,
		Action:     string(decision.Action),
	})
}
