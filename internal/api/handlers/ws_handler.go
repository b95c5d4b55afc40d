package handlers

import (
	"context"

	"chatdesk/internal/dto"
	"chatdesk/internal/models"
	"chatdesk/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// WSHandler serves the persistent chat transport. One connection carries
// one logical session: the connection tracks current_department between
// turns and processes messages strictly one at a time, which gives the
// per-session ordering the stateless HTTP endpoint cannot.
type WSHandler struct {
	router *service.RouterService
	logger *zap.Logger
}

func NewWSHandler(router *service.RouterService, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		router: router,
		logger: logger,
	}
}

// Upgrade gates the route so only websocket upgrade requests pass.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (h *WSHandler) Chat() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client, ok := conn.Locals("client").(*models.Client)
		if !ok {
			_ = conn.WriteJSON(fiber.Map{"error": "unauthenticated connection"})
			return
		}

		current := models.GeneralDepartment
		for {
			var req dto.ChatRequest
			if err := conn.ReadJSON(&req); err != nil {
				h.logger.Debug("WebSocket connection closed", zap.Error(err))
				return
			}

			if req.SessionID == "" || req.Text == "" {
				_ = conn.WriteJSON(fiber.Map{"error": "session_id and text are required"})
				continue
			}

			// The caller may override the connection-held state, e.g.
			// when resuming a persisted session.
			if req.CurrentDepartment != "" {
				current = req.CurrentDepartment
			}

			decision := h.router.Process(context.Background(), client.ID, req.SessionID, current, req.Text)
			if decision.Action == service.ActionTransfer {
				current = decision.Department
			}

			if err := conn.WriteJSON(dto.ChatResponse{
				Department: decision.Department,
				BotMessage: decision.Message,
				Action:     string(decision.Action),
			}); err != nil {
				h.logger.Debug("WebSocket write failed", zap.Error(err))
				return
			}
		}
	})
}
