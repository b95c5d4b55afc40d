package handlers

import (
	"errors"
	"time"

	"chatdesk/internal/dto"
	"chatdesk/internal/models"
	"chatdesk/internal/repository"
	"chatdesk/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DepartmentHandler struct {
	departments *service.DepartmentService
	transcripts *repository.TranscriptRepository
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewDepartmentHandler(departments *service.DepartmentService, transcripts *repository.TranscriptRepository, logger *zap.Logger) *DepartmentHandler {
	return &DepartmentHandler{
		departments: departments,
		transcripts: transcripts,
		validate:    validator.New(),
		logger:      logger,
	}
}

// List godoc
// @Summary List departments
// @Tags departments
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.DepartmentResponse
// @Router /api/admin/departments [get]
func (h *DepartmentHandler) List(c *fiber.Ctx) error {
	clientID, err := clientIDFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid client"})
	}

	departments, err := h.departments.List(c.Context(), clientID)
	if err != nil {
		h.logger.Error("Failed to list departments", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list departments"})
	}

	resp := make([]dto.DepartmentResponse, 0, len(departments))
	for i := range departments {
		resp = append(resp, toDepartmentResponse(&departments[i]))
	}
	return c.JSON(resp)
}

// Create godoc
// @Summary Create a department
// @Tags departments
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CreateDepartmentRequest true "Department"
// @Success 201 {object} dto.DepartmentResponse
// @Failure 400 {object} map[string]string
// @Router /api/admin/departments [post]
func (h *DepartmentHandler) Create(c *fiber.Ctx) error {
	clientID, err := clientIDFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid client"})
	}

	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name and canned_response are required"})
	}

	dept, err := h.departments.Create(c.Context(), clientID, &req)
	if err != nil {
		if errors.Is(err, service.ErrReservedName) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "GENERAL is a reserved name"})
		}
		h.logger.Error("Failed to create department", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create department"})
	}

	return c.Status(fiber.StatusCreated).JSON(toDepartmentResponse(dept))
}

// Update godoc
// @Summary Update a department
// @Tags departments
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Department ID"
// @Param request body dto.UpdateDepartmentRequest true "Department"
// @Success 200 {object} dto.DepartmentResponse
// @Failure 404 {object} map[string]string
// @Router /api/admin/departments/{id} [put]
func (h *DepartmentHandler) Update(c *fiber.Ctx) error {
	clientID, err := clientIDFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid client"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid department id"})
	}

	var req dto.UpdateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name and canned_response are required"})
	}

	dept, err := h.departments.Update(c.Context(), clientID, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReservedName):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "GENERAL is a reserved name"})
		case errors.Is(err, service.ErrDepartmentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Department not found"})
		}
		h.logger.Error("Failed to update department", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update department"})
	}

	return c.JSON(toDepartmentResponse(dept))
}

// Delete godoc
// @Summary Delete a department
// @Tags departments
// @Produce json
// @Security Bearer
// @Param id path string true "Department ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/admin/departments/{id} [delete]
func (h *DepartmentHandler) Delete(c *fiber.Ctx) error {
	clientID, err := clientIDFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid client"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid department id"})
	}

	if err := h.departments.Delete(c.Context(), clientID, id); err != nil {
		if errors.Is(err, service.ErrDepartmentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Department not found"})
		}
		h.logger.Error("Failed to delete department", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete department"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Transcript godoc
// @Summary Get a session transcript
// @Tags departments
// @Produce json
// @Security Bearer
// @Param session_id path string true "Session ID"
// @Success 200 {array} dto.TranscriptEntryResponse
// @Router /api/admin/transcripts/{session_id} [get]
func (h *DepartmentHandler) Transcript(c *fiber.Ctx) error {
	clientID, err := clientIDFromLocals(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid client"})
	}

	entries, err := h.transcripts.ListBySession(c.Context(), clientID, c.Params("session_id"))
	if err != nil {
		h.logger.Error("Failed to load transcript", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load transcript"})
	}

	resp := make([]dto.TranscriptEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.TranscriptEntryResponse{
			Sender:     string(entry.Sender),
			Message:    entry.Message,
			Department: entry.Department,
			Timestamp:  entry.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(resp)
}

func clientIDFromLocals(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals("clientID").(string)
	return uuid.Parse(raw)
}

func toDepartmentResponse(dept *models.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:             dept.ID.String(),
		Name:           dept.Name,
		Keywords:       dept.Keywords,
		CannedResponse: dept.CannedResponse,
		KnowledgeBase:  dept.KnowledgeBase,
		Recipient:      dept.Recipient,
		Position:       dept.Position,
		CreatedAt:      dept.CreatedAt.Format(time.RFC3339),
	}
}
