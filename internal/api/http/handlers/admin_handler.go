package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/grievance-service/internal/api/dto"
	"github.com/civicdesk/grievance-service/internal/domain"
	"github.com/civicdesk/grievance-service/internal/repository"
	"github.com/civicdesk/grievance-service/internal/service"
	"github.com/civicdesk/grievance-service/pkg/errorutil"
)

// AdminHandler manages the password-gated admin endpoints.
type AdminHandler struct {
	auth       *service.AuthService
	grievances *service.GrievanceService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(authService *service.AuthService, grievanceService *service.GrievanceService) *AdminHandler {
	return &AdminHandler{auth: authService, grievances: grievanceService}
}

// Login POST /admin/login.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if req.Password == "" {
		return errorutil.NewValidationError("password required", nil)
	}
	token, exp, err := h.auth.LoginAdmin(c.UserContext(), req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{Token: token, ExpiresAt: exp}})
}

// List GET /admin/grievances.
func (h *AdminHandler) List(c *fiber.Ctx) error {
	filter := repository.ListFilter{
		Status:   domain.Status(c.Query("status")),
		Priority: domain.Priority(c.Query("priority")),
		Category: domain.Category(c.Query("category")),
		Limit:    parseInt(c.Query("limit"), repository.DefaultListLimit),
	}
	items, err := h.grievances.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceList(items)})
}

// Search GET /admin/grievances/search.
func (h *AdminHandler) Search(c *fiber.Ctx) error {
	items, err := h.grievances.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceList(items)})
}

// UpdateStatus PATCH /admin/grievances/:ticket/status.
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	g, err := h.grievances.UpdateStatus(c.UserContext(), c.Params("ticket"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewGrievanceResponse(g)})
}

// DeleteAll DELETE /admin/grievances?confirm=true.
func (h *AdminHandler) DeleteAll(c *fiber.Ctx) error {
	if !c.QueryBool("confirm") {
		return errorutil.NewValidationError("confirm=true is required to delete every grievance", nil)
	}
	removed, err := h.grievances.DeleteAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"removed": removed}})
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
