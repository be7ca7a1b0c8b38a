package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/grievance-service/internal/api/dto"
	"github.com/civicdesk/grievance-service/internal/domain"
	"github.com/civicdesk/grievance-service/internal/report"
	"github.com/civicdesk/grievance-service/internal/service"
	"github.com/civicdesk/grievance-service/pkg/errorutil"
)

// GrievancesHandler manages the public grievance endpoints.
type GrievancesHandler struct {
	service *service.GrievanceService
}

// NewGrievancesHandler constructs handler.
func NewGrievancesHandler(grievanceService *service.GrievanceService) *GrievancesHandler {
	return &GrievancesHandler{service: grievanceService}
}

// Submit POST /grievances.
func (h *GrievancesHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitGrievanceRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}

	g, err := h.service.Intake(c.UserContext(), domain.SubmitterInfo{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}, req.ComplaintText)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewGrievanceResponse(g)})
}

// Preview POST /triage/preview.
func (h *GrievancesHandler) Preview(c *fiber.Ctx) error {
	var req dto.PreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	assessment, err := h.service.Preview(req.ComplaintText)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAssessmentResponse(assessment)})
}

// Track GET /grievances/:ticket.
func (h *GrievancesHandler) Track(c *fiber.Ctx) error {
	tracked, err := h.service.Track(c.UserContext(), c.Params("ticket"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TrackResponse{
		Grievance: dto.NewGrievanceResponse(&tracked.Grievance),
		Contact:   dto.NewContactResponse(tracked.Contact),
	}})
}

// Report GET /grievances/:ticket/report.
func (h *GrievancesHandler) Report(c *fiber.Ctx) error {
	tracked, err := h.service.Track(c.UserContext(), c.Params("ticket"))
	if err != nil {
		return err
	}
	doc, err := report.HTML(tracked.Grievance, tracked.Contact)
	if err != nil {
		return errorutil.NewInternalError(err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	if c.QueryBool("download") {
		c.Attachment("grievance_" + tracked.Grievance.TicketID + ".html")
	}
	return c.Send(doc)
}

// Dashboard GET /dashboard.
func (h *GrievancesHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.service.Statistics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatisticsResponse(stats)})
}
