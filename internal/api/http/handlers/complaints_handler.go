package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sanitation-service/internal/api/dto"
	"github.com/spec-kit/sanitation-service/internal/auth"
	"github.com/spec-kit/sanitation-service/internal/domain"
	"github.com/spec-kit/sanitation-service/internal/service"
	apperrors "github.com/spec-kit/sanitation-service/pkg/util/errorutil"
)

// ComplaintsHandler manages complaint lifecycle endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// CreateComplaint POST /complaints.
func (h *ComplaintsHandler) CreateComplaint(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.ComplaintCreateInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Longitude:   req.Longitude,
		Latitude:    req.Latitude,
		Category:    req.Category,
		Priority:    req.Priority,
	}
	complaint, err := h.service.CreateComplaint(c.Context(), principal.User.ID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(complaintResponse(complaint))
}

// ListComplaints GET /complaints.
func (h *ComplaintsHandler) ListComplaints(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	details, err := h.service.ListComplaints(c.Context(), principal.User)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintResponse, 0, len(details))
	for i := range details {
		items = append(items, complaintDetailResponse(&details[i]))
	}
	return c.JSON(items)
}

// AssignComplaint POST /complaints/:id/assign.
func (h *ComplaintsHandler) AssignComplaint(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.service.AssignComplaint(c.Context(), principal.User.ID, c.Params("id"), req.Team)
	if err != nil {
		return err
	}
	return c.JSON(complaintResponse(complaint))
}

// ResolveComplaint POST /complaints/:id/resolve.
func (h *ComplaintsHandler) ResolveComplaint(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ResolveComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.service.ResolveComplaint(c.Context(), principal.User.ID, c.Params("id"), req.ProofImageURL)
	if err != nil {
		return err
	}
	return c.JSON(complaintResponse(complaint))
}

func complaintResponse(complaint *domain.Complaint) dto.ComplaintResponse {
	return dto.ComplaintResponse{
		ID:            complaint.ID,
		Title:         complaint.Title,
		Description:   complaint.Description,
		ImageURL:      complaint.ImageURL,
		Category:      complaint.Category,
		Priority:      complaint.Priority,
		SeverityScore: complaint.SeverityScore,
		Longitude:     complaint.Longitude,
		Latitude:      complaint.Latitude,
		Status:        complaint.Status,
		AssignedTeam:  complaint.AssignedTeam,
		AssignedBy:    complaint.AssignedBy,
		ResolvedBy:    complaint.ResolvedBy,
		ProofImageURL: complaint.ProofImageURL,
		CreatedBy:     complaint.CreatedBy,
		CreatedAt:     complaint.CreatedAt,
		UpdatedAt:     complaint.UpdatedAt,
	}
}

func complaintDetailResponse(detail *domain.ComplaintDetail) dto.ComplaintResponse {
	resp := complaintResponse(&detail.Complaint)
	resp.Creator = userRefResponse(detail.Creator)
	resp.Assigner = userRefResponse(detail.Assigner)
	resp.Resolver = userRefResponse(detail.Resolver)
	return resp
}

func userRefResponse(ref *domain.UserRef) *dto.UserRefResponse {
	if ref == nil {
		return nil
	}
	return &dto.UserRefResponse{
		ID:    ref.ID,
		Name:  ref.Name,
		Email: ref.Email,
		Role:  ref.Role,
	}
}
