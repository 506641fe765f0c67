package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sanitation-service/internal/api/dto"
	"github.com/spec-kit/sanitation-service/internal/domain"
	"github.com/spec-kit/sanitation-service/internal/service"
	apperrors "github.com/spec-kit/sanitation-service/pkg/util/errorutil"
)

// TeamsHandler manages team registry endpoints.
type TeamsHandler struct {
	service *service.TeamService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(teamService *service.TeamService) *TeamsHandler {
	return &TeamsHandler{service: teamService}
}

// CreateTeam POST /teams.
func (h *TeamsHandler) CreateTeam(c *fiber.Ctx) error {
	var req dto.CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	team, err := h.service.CreateTeam(c.Context(), req.Name, req.Members)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(teamResponse(team))
}

// ListTeams GET /teams.
func (h *TeamsHandler) ListTeams(c *fiber.Ctx) error {
	teams, err := h.service.ListTeams(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		items = append(items, teamResponse(&teams[i]))
	}
	return c.JSON(items)
}

// UpdateTeamStatus PATCH /teams/:name/status.
func (h *TeamsHandler) UpdateTeamStatus(c *fiber.Ctx) error {
	var req dto.UpdateTeamStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	team, err := h.service.SetTeamStatus(c.Context(), c.Params("name"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(teamResponse(team))
}

func teamResponse(team *domain.Team) dto.TeamResponse {
	return dto.TeamResponse{
		Name:        team.Name,
		Status:      team.Status,
		ActiveTasks: team.ActiveTasks,
		Completed:   team.Completed,
		Members:     team.Members,
		CreatedAt:   team.CreatedAt,
		UpdatedAt:   team.UpdatedAt,
	}
}
