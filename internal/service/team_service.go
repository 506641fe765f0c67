package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/sanitation-service/internal/domain"
	"github.com/spec-kit/sanitation-service/internal/repository"
	apperrors "github.com/spec-kit/sanitation-service/pkg/util/errorutil"
)

// TeamService administers the team registry. It never touches the workload
// counters; those move only through lifecycle transitions.
type TeamService struct {
	teams repository.TeamRepository
}

// NewTeamService constructs the service.
func NewTeamService(teams repository.TeamRepository) *TeamService {
	return &TeamService{teams: teams}
}

// CreateTeam registers a new response team.
func (s *TeamService) CreateTeam(ctx context.Context, name string, members []string) (*domain.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if _, err := s.teams.GetByName(ctx, name); err == nil {
		return nil, apperrors.NewConflict("team already exists", map[string]any{"team": name})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	team := &domain.Team{
		Name:    name,
		Status:  domain.TeamStatusActive,
		Members: members,
	}
	if team.Members == nil {
		team.Members = []string{}
	}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, apperrors.MapError(err)
	}
	return team, nil
}

// ListTeams returns all teams.
func (s *TeamService) ListTeams(ctx context.Context) ([]domain.Team, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return teams, nil
}

// SetTeamStatus switches a team between Active and Break.
func (s *TeamService) SetTeamStatus(ctx context.Context, name string, status domain.TeamStatus) (*domain.Team, error) {
	if status != domain.TeamStatusActive && status != domain.TeamStatusBreak {
		return nil, apperrors.NewValidationError("status must be Active or Break", nil)
	}
	if err := s.teams.SetStatus(ctx, name, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("team", nil)
		}
		return nil, apperrors.MapError(err)
	}
	team, err := s.teams.GetByName(ctx, name)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return team, nil
}
