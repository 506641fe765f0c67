package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/sanitation-service/internal/domain"
	"github.com/spec-kit/sanitation-service/internal/events"
	"github.com/spec-kit/sanitation-service/internal/repository"
	apperrors "github.com/spec-kit/sanitation-service/pkg/util/errorutil"
)

// EcoPointsReward is credited to the reporter on every accepted complaint.
const EcoPointsReward = 10

// listPageSize caps complaint listings.
const listPageSize = 200

// ComplaintService coordinates the complaint lifecycle: create, assign,
// resolve. It is the only writer of complaint state and team counters.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	teams      repository.TeamRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	TeamRepo      repository.TeamRepository
	UserRepo      repository.UserRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// ComplaintCreateInput describes complaint creation payload. Longitude and
// latitude arrive as raw JSON values since reporters send them as numbers,
// strings, or not at all.
type ComplaintCreateInput struct {
	Title       string
	Description string
	ImageURL    string
	Longitude   any
	Latitude    any
	Category    string
	Priority    domain.ComplaintPriority
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		teams:      deps.TeamRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// CreateComplaint registers a new complaint for a reporter, credits the
// reporter's accumulators and announces the complaint.
func (s *ComplaintService) CreateComplaint(ctx context.Context, creatorID string, input ComplaintCreateInput) (*domain.Complaint, error) {
	creator, err := s.users.GetByID(ctx, creatorID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !domain.ValidRole(creator.Role) {
		return nil, apperrors.NewForbidden("unknown role")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}

	// Severity is scored from the label as submitted; the stored priority
	// falls back to Medium afterwards, so an omitted priority yields a
	// Medium complaint with the Low score.
	severity := domain.SeverityForPriority(input.Priority)
	priority := input.Priority
	if priority == "" {
		priority = domain.ComplaintPriorityMedium
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = domain.DefaultCategory
	}

	complaint := &domain.Complaint{
		Title:         title,
		Description:   strings.TrimSpace(input.Description),
		ImageURL:      strings.TrimSpace(input.ImageURL),
		Category:      category,
		Priority:      priority,
		SeverityScore: severity,
		Longitude:     normalizeCoordinate(input.Longitude),
		Latitude:      normalizeCoordinate(input.Latitude),
		Status:        domain.ComplaintStatusOpen,
		CreatedBy:     creator.ID,
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	// The complaint is committed at this point; reward bookkeeping is
	// best-effort and must not fail the operation.
	if err := s.users.AddComplaintReward(ctx, creator.ID, EcoPointsReward); err != nil {
		s.logger.Error("failed to credit reporter accumulators",
			zap.String("complaint_id", complaint.ID),
			zap.String("user_id", creator.ID),
			zap.Error(err))
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		ActorID:     creator.ID,
		Payload: events.ComplaintCreatedPayload{
			Title:       complaint.Title,
			CreatorID:   creator.ID,
			CreatorName: creator.Name,
			Category:    complaint.Category,
			Priority:    complaint.Priority,
		},
	})
	return complaint, nil
}

// AssignComplaint hands a complaint to a response team. Re-assigning an
// in_progress complaint re-runs the full transition: the new team's active
// counter is incremented and the previous team's is left untouched.
func (s *ComplaintService) AssignComplaint(ctx context.Context, actorID, complaintID, teamName string) (*domain.Complaint, error) {
	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		return nil, apperrors.NewValidationError("team is required", nil)
	}

	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return nil, apperrors.NewNotFound("complaint", nil)
	}
	if complaint.Status == domain.ComplaintStatusResolved {
		return nil, apperrors.NewNotFound("complaint", map[string]any{"status": complaint.Status})
	}

	team, err := s.teams.GetByName(ctx, teamName)
	if err != nil {
		return nil, apperrors.NewNotFound("team", nil)
	}
	if team.Status == domain.TeamStatusBreak {
		return nil, apperrors.NewConflict("team is on break", map[string]any{"team": team.Name})
	}

	complaint.Status = domain.ComplaintStatusInProgress
	complaint.AssignedTeam = &team.Name
	complaint.AssignedBy = &actorID
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.teams.IncrementActiveTasks(ctx, team.Name); err != nil {
		s.logger.Error("failed to increment team active tasks",
			zap.String("complaint_id", complaint.ID),
			zap.String("team", team.Name),
			zap.Error(err))
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintAssigned,
		ComplaintID: complaint.ID,
		ActorID:     actorID,
		Payload: events.ComplaintAssignedPayload{
			Title:       complaint.Title,
			Team:        team.Name,
			TeamMembers: team.Members,
			AssignedBy:  actorID,
		},
	})
	return complaint, nil
}

// ResolveComplaint closes out a complaint with proof of resolution. Prior
// assignment is not required: an open complaint may be resolved directly, in
// which case no team counters move.
func (s *ComplaintService) ResolveComplaint(ctx context.Context, actorID, complaintID, proofImageURL string) (*domain.Complaint, error) {
	proofImageURL = strings.TrimSpace(proofImageURL)
	if proofImageURL == "" {
		return nil, apperrors.NewValidationError("proofImageUrl is required", nil)
	}

	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		return nil, apperrors.NewNotFound("complaint", nil)
	}

	complaint.Status = domain.ComplaintStatusResolved
	complaint.ProofImageURL = &proofImageURL
	complaint.ResolvedBy = &actorID
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	if complaint.AssignedTeam != nil {
		if err := s.teams.CompleteTask(ctx, *complaint.AssignedTeam); err != nil {
			s.logger.Error("failed to update team counters on resolve",
				zap.String("complaint_id", complaint.ID),
				zap.String("team", *complaint.AssignedTeam),
				zap.Error(err))
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintResolved,
		ComplaintID: complaint.ID,
		ActorID:     actorID,
		Payload: events.ComplaintResolvedPayload{
			Title:         complaint.Title,
			CreatorID:     complaint.CreatedBy,
			AssignedBy:    complaint.AssignedBy,
			Team:          complaint.AssignedTeam,
			ResolvedBy:    actorID,
			ProofImageURL: proofImageURL,
		},
	})
	return complaint, nil
}

// ListComplaints returns the role-scoped listing: citizens see their own
// complaints, admin and staff see everything. Newest first, capped.
func (s *ComplaintService) ListComplaints(ctx context.Context, caller *domain.User) ([]domain.ComplaintDetail, error) {
	filter := repository.ComplaintFilter{Limit: listPageSize}
	if caller.Role == domain.RoleCitizen {
		id := caller.ID
		filter.CreatedBy = &id
	}
	details, err := s.complaints.ListDetailed(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return details, nil
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

// normalizeCoordinate coerces a raw JSON value to a float64, defaulting to 0
// for anything non-numeric.
func normalizeCoordinate(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		return parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
