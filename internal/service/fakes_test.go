package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/sanitation-service/internal/domain"
	"github.com/spec-kit/sanitation-service/internal/events"
	"github.com/spec-kit/sanitation-service/internal/repository"
)

// In-memory collaborator fakes shared by the service tests.

type fakeComplaintRepo struct {
	mu         sync.Mutex
	items      map[string]*domain.Complaint
	nextID     int
	failCreate error
	users      *fakeUserRepo
}

func newFakeComplaintRepo(users *fakeUserRepo) *fakeComplaintRepo {
	return &fakeComplaintRepo{items: map[string]*domain.Complaint{}, users: users}
}

func (r *fakeComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate != nil {
		return r.failCreate
	}
	r.nextID++
	complaint.ID = fmt.Sprintf("complaint-%d", r.nextID)
	clone := *complaint
	r.items[complaint.ID] = &clone
	return nil
}

func (r *fakeComplaintRepo) Update(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[complaint.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *complaint
	r.items[complaint.ID] = &clone
	return nil
}

func (r *fakeComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeComplaintRepo) ListDetailed(_ context.Context, filter repository.ComplaintFilter) ([]domain.ComplaintDetail, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.ComplaintDetail
	for _, stored := range r.items {
		if filter.CreatedBy != nil && stored.CreatedBy != *filter.CreatedBy {
			continue
		}
		detail := domain.ComplaintDetail{Complaint: *stored}
		if r.users != nil {
			if creator, ok := r.users.users[stored.CreatedBy]; ok {
				detail.Creator = &domain.UserRef{ID: creator.ID, Name: creator.Name, Email: creator.Email, Role: creator.Role}
			}
		}
		result = append(result, detail)
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

type fakeTeamRepo struct {
	mu            sync.Mutex
	teams         map[string]*domain.Team
	failIncrement error
	failComplete  error
}

func newFakeTeamRepo(teams ...*domain.Team) *fakeTeamRepo {
	repo := &fakeTeamRepo{teams: map[string]*domain.Team{}}
	for _, team := range teams {
		repo.teams[team.Name] = team
	}
	return repo
}

func (r *fakeTeamRepo) Create(_ context.Context, team *domain.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[team.Name]; ok {
		return errors.New("duplicate team")
	}
	r.teams[team.Name] = team
	return nil
}

func (r *fakeTeamRepo) GetByName(_ context.Context, name string) (*domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.teams[name]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeTeamRepo) List(_ context.Context) ([]domain.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Team
	for _, team := range r.teams {
		result = append(result, *team)
	}
	return result, nil
}

func (r *fakeTeamRepo) SetStatus(_ context.Context, name string, status domain.TeamStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.teams[name]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = status
	return nil
}

func (r *fakeTeamRepo) IncrementActiveTasks(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failIncrement != nil {
		return r.failIncrement
	}
	stored, ok := r.teams[name]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.ActiveTasks++
	return nil
}

func (r *fakeTeamRepo) CompleteTask(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failComplete != nil {
		return r.failComplete
	}
	stored, ok := r.teams[name]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.ActiveTasks > 0 {
		stored.ActiveTasks--
	}
	stored.Completed++
	return nil
}

type fakeUserRepo struct {
	mu         sync.Mutex
	users      map[string]*domain.User
	failReward error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*domain.User{}}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.users {
		if stored.Email == email {
			clone := *stored
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) AddComplaintReward(_ context.Context, id string, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failReward != nil {
		return r.failReward
	}
	stored, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.EcoPoints += points
	stored.ComplaintsCount++
	return nil
}

type captureDispatcher struct {
	mu     sync.Mutex
	events []events.Event
	inner  events.Dispatcher
}

func newCaptureDispatcher() *captureDispatcher {
	return &captureDispatcher{inner: events.NewInMemoryDispatcher()}
}

func (d *captureDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	d.events = append(d.events, event)
	d.mu.Unlock()
	return d.inner.Publish(ctx, event)
}

func (d *captureDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {
	d.inner.Subscribe(eventType, handler)
}

func (d *captureDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var matched []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

type capturedPublish struct {
	Channel string
	Payload any
}

type fakeStream struct {
	mu        sync.Mutex
	published []capturedPublish
	fail      error
}

func (s *fakeStream) Publish(_ context.Context, channel string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.published = append(s.published, capturedPublish{Channel: channel, Payload: payload})
	return nil
}

func (s *fakeStream) onChannel(channel string) []capturedPublish {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []capturedPublish
	for _, pub := range s.published {
		if pub.Channel == channel {
			matched = append(matched, pub)
		}
	}
	return matched
}
