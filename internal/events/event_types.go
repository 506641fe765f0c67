package events

import (
	"time"

	"github.com/spec-kit/sanitation-service/internal/domain"
)

// EventType enumerates supported event identifiers. The values double as
// broadcast channel names on the notification stream.
type EventType string

const (
	EventComplaintCreated  EventType = "complaint:new"
	EventComplaintAssigned EventType = "complaint:assigned"
	EventComplaintResolved EventType = "complaint:resolved"
)

// Event represents a domain event emitted by the lifecycle coordinator.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	ActorID     string      `json:"actor_id"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	Title       string                   `json:"title"`
	CreatorID   string                   `json:"creator_id"`
	CreatorName string                   `json:"creator_name"`
	Category    string                   `json:"category"`
	Priority    domain.ComplaintPriority `json:"priority"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	Title       string   `json:"title"`
	Team        string   `json:"team"`
	TeamMembers []string `json:"team_members"`
	AssignedBy  string   `json:"assigned_by"`
}

// ComplaintResolvedPayload payload.
type ComplaintResolvedPayload struct {
	Title         string  `json:"title"`
	CreatorID     string  `json:"creator_id"`
	AssignedBy    *string `json:"assigned_by,omitempty"`
	Team          *string `json:"team,omitempty"`
	ResolvedBy    string  `json:"resolved_by"`
	ProofImageURL string  `json:"proof_image_url"`
}
