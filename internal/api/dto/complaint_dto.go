package dto

import (
	"time"

	"github.com/spec-kit/sanitation-service/internal/domain"
)

// CreateComplaintRequest payload. Coordinates are untyped because clients
// send them as numbers, numeric strings, or omit them entirely.
type CreateComplaintRequest struct {
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	ImageURL    string                   `json:"imageUrl"`
	Longitude   any                      `json:"longitude"`
	Latitude    any                      `json:"latitude"`
	Category    string                   `json:"category"`
	Priority    domain.ComplaintPriority `json:"priority"`
}

// AssignComplaintRequest payload.
type AssignComplaintRequest struct {
	Team string `json:"team"`
}

// ResolveComplaintRequest payload.
type ResolveComplaintRequest struct {
	ProofImageURL string `json:"proofImageUrl"`
}

// UserRefResponse carries display attributes of a referenced user.
type UserRefResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// ComplaintResponse response.
type ComplaintResponse struct {
	ID            string                   `json:"id"`
	Title         string                   `json:"title"`
	Description   string                   `json:"description"`
	ImageURL      string                   `json:"imageUrl,omitempty"`
	Category      string                   `json:"category"`
	Priority      domain.ComplaintPriority `json:"priority"`
	SeverityScore int                      `json:"severityScore"`
	Longitude     float64                  `json:"longitude"`
	Latitude      float64                  `json:"latitude"`
	Status        domain.ComplaintStatus   `json:"status"`
	AssignedTeam  *string                  `json:"assignedTeam,omitempty"`
	AssignedBy    *string                  `json:"assignedBy,omitempty"`
	ResolvedBy    *string                  `json:"resolvedBy,omitempty"`
	ProofImageURL *string                  `json:"proofImageUrl,omitempty"`
	CreatedBy     string                   `json:"createdBy"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
	Creator       *UserRefResponse         `json:"creator,omitempty"`
	Assigner      *UserRefResponse         `json:"assigner,omitempty"`
	Resolver      *UserRefResponse         `json:"resolver,omitempty"`
}
