package dto

import (
	"time"

	"github.com/spec-kit/sanitation-service/internal/domain"
)

// CreateTeamRequest payload.
type CreateTeamRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// UpdateTeamStatusRequest payload.
type UpdateTeamStatusRequest struct {
	Status domain.TeamStatus `json:"status"`
}

// TeamResponse response.
type TeamResponse struct {
	Name        string            `json:"name"`
	Status      domain.TeamStatus `json:"status"`
	ActiveTasks int               `json:"activeTasks"`
	Completed   int               `json:"completed"`
	Members     []string          `json:"members"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}
