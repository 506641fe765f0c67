package domain

import "time"

// TeamStatus enumerates availability states for a response team.
type TeamStatus string

const (
	TeamStatusActive TeamStatus = "Active"
	TeamStatusBreak  TeamStatus = "Break"
)

// Team represents a named response unit with advisory workload counters.
type Team struct {
	Name        string
	Status      TeamStatus
	ActiveTasks int
	Completed   int
	Members     []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
