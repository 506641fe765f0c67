package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusOpen       ComplaintStatus = "open"
	ComplaintStatusInProgress ComplaintStatus = "in_progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
)

// ComplaintPriority enumerates reporter-declared urgency.
type ComplaintPriority string

const (
	ComplaintPriorityLow    ComplaintPriority = "Low"
	ComplaintPriorityMedium ComplaintPriority = "Medium"
	ComplaintPriorityHigh   ComplaintPriority = "High"
)

// DefaultCategory is applied when the reporter does not pick one.
const DefaultCategory = "Garbage Collection"

// Complaint is the aggregate for citizen-reported sanitation issues.
type Complaint struct {
	ID            string
	Title         string
	Description   string
	ImageURL      string
	Category      string
	Priority      ComplaintPriority
	SeverityScore int
	Longitude     float64
	Latitude      float64
	Status        ComplaintStatus
	AssignedTeam  *string
	AssignedBy    *string
	ResolvedBy    *string
	ProofImageURL *string
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UserRef carries the display attributes joined onto complaint listings.
type UserRef struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

// ComplaintDetail is the read-side projection returned by listings.
type ComplaintDetail struct {
	Complaint
	Creator  *UserRef
	Assigner *UserRef
	Resolver *UserRef
}
