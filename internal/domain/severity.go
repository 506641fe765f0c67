package domain

// Severity scores by priority label. Unknown or unset labels score as Low.
const (
	SeverityHigh   = 50
	SeverityMedium = 30
	SeverityLow    = 10
)

// SeverityForPriority maps a priority label to its numeric urgency score.
func SeverityForPriority(priority ComplaintPriority) int {
	switch priority {
	case ComplaintPriorityHigh:
		return SeverityHigh
	case ComplaintPriorityMedium:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
