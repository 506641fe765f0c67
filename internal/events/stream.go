package events

import "context"

// UserChannel names the per-user notification channel for a user id.
func UserChannel(userID string) string {
	return "user:" + userID + ":notification"
}

// Notification is the payload delivered on per-user channels.
type Notification struct {
	Type        string `json:"type"`
	Message     string `json:"message"`
	ComplaintID string `json:"complaintId"`
}

// Targeted notification types.
const (
	NotificationTaskAssigned      = "task_assigned"
	NotificationTaskResolved      = "task_resolved"
	NotificationComplaintResolved = "complaint_resolved"
)

// Stream is the outbound delivery transport for notifications. Implementations
// publish to a named channel; delivery is at-most-once and never retried.
type Stream interface {
	Publish(ctx context.Context, channel string, payload any) error
}
