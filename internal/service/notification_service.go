package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/sanitation-service/internal/events"
)

// NotificationService fans lifecycle events out to the notification stream:
// every event goes to its broadcast channel, and assignment/resolution also
// produce targeted per-user notifications.
type NotificationService struct {
	dispatcher events.Dispatcher
	stream     events.Stream
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, stream events.Stream, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		stream:     stream,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	n.dispatcher.Subscribe(events.EventComplaintAssigned, n.handleComplaintAssigned)
	n.dispatcher.Subscribe(events.EventComplaintResolved, n.handleComplaintResolved)
}

func (n *NotificationService) handleComplaintCreated(ctx context.Context, event events.Event) error {
	n.broadcast(ctx, event)
	return nil
}

func (n *NotificationService) handleComplaintAssigned(ctx context.Context, event events.Event) error {
	n.broadcast(ctx, event)
	payload, ok := event.Payload.(events.ComplaintAssignedPayload)
	if !ok {
		return nil
	}
	for _, member := range payload.TeamMembers {
		n.notifyUser(ctx, member, events.Notification{
			Type:        events.NotificationTaskAssigned,
			Message:     fmt.Sprintf("Your team %s has been assigned a new task: %s", payload.Team, payload.Title),
			ComplaintID: event.ComplaintID,
		})
	}
	return nil
}

func (n *NotificationService) handleComplaintResolved(ctx context.Context, event events.Event) error {
	n.broadcast(ctx, event)
	payload, ok := event.Payload.(events.ComplaintResolvedPayload)
	if !ok {
		return nil
	}
	n.notifyUser(ctx, payload.CreatorID, events.Notification{
		Type:        events.NotificationComplaintResolved,
		Message:     fmt.Sprintf("Your complaint %q has been resolved", payload.Title),
		ComplaintID: event.ComplaintID,
	})
	if payload.AssignedBy != nil {
		n.notifyUser(ctx, *payload.AssignedBy, events.Notification{
			Type:        events.NotificationTaskResolved,
			Message:     fmt.Sprintf("Task %q you assigned has been resolved", payload.Title),
			ComplaintID: event.ComplaintID,
		})
	}
	return nil
}

func (n *NotificationService) broadcast(ctx context.Context, event events.Event) {
	if n.stream == nil {
		return
	}
	if err := n.stream.Publish(ctx, string(event.Type), event); err != nil {
		n.logger.Warn("broadcast publish failed",
			zap.String("channel", string(event.Type)),
			zap.String("complaint_id", event.ComplaintID),
			zap.Error(err))
	}
}

func (n *NotificationService) notifyUser(ctx context.Context, userID string, notification events.Notification) {
	if n.stream == nil || userID == "" {
		return
	}
	channel := events.UserChannel(userID)
	if err := n.stream.Publish(ctx, channel, notification); err != nil {
		n.logger.Warn("targeted publish failed",
			zap.String("channel", channel),
			zap.String("complaint_id", notification.ComplaintID),
			zap.Error(err))
	}
}
