package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/civicdesk/grievance-service/internal/config"
	"github.com/civicdesk/grievance-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventGrievanceSubmitted, n.handleGrievanceSubmitted)
	n.dispatcher.Subscribe(events.EventGrievanceStatusChanged, n.handleGrievanceStatusChanged)
	n.dispatcher.Subscribe(events.EventGrievancesPurged, n.handleGrievancesPurged)
}

func (n *NotificationService) handleGrievanceSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("GrievanceSubmitted", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	recipient := ""
	if payload, ok := event.Payload.(events.GrievanceSubmittedPayload); ok {
		recipient = payload.SubmitterEmail
	}
	n.sendEmailNotificationStub(ctx, event, recipient)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleGrievanceStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("GrievanceStatusChanged", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleGrievancesPurged(ctx context.Context, event events.Event) error {
	n.logger.Warn("GrievancesPurged", zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

// sendEmailNotificationStub stands in for the submission receipt email.
func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event, to string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || strings.TrimSpace(to) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}
