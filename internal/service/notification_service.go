package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/healthcare-accounts/internal/config"
	"github.com/spec-kit/healthcare-accounts/internal/events"
)

// NotificationService emits notification stubs for account events. Actual
// email/SMS delivery is an external system; these handlers log what would be
// sent and never include credentials or hashes.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
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
	n.dispatcher.Subscribe(events.EventProviderRegistered, n.handleRegistered)
	n.dispatcher.Subscribe(events.EventPatientRegistered, n.handleRegistered)
	n.dispatcher.Subscribe(events.EventPatientEmailVerified, n.handleVerificationChanged)
	n.dispatcher.Subscribe(events.EventPatientPhoneVerified, n.handleVerificationChanged)
	n.dispatcher.Subscribe(events.EventPatientDeactivated, n.handleDeactivated)
}

func (n *NotificationService) handleRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("account registered",
		zap.String("account_id", event.AccountID),
		zap.String("role", string(event.Role)),
		zap.String("event_type", string(event.Type)))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleVerificationChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("verification changed",
		zap.String("account_id", event.AccountID),
		zap.String("event_type", string(event.Type)))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleDeactivated(ctx context.Context, event events.Event) error {
	n.logger.Info("account deactivated", zap.String("account_id", event.AccountID))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("account_id", event.AccountID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("account_id", event.AccountID),
		zap.String("event_type", string(event.Type)))
}
