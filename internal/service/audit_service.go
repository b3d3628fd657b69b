package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/gram-panchayat/panchayat-service/internal/config"
	"github.com/gram-panchayat/panchayat-service/internal/events"
	"github.com/gram-panchayat/panchayat-service/internal/observability"
)

// AuditService records auth events as structured log lines and counters.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	cfg        config.AuditConfig
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics, cfg config.AuditConfig) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events. Attempt counters are kept whether or
// not audit logging is enabled.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventAccountRegistered, a.handleAccountRegistered)
	a.dispatcher.Subscribe(events.EventSignupRejected, a.handleSignupRejected)
	a.dispatcher.Subscribe(events.EventLoginSucceeded, a.handleLoginSucceeded)
	a.dispatcher.Subscribe(events.EventLoginFailed, a.handleLoginFailed)
	a.dispatcher.Subscribe(events.EventSessionRevoked, a.handleSessionRevoked)
}

func (a *AuditService) handleAccountRegistered(_ context.Context, event events.Event) error {
	a.audit("AccountRegistered", a.subjectFields(event, zap.Any("payload", event.Payload))...)
	a.metrics.RecordAuthAttempt("signup", "success")
	return nil
}

func (a *AuditService) handleSignupRejected(_ context.Context, event events.Event) error {
	reason := ""
	if payload, ok := event.Payload.(events.SignupRejectedPayload); ok {
		reason = payload.Reason
	}
	a.audit("SignupRejected", a.subjectFields(event, zap.String("reason", reason))...)
	a.metrics.RecordAuthAttempt("signup", outcome(reason))
	return nil
}

func (a *AuditService) handleLoginSucceeded(_ context.Context, event events.Event) error {
	a.audit("LoginSucceeded", a.subjectFields(event)...)
	a.metrics.RecordAuthAttempt("login", "success")
	return nil
}

func (a *AuditService) handleLoginFailed(_ context.Context, event events.Event) error {
	var payload events.LoginFailedPayload
	if p, ok := event.Payload.(events.LoginFailedPayload); ok {
		payload = p
	}
	a.audit("LoginFailed", a.subjectFields(event,
		zap.String("claimed_role", payload.ClaimedRole),
		zap.String("reason", payload.Reason))...)
	a.metrics.RecordAuthAttempt("login", outcome(payload.Reason))
	return nil
}

func (a *AuditService) handleSessionRevoked(_ context.Context, event events.Event) error {
	a.audit("SessionRevoked", a.subjectFields(event, zap.Any("payload", event.Payload))...)
	a.metrics.RecordAuthAttempt("logout", "success")
	return nil
}

func (a *AuditService) audit(msg string, fields ...zap.Field) {
	if !a.cfg.Enabled {
		return
	}
	a.logger.Info(msg, fields...)
}

func (a *AuditService) subjectFields(event events.Event, extra ...zap.Field) []zap.Field {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.Int64("subject_id", event.SubjectID),
		zap.String("email", event.Email),
		zap.String("role", string(event.Role)),
	}
	return append(fields, extra...)
}

func outcome(reason string) string {
	if reason == "" {
		return "failure"
	}
	return strings.ToLower(reason)
}
