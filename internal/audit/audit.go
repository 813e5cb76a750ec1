package audit

import (
	"context"
	"strings"
	"time"

	"alive.africa/internal/auth"
	"alive.africa/internal/obs"
)

// Log severities.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

type ctxKey string

const requestIDKey ctxKey = "audit_request_id"

// WithRequestID attaches the request identifier to the context for audit logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request id from context if present.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// Entry is one persisted system log record.
type Entry struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Severity   string    `json:"severity"`
	ActorID    string    `json:"actor_id,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Store appends immutable entries.
type Store interface {
	Append(ctx context.Context, entry *Entry) error
	List(ctx context.Context, severity string, limit int) ([]*Entry, error)
}

// Service records security-relevant events. Persistence failures are logged
// and swallowed: an audit outage must never break the flow it observes.
type Service struct {
	store Store
	now   func() time.Time
}

var _ auth.AuditLog = (*Service)(nil)

// NewService constructs the audit service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// CreateLog persists one entry enriched with request and actor context.
func (s *Service) CreateLog(ctx context.Context, title, message, severity, actorID string) {
	if strings.TrimSpace(title) == "" {
		return
	}
	switch severity {
	case SeverityInfo, SeverityWarning, SeverityError:
	default:
		severity = SeverityInfo
	}
	if actorID == "" {
		actorID, _ = auth.UserIDFromContext(ctx)
	}
	entry := &Entry{
		Title:      title,
		Message:    message,
		Severity:   severity,
		ActorID:    actorID,
		RequestID:  RequestIDFromContext(ctx),
		OccurredAt: s.now().UTC(),
	}
	if err := s.store.Append(ctx, entry); err != nil {
		obs.LogRequest(map[string]any{
			"level": "error",
			"msg":   "audit append failed",
			"title": title,
			"error": err.Error(),
		})
	}
}

// List returns recent entries, optionally filtered by severity.
func (s *Service) List(ctx context.Context, severity string, limit int) ([]*Entry, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	return s.store.List(ctx, severity, limit)
}
