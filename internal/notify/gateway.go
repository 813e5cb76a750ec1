package notify

import (
	"context"
	"time"

	"alive.africa/internal/auth"
	"alive.africa/internal/ids"
	"alive.africa/internal/obs"
)

var _ auth.Notifier = (*Gateway)(nil)

// Store persists notification delivery records.
type Store interface {
	Create(ctx context.Context, n *Notification) error
	ListByRecipient(ctx context.Context, recipient string, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// Gateway fans messages out to the configured channels and records
// every attempt. Delivery is best-effort: a provider outage must not
// fail the operation that triggered the message.
type Gateway struct {
	email EmailSender
	sms   SMSSender
	store Store
	now   func() time.Time
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

func NewGateway(email EmailSender, sms SMSSender, store Store, opts ...Option) *Gateway {
	g := &Gateway{email: email, sms: sms, store: store, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) SendEmail(ctx context.Context, to, subject, html string) bool {
	ok := g.email != nil
	if !ok {
		obs.LogRequest(map[string]any{"event": "notify.email.skipped", "to": to, "reason": "no mailer configured"})
	} else if err := g.email.Send(ctx, to, subject, html); err != nil {
		obs.LogRequest(map[string]any{"event": "notify.email.failed", "to": to, "error": err.Error()})
		ok = false
	}
	g.record(ctx, to, ChannelEmail, subject, html, ok)
	return ok
}

func (g *Gateway) SendSMS(ctx context.Context, phoneNumber, message string) bool {
	ok := g.sms != nil
	if !ok {
		obs.LogRequest(map[string]any{"event": "notify.sms.skipped", "to": phoneNumber, "reason": "no sms client configured"})
	} else if err := g.sms.Send(ctx, phoneNumber, message); err != nil {
		obs.LogRequest(map[string]any{"event": "notify.sms.failed", "to": phoneNumber, "error": err.Error()})
		ok = false
	}
	g.record(ctx, phoneNumber, ChannelSMS, "", message, ok)
	return ok
}

// ListByRecipient returns the most recent records for one recipient.
func (g *Gateway) ListByRecipient(ctx context.Context, recipient string, limit int) ([]*Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return g.store.ListByRecipient(ctx, recipient, limit)
}

// MarkRead flags one record as read.
func (g *Gateway) MarkRead(ctx context.Context, id string) error {
	return g.store.MarkRead(ctx, id)
}

func (g *Gateway) record(ctx context.Context, recipient, channel, subject, message string, sent bool) {
	if g.store == nil {
		return
	}
	status := StatusSent
	if !sent {
		status = StatusFailed
	}
	n := &Notification{
		ID:        ids.New(),
		Recipient: recipient,
		Channel:   channel,
		Subject:   subject,
		Message:   message,
		Status:    status,
		CreatedAt: g.now().UTC(),
	}
	if err := g.store.Create(ctx, n); err != nil {
		obs.LogRequest(map[string]any{"event": "notify.record.failed", "error": err.Error()})
	}
}
