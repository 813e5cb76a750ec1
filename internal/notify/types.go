package notify

import (
	"errors"
	"time"
)

// Delivery channels.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// Delivery outcomes.
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

var ErrNotFound = errors.New("notify: not found")

// Notification is one persisted delivery record.
type Notification struct {
	ID        string     `json:"id"`
	Recipient string     `json:"recipient"`
	Channel   string     `json:"channel"`
	Subject   string     `json:"subject,omitempty"`
	Message   string     `json:"message"`
	Status    string     `json:"status"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
