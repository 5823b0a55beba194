package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Notification is an outbound message for email or chat-bot delivery.
type Notification struct {
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sent_at"`
}

// Notifier delivers notifications. Delivery failures are surfaced to callers
// but never block the workflow that triggered them.
type Notifier interface {
	Send(ctx context.Context, notification Notification) error
}

// LogNotifier is a basic provider that logs notifications. It is the fallback
// when no broker is configured.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier constructs a logging provider.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "log_notifier").Logger()}
}

// Send logs the notification and returns nil to indicate success.
func (n *LogNotifier) Send(ctx context.Context, notification Notification) error {
	n.logger.Info().
		Str("recipient", notification.Recipient).
		Str("subject", notification.Subject).
		Msg("notification delivered to log")
	return nil
}

// NatsNotifier publishes notifications to the chat-bot bridge subject.
type NatsNotifier struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNatsNotifier constructs a NATS-backed provider.
func NewNatsNotifier(conn *nats.Conn, subject string, logger zerolog.Logger) *NatsNotifier {
	return &NatsNotifier{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "nats_notifier").Logger(),
	}
}

// Send marshals the notification and publishes it.
func (n *NatsNotifier) Send(ctx context.Context, notification Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	if err := n.conn.Publish(n.subject, payload); err != nil {
		n.logger.Warn().Err(err).Str("subject", n.subject).Msg("failed to publish notification")
		return err
	}

	return nil
}
