package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/vendra/escrow-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/vendra/escrow-svc/internal/service/models/mail"
	"github.com/vendra/escrow-svc/internal/service/models/outbox"
)

// Mailer dispatches templated mail. Implementations are fire-and-forget from
// the caller's point of view: a returned error is logged, never propagated
// into the triggering operation.
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

// OutboxMailer stages mail jobs in the transactional outbox; the mail outbox
// worker later publishes them to RabbitMQ for the external mail service.
type OutboxMailer struct {
	outboxRepo ioutboxrepo.IOutboxRepository
	queueName  string
	maxRetries int
}

// NewOutboxMailer creates a mailer backed by the outbox table.
func NewOutboxMailer(outboxRepo ioutboxrepo.IOutboxRepository) *OutboxMailer {
	queueName := viper.GetString("rabbitmq.mail.queue_name")
	if queueName == "" {
		queueName = "mail.dispatch"
	}

	maxRetries := viper.GetInt("rabbitmq.mail.max_retries")
	if maxRetries == 0 {
		maxRetries = 5
	}

	return &OutboxMailer{
		outboxRepo: outboxRepo,
		queueName:  queueName,
		maxRetries: maxRetries,
	}
}

// Send stages one templated mail job for delivery.
func (m *OutboxMailer) Send(ctx context.Context, msg mail.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode mail message: %w", err)
	}

	now := time.Now()

	return m.outboxRepo.Insert(ctx, outbox.Message{
		QueueName:   m.queueName,
		RoutingKey:  m.queueName,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  m.maxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	})
}
