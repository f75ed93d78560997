package ordersvc

import (
	"context"
	"log/slog"
	"time"

	"github.com/vendra/escrow-svc/internal/service/models/mail"
	"golang.org/x/sync/errgroup"
)

// dispatchMail hands messages to the mail collaborator. Mail is not part of
// the transactional boundary: the triggering operation has already committed,
// so failures are logged and swallowed. Staging a message is a fast local
// write; actual delivery happens asynchronously in the outbox worker.
func (s *OrderService) dispatchMail(messages []mail.Message) {
	if s.mailer == nil || len(messages) == 0 {
		return
	}

	mailCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	g, ctx := errgroup.WithContext(mailCtx)
	g.SetLimit(3)

	for _, msg := range messages {
		msg := msg
		g.Go(func() error {
			if err := s.mailer.Send(ctx, msg); err != nil {
				slog.Error("Failed to dispatch mail",
					"template", msg.Template,
					"recipient", msg.Recipient,
					"error", err,
				)
			}

			return nil
		})
	}

	_ = g.Wait()
}
