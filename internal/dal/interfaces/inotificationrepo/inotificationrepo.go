package inotificationrepo

import (
	"context"

	"github.com/vendra/escrow-svc/internal/service/models/notification"
)

// INotificationRepository defines the append-only notification store.
type INotificationRepository interface {
	Insert(ctx context.Context, n notification.Notification) error

	Query(ctx context.Context, filter notification.Query) ([]notification.Notification, error)

	// MarkRead flips the read flag iff the record falls inside the owner
	// scope described by filter. Returns false when nothing matched.
	MarkRead(ctx context.Context, id int64, filter notification.Query) (bool, error)
}
