package notificationsvc

import (
	"context"

	"github.com/vendra/escrow-svc/internal/dal/interfaces/inotificationrepo"
	"github.com/vendra/escrow-svc/internal/dal/postgres"
	"github.com/vendra/escrow-svc/internal/dal/uow"
	"github.com/vendra/escrow-svc/internal/service/models/apperr"
	"github.com/vendra/escrow-svc/internal/service/models/notification"
	"github.com/vendra/escrow-svc/internal/service/models/user"
)

// NotificationService serves each actor's own notification inbox.
type NotificationService struct {
	newUOW func() unitOfWork
}

type unitOfWork interface {
	NotificationRepository() inotificationrepo.INotificationRepository
}

// option is a function that configures the NotificationService.
type option func(*NotificationService)

// MustNewNotificationService creates a new NotificationService.
func MustNewNotificationService(opts ...option) *NotificationService {
	s := &NotificationService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		panic("notification service: no unit of work source configured")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the NotificationService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *NotificationService) {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
	}
}

// WithUnitOfWorkFactory overrides the unit of work source. Used by tests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *NotificationService) {
		s.newUOW = func() unitOfWork { return factory() }
	}
}

// scopeFor narrows the notification view to what the actor owns: vendors see
// their own records, companies their whole tenant.
func scopeFor(actor user.Actor) (notification.Query, error) {
	switch actor.Role {
	case user.RoleCompany:
		return notification.Query{CompanyID: actor.CompanyID}, nil
	case user.RoleVendor:
		return notification.Query{CompanyID: actor.CompanyID, VendorID: actor.ID}, nil
	default:
		return notification.Query{}, apperr.Forbidden("Access Denied")
	}
}

// List returns the actor's notifications, newest first.
func (s *NotificationService) List(
	ctx context.Context,
	actor user.Actor,
	limit, offset int,
) ([]notification.Notification, error) {
	query, err := scopeFor(actor)
	if err != nil {
		return nil, err
	}
	query.Limit = limit
	query.Offset = offset

	work := s.newUOW()

	notifications, err := work.NotificationRepository().Query(ctx, query)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return notifications, nil
}

// MarkRead flips the read flag on one of the actor's own notifications.
func (s *NotificationService) MarkRead(ctx context.Context, actor user.Actor, id int64) error {
	query, err := scopeFor(actor)
	if err != nil {
		return err
	}

	work := s.newUOW()

	ok, err := work.NotificationRepository().MarkRead(ctx, id, query)
	if err != nil {
		return apperr.Internal(err)
	}
	if !ok {
		return apperr.NotFound("Notification not found!")
	}

	return nil
}
