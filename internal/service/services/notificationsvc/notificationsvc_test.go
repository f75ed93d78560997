package notificationsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendra/escrow-svc/internal/dal/interfaces/inotificationrepo"
	"github.com/vendra/escrow-svc/internal/service/models/apperr"
	"github.com/vendra/escrow-svc/internal/service/models/notification"
	"github.com/vendra/escrow-svc/internal/service/models/user"
)

type fakeNotificationRepo struct {
	records []notification.Notification
}

func (r *fakeNotificationRepo) Insert(_ context.Context, n notification.Notification) error {
	n.ID = int64(len(r.records) + 1)
	r.records = append(r.records, n)

	return nil
}

func (r *fakeNotificationRepo) Query(_ context.Context, filter notification.Query) ([]notification.Notification, error) {
	matched := make([]notification.Notification, 0)
	for _, n := range r.records {
		if filter.CompanyID > 0 && n.CompanyID != filter.CompanyID {
			continue
		}
		if filter.VendorID > 0 && n.VendorID != filter.VendorID {
			continue
		}
		matched = append(matched, n)
	}

	return matched, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id int64, filter notification.Query) (bool, error) {
	for i, n := range r.records {
		if n.ID != id {
			continue
		}
		if filter.CompanyID > 0 && n.CompanyID != filter.CompanyID {
			continue
		}
		if filter.VendorID > 0 && n.VendorID != filter.VendorID {
			continue
		}
		r.records[i].Read = true

		return true, nil
	}

	return false, nil
}

type fakeUOW struct{ repo *fakeNotificationRepo }

func (u *fakeUOW) NotificationRepository() inotificationrepo.INotificationRepository {
	return u.repo
}

func seededRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{records: []notification.Notification{
		{ID: 1, Type: notification.TypeCustomerPlacedOrder, CompanyID: 1, VendorID: 10},
		{ID: 2, Type: notification.TypeOrderDelivered, CompanyID: 1, VendorID: 11},
		{ID: 3, Type: notification.TypeOrderCancelled, CompanyID: 2, VendorID: 20},
	}}
}

func newTestService(repo *fakeNotificationRepo) *NotificationService {
	return MustNewNotificationService(
		WithUnitOfWorkFactory(func() unitOfWork { return &fakeUOW{repo: repo} }),
	)
}

func TestListCompanySeesWholeTenant(t *testing.T) {
	svc := newTestService(seededRepo())

	actor := user.Actor{ID: 100, Role: user.RoleCompany, CompanyID: 1}
	records, err := svc.List(context.Background(), actor, 0, 0)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestListVendorSeesOwnOnly(t *testing.T) {
	svc := newTestService(seededRepo())

	actor := user.Actor{ID: 10, Role: user.RoleVendor, CompanyID: 1}
	records, err := svc.List(context.Background(), actor, 0, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(1), records[0].ID)
}

func TestListRejectsOtherRoles(t *testing.T) {
	svc := newTestService(seededRepo())

	actor := user.Actor{ID: 1, Role: user.RoleCustomer, CompanyID: 1}
	_, err := svc.List(context.Background(), actor, 0, 0)
	assert.True(t, apperr.IsCode(err, apperr.CodeForbidden))
}

func TestMarkReadScopedToOwner(t *testing.T) {
	repo := seededRepo()
	svc := newTestService(repo)

	owner := user.Actor{ID: 10, Role: user.RoleVendor, CompanyID: 1}
	require.NoError(t, svc.MarkRead(context.Background(), owner, 1))
	assert.True(t, repo.records[0].Read)

	// Another vendor's record reads as absent.
	err := svc.MarkRead(context.Background(), owner, 2)
	assert.True(t, apperr.IsCode(err, apperr.CodeNotFound))
	assert.False(t, repo.records[1].Read)
}
