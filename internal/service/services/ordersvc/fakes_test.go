package ordersvc

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vendra/escrow-svc/internal/dal/interfaces/inotificationrepo"
	"github.com/vendra/escrow-svc/internal/dal/interfaces/iorderrepo"
	"github.com/vendra/escrow-svc/internal/dal/interfaces/iuserrepo"
	"github.com/vendra/escrow-svc/internal/service/models/mail"
	"github.com/vendra/escrow-svc/internal/service/models/notification"
	"github.com/vendra/escrow-svc/internal/service/models/order"
	"github.com/vendra/escrow-svc/internal/service/models/user"
)

// fakeStore is an in-memory stand-in for the Postgres repositories, shared by
// the fake unit of work so state survives across service calls.
type fakeStore struct {
	mu sync.Mutex

	users      map[int64]*user.User
	nextUserID int64

	orders      map[int64]*order.Order
	nextOrderID int64

	notifications []notification.Notification
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       map[int64]*user.User{},
		nextUserID:  1,
		orders:      map[int64]*order.Order{},
		nextOrderID: 1,
	}
}

func (s *fakeStore) addUser(u user.User) user.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.ID = s.nextUserID
	s.nextUserID++
	s.users[u.ID] = &u

	return u
}

func (s *fakeStore) addVendor(companyID int64, email string) user.User {
	return s.addUser(user.User{
		Email:     email,
		Name:      "Vendor " + email,
		Role:      user.RoleVendor,
		CompanyID: companyID,
	})
}

func (s *fakeStore) orderByID(id int64) order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	return *s.orders[id]
}

// --- order repository ---

type fakeOrderRepo struct{ store *fakeStore }

func (r *fakeOrderRepo) InsertGroup(_ context.Context, orders []order.Order) ([]order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	inserted := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		o.ID = r.store.nextOrderID
		r.store.nextOrderID++
		stored := o
		r.store.orders[o.ID] = &stored
		inserted = append(inserted, o)
	}

	return inserted, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id int64) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *o

	return &copied, nil
}

func (r *fakeOrderRepo) GetByRef(_ context.Context, orderRef string) ([]order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	siblings := make([]order.Order, 0)
	for _, o := range r.store.orders {
		if o.OrderRef == orderRef {
			siblings = append(siblings, *o)
		}
	}
	sort.Slice(siblings, func(i, j int) bool { return siblings[i].ID < siblings[j].ID })

	return siblings, nil
}

func (r *fakeOrderRepo) SetTransactionRef(_ context.Context, orderRef, transactionRef string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, o := range r.store.orders {
		if o.OrderRef == orderRef {
			o.TransactionRef = transactionRef
			o.UpdatedAt = at
		}
	}

	return nil
}

func (r *fakeOrderRepo) MarkPaid(_ context.Context, orderRef, transactionRef string, at time.Time) ([]order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	paid := make([]order.Order, 0)
	for _, o := range r.store.orders {
		if o.OrderRef == orderRef && o.TransactionRef == transactionRef && !o.UserPaid {
			o.UserPaid = true
			paidOn := at
			o.UserPaidOn = &paidOn
			o.UpdatedAt = at
			paid = append(paid, *o)
		}
	}
	sort.Slice(paid, func(i, j int) bool { return paid[i].ID < paid[j].ID })

	return paid, nil
}

func (r *fakeOrderRepo) TransitionStatus(_ context.Context, id int64, newStatus order.Status, at time.Time) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o, ok := r.store.orders[id]
	if !ok || o.Status != order.StatusPending {
		return nil, iorderrepo.ErrNotUpdated
	}

	o.Status = newStatus
	if newStatus == order.StatusDelivered {
		deliveredOn := at
		o.DeliveredOn = &deliveredOn
	}
	o.UpdatedAt = at
	copied := *o

	return &copied, nil
}

func (r *fakeOrderRepo) ConfirmReceipt(_ context.Context, id int64, rating *order.Rating, at time.Time) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o, ok := r.store.orders[id]
	if !ok || o.Status != order.StatusDelivered {
		return nil, iorderrepo.ErrNotUpdated
	}

	o.UserReceived = true
	if o.UserReceivedOn == nil {
		receivedOn := at
		o.UserReceivedOn = &receivedOn
	}
	if rating != nil {
		copiedRating := *rating
		o.Rating = &copiedRating
	}
	o.UpdatedAt = at
	copied := *o

	return &copied, nil
}

func (r *fakeOrderRepo) MarkCredited(_ context.Context, id int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	o, ok := r.store.orders[id]
	if !ok || !o.UserPaid || o.Status != order.StatusDelivered || !o.UserReceived || o.Credited {
		return false, nil
	}
	o.Credited = true

	return true, nil
}

func (r *fakeOrderRepo) Query(_ context.Context, filter *order.Query) ([]order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matched := make([]order.Order, 0)
	for _, o := range r.store.orders {
		if filter.CompanyID > 0 && o.CompanyID != filter.CompanyID {
			continue
		}
		if filter.VendorID > 0 && o.VendorID != filter.VendorID {
			continue
		}
		if filter.OrderRef != "" && o.OrderRef != filter.OrderRef {
			continue
		}
		if filter.Delivered != nil {
			if *filter.Delivered && o.Status != order.StatusDelivered {
				continue
			}
			if !*filter.Delivered && o.Status == order.StatusDelivered {
				continue
			}
		}
		matched = append(matched, *o)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	return matched, nil
}

func (r *fakeOrderRepo) PaymentHistory(_ context.Context, vendorID int64) ([]order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matched := make([]order.Order, 0)
	for _, o := range r.store.orders {
		if o.VendorID == vendorID && o.UserPaid && o.Status == order.StatusDelivered && o.UserReceived {
			matched = append(matched, *o)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	return matched, nil
}

// --- user repository ---

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u

	return &copied, nil
}

func (r *fakeUserRepo) GetVendorsByEmails(_ context.Context, companyID int64, emails []string) (map[string]user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	vendors := make(map[string]user.User)
	for _, email := range emails {
		for _, u := range r.store.users {
			if u.Role == user.RoleVendor && u.CompanyID == companyID && u.Email == email {
				vendors[email] = *u
			}
		}
	}

	return vendors, nil
}

func (r *fakeUserRepo) FindOrCreateCustomer(_ context.Context, companyID int64, email, name string, at time.Time) (*user.User, error) {
	r.store.mu.Lock()

	for _, u := range r.store.users {
		if u.Role == user.RoleCustomer && u.CompanyID == companyID && u.Email == email {
			copied := *u
			r.store.mu.Unlock()

			return &copied, nil
		}
	}
	r.store.mu.Unlock()

	created := r.store.addUser(user.User{
		Email:     email,
		Name:      name,
		Role:      user.RoleCustomer,
		CompanyID: companyID,
		CreatedAt: at,
		UpdatedAt: at,
	})

	return &created, nil
}

func (r *fakeUserRepo) ListByRole(_ context.Context, companyID int64, role user.Role) ([]user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matched := make([]user.User, 0)
	for _, u := range r.store.users {
		if u.CompanyID == companyID && u.Role == role {
			matched = append(matched, *u)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	return matched, nil
}

func (r *fakeUserRepo) CreditWallet(_ context.Context, vendorID, amountCents int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.users[vendorID].WalletCents += amountCents

	return nil
}

func (r *fakeUserRepo) DebitWallet(_ context.Context, vendorID, amountCents int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u := r.store.users[vendorID]
	if u.WalletCents < amountCents {
		return false, nil
	}
	u.WalletCents -= amountCents

	return true, nil
}

func (r *fakeUserRepo) WalletBalance(_ context.Context, vendorID int64) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.users[vendorID].WalletCents, nil
}

// --- notification repository ---

type fakeNotificationRepo struct{ store *fakeStore }

func (r *fakeNotificationRepo) Insert(_ context.Context, n notification.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	n.ID = int64(len(r.store.notifications) + 1)
	r.store.notifications = append(r.store.notifications, n)

	return nil
}

func (r *fakeNotificationRepo) Query(_ context.Context, filter notification.Query) ([]notification.Notification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	matched := make([]notification.Notification, 0)
	for _, n := range r.store.notifications {
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
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, n := range r.store.notifications {
		if n.ID != id {
			continue
		}
		if filter.CompanyID > 0 && n.CompanyID != filter.CompanyID {
			continue
		}
		if filter.VendorID > 0 && n.VendorID != filter.VendorID {
			continue
		}
		r.store.notifications[i].Read = true

		return true, nil
	}

	return false, nil
}

// --- unit of work ---

type fakeUOW struct {
	store *fakeStore

	begun      bool
	committed  bool
	rolledBack bool
}

func (u *fakeUOW) Begin(context.Context) error { u.begun = true; return nil }
func (u *fakeUOW) Commit(context.Context) error {
	u.committed = true
	return nil
}
func (u *fakeUOW) Rollback(context.Context) error {
	if !u.committed {
		u.rolledBack = true
	}
	return nil
}

func (u *fakeUOW) OrderRepository() iorderrepo.IOrderRepository {
	return &fakeOrderRepo{store: u.store}
}

func (u *fakeUOW) UserRepository() iuserrepo.IUserRepository {
	return &fakeUserRepo{store: u.store}
}

func (u *fakeUOW) NotificationRepository() inotificationrepo.INotificationRepository {
	return &fakeNotificationRepo{store: u.store}
}

// staleReadOrderRepo serves a fixed stale snapshot on the first GetByID,
// mimicking a row that another transaction finalizes after our read.
type staleReadOrderRepo struct {
	iorderrepo.IOrderRepository

	stale  *order.Order
	served bool
}

func (r *staleReadOrderRepo) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	if !r.served && r.stale != nil && r.stale.ID == id {
		r.served = true
		copied := *r.stale

		return &copied, nil
	}

	return r.IOrderRepository.GetByID(ctx, id)
}

type staleReadUOW struct {
	*fakeUOW

	orderRepo iorderrepo.IOrderRepository
}

func (u *staleReadUOW) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

// --- mailer ---

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, msg)

	return nil
}

func (m *recordingMailer) messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]mail.Message, len(m.sent))
	copy(copied, m.sent)

	return copied
}

func newTestService(store *fakeStore) (*OrderService, *recordingMailer) {
	m := &recordingMailer{}
	svc := MustNewOrderService(
		WithUnitOfWorkFactory(func() unitOfWork { return &fakeUOW{store: store} }),
		WithMailer(m),
		WithFrontendURL("http://shop.test"),
	)

	return svc, m
}
