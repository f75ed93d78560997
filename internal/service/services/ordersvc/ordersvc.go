package ordersvc

import (
	"context"
	"time"

	"github.com/spf13/viper"
	"github.com/vendra/escrow-svc/internal/dal/interfaces/inotificationrepo"
	"github.com/vendra/escrow-svc/internal/dal/interfaces/iorderrepo"
	"github.com/vendra/escrow-svc/internal/dal/interfaces/iuserrepo"
	"github.com/vendra/escrow-svc/internal/dal/postgres"
	"github.com/vendra/escrow-svc/internal/dal/uow"
	"github.com/vendra/escrow-svc/internal/mailer"
	"github.com/vendra/escrow-svc/internal/service/models/apperr"
	"github.com/vendra/escrow-svc/internal/service/models/order"
	"github.com/vendra/escrow-svc/internal/service/models/product"
	"github.com/vendra/escrow-svc/internal/service/models/user"
)

// OrderService owns the order lifecycle: placement, payment, fulfillment
// transitions, confirmation and the side effects each transition triggers.
type OrderService struct {
	newUOW      func() unitOfWork
	mailer      mailer.Mailer
	frontendURL string
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	UserRepository() iuserrepo.IUserRepository
	NotificationRepository() inotificationrepo.INotificationRepository
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		frontendURL: viper.GetString("frontend.url"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		panic("order service: no unit of work source configured")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
	}
}

// WithMailer sets the mail dispatch collaborator.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithMailer(m mailer.Mailer) option {
	return func(s *OrderService) {
		s.mailer = m
	}
}

// WithUnitOfWorkFactory overrides the unit of work source. Used by tests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.newUOW = func() unitOfWork { return factory() }
	}
}

// WithFrontendURL sets the base URL used in mail deep links.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithFrontendURL(url string) option {
	return func(s *OrderService) {
		s.frontendURL = url
	}
}

// PlacedProduct is one product line in a placement, addressed to a vendor by
// email.
type PlacedProduct struct {
	Vendor     string
	ID         string
	Name       string
	PriceCents int64
	Details    string
}

// PlaceOrderRequest carries a company's multi-vendor placement.
type PlaceOrderRequest struct {
	CustomerEmail string
	CustomerName  string
	Products      []PlacedProduct
}

// Placement is the outcome of a placement: the created sibling orders and
// their shared reference.
type Placement struct {
	OrderRef string        `json:"orderRef"`
	Orders   []order.Order `json:"orders"`
}

// PlaceOrder splits a placement into one order per distinct vendor, all
// sharing one order reference, inside a single transaction. The customer
// record is resolved or created under the caller's tenant. No notifications
// or mail are sent here; those happen at payment verification.
func (s *OrderService) PlaceOrder(
	ctx context.Context,
	actor user.Actor,
	req PlaceOrderRequest,
) (*Placement, error) {
	if actor.Role != user.RoleCompany {
		return nil, apperr.Forbidden("Access Denied")
	}
	if len(req.Products) == 0 {
		return nil, apperr.BadRequest("Product list is empty!")
	}

	now := time.Now()

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	customer, err := work.UserRepository().FindOrCreateCustomer(
		ctx, actor.CompanyID, req.CustomerEmail, req.CustomerName, now)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	vendorEmails := make([]string, 0, len(req.Products))
	grouped := make(map[string][]product.Product)
	for _, p := range req.Products {
		if _, seen := grouped[p.Vendor]; !seen {
			vendorEmails = append(vendorEmails, p.Vendor)
		}
		grouped[p.Vendor] = append(grouped[p.Vendor], product.Product{
			ID:         p.ID,
			Name:       p.Name,
			PriceCents: p.PriceCents,
			Details:    p.Details,
		})
	}

	vendors, err := work.UserRepository().GetVendorsByEmails(ctx, actor.CompanyID, vendorEmails)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	for _, email := range vendorEmails {
		if _, ok := vendors[email]; !ok {
			return nil, apperr.NotFound("Vendor " + email + " not found!")
		}
	}

	orderRef := order.NewRef(now)

	orders := make([]order.Order, 0, len(vendorEmails))
	for _, email := range vendorEmails {
		vendor := vendors[email]
		products := grouped[email]
		orders = append(orders, order.Order{
			OrderRef:   orderRef,
			CompanyID:  actor.CompanyID,
			VendorID:   vendor.ID,
			CustomerID: customer.ID,
			Products:   products,
			TotalCents: product.TotalCents(products),
			Status:     order.StatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	orders, err = work.OrderRepository().InsertGroup(ctx, orders)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := work.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}

	return &Placement{OrderRef: orderRef, Orders: orders}, nil
}

// GetOrder fetches one order by id. Link-scoped: no authentication beyond
// knowing the id.
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*order.Order, error) {
	work := s.newUOW()

	ord, err := work.OrderRepository().GetByID(ctx, orderID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if ord == nil {
		return nil, apperr.NotFound("Order Not Found!")
	}

	return ord, nil
}

// ListCompanyOrders lists a tenant's orders within the caller's scope, with
// an optional delivery-status filter.
func (s *OrderService) ListCompanyOrders(
	ctx context.Context,
	actor user.Actor,
	companyID int64,
	statusFilter string,
) ([]order.Order, error) {
	query, err := order.ScopeFor(actor, companyID)
	if err != nil {
		return nil, err
	}

	delivered, err := order.ParseDeliveredFilter(statusFilter)
	if err != nil {
		return nil, err
	}
	query.Delivered = delivered

	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, &query)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return orders, nil
}

// ListVendorOrders lists one vendor's orders. Vendors may only list their
// own; company callers may list any vendor inside their tenant.
func (s *OrderService) ListVendorOrders(
	ctx context.Context,
	actor user.Actor,
	vendorID int64,
	statusFilter string,
) ([]order.Order, error) {
	query := order.Query{VendorID: vendorID}

	switch actor.Role {
	case user.RoleAdmin:
	case user.RoleVendor:
		if actor.ID != vendorID {
			return nil, apperr.Forbidden("Forbidden!")
		}
		query.CompanyID = actor.CompanyID
	case user.RoleCompany:
		query.CompanyID = actor.CompanyID
	default:
		return nil, apperr.Forbidden("Access Denied")
	}

	delivered, err := order.ParseDeliveredFilter(statusFilter)
	if err != nil {
		return nil, err
	}
	query.Delivered = delivered

	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, &query)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return orders, nil
}
