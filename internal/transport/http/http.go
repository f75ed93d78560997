package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	"github.com/vendra/escrow-svc/internal/auth"
	"github.com/vendra/escrow-svc/internal/service/models/company"
	"github.com/vendra/escrow-svc/internal/service/models/notification"
	"github.com/vendra/escrow-svc/internal/service/models/order"
	"github.com/vendra/escrow-svc/internal/service/models/user"
	"github.com/vendra/escrow-svc/internal/service/models/withdrawal"
	"github.com/vendra/escrow-svc/internal/service/services/ordersvc"
	companydir "github.com/vendra/escrow-svc/internal/transport/http/company_dir"
	confirmdelivery "github.com/vendra/escrow-svc/internal/transport/http/confirm_delivery"
	listorders "github.com/vendra/escrow-svc/internal/transport/http/list_orders"
	"github.com/vendra/escrow-svc/internal/transport/http/notifications"
	"github.com/vendra/escrow-svc/internal/transport/http/payment"
	placeorder "github.com/vendra/escrow-svc/internal/transport/http/place_order"
	updatestatus "github.com/vendra/escrow-svc/internal/transport/http/update_status"
	"github.com/vendra/escrow-svc/internal/transport/http/wallet"
	"github.com/vendra/escrow-svc/pkg/http/middleware/trace"
	"github.com/vendra/escrow-svc/pkg/logger"
)

type orderService interface {
	PlaceOrder(ctx context.Context, actor user.Actor, req ordersvc.PlaceOrderRequest) (*ordersvc.Placement, error)
	InitPayment(ctx context.Context, orderRef string) (string, error)
	VerifyPayment(ctx context.Context, orderRef, transactionRef string) ([]order.Order, error)
	UpdateOrderStatus(ctx context.Context, actor user.Actor, orderID int64, newStatus string) (*order.Order, error)
	ConfirmDelivery(ctx context.Context, orderID int64, received bool, rating *order.Rating) (*order.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*order.Order, error)
	ListCompanyOrders(ctx context.Context, actor user.Actor, companyID int64, statusFilter string) ([]order.Order, error)
	ListVendorOrders(ctx context.Context, actor user.Actor, vendorID int64, statusFilter string) ([]order.Order, error)
}

type walletService interface {
	Balance(ctx context.Context, vendorID int64) (int64, error)
	PaymentHistory(ctx context.Context, vendorID int64) ([]order.Order, error)
	MakeWithdrawal(ctx context.Context, actor user.Actor, amountCents int64) (*withdrawal.Withdrawal, error)
	ListWithdrawals(ctx context.Context, vendorID int64) ([]withdrawal.Withdrawal, error)
}

type notificationService interface {
	List(ctx context.Context, actor user.Actor, limit, offset int) ([]notification.Notification, error)
	MarkRead(ctx context.Context, actor user.Actor, id int64) error
}

type companyService interface {
	ResolveCompany(ctx context.Context, key string) (*company.Company, error)
	GetUsers(ctx context.Context, actor user.Actor, role string) ([]user.User, error)
}

type HTTPTransport struct {
	server *http.Server
	router *chi.Mux

	orderSvc        orderService
	walletSvc       walletService
	notificationSvc notificationService
	companySvc      companyService

	authMiddleware func(http.Handler) http.Handler
}

func NewHTTPTransport(
	orderSvc orderService,
	walletSvc walletService,
	notificationSvc notificationService,
	companySvc companyService,
	authMiddleware func(http.Handler) http.Handler,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:          server,
		router:          router,
		orderSvc:        orderSvc,
		walletSvc:       walletSvc,
		notificationSvc: notificationSvc,
		companySvc:      companySvc,
		authMiddleware:  authMiddleware,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Get("/init-payment/{orderRef}", h.initPayment)
			r.Get("/verify-payment/{orderRef}", h.verifyPayment)
			r.Post("/confirm-delivery/{orderId}", h.confirmDelivery)
			r.Get("/{orderId}", h.getOrder)

			r.Group(func(r chi.Router) {
				r.Use(h.authMiddleware)
				r.With(auth.RequireRole(user.RoleCompany)).
					Post("/place-order", h.placeOrder)
				r.With(auth.RequireRole(user.RoleVendor, user.RoleCompany, user.RoleAdmin)).
					Patch("/{orderId}", h.updateOrderStatus)
				r.With(auth.RequireRole(user.RoleVendor, user.RoleCompany, user.RoleAdmin)).
					Get("/company-orders/{companyId}", h.listCompanyOrders)
				r.With(auth.RequireRole(user.RoleVendor, user.RoleCompany, user.RoleAdmin)).
					Get("/vendor-orders/{vendorId}", h.listVendorOrders)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(h.authMiddleware)
			r.Use(auth.RequireRole(user.RoleCompany, user.RoleVendor))
			r.Get("/", h.listNotifications)
			r.Patch("/{notificationId}/read", h.markNotificationRead)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.authMiddleware)
			r.Use(auth.RequireRole(user.RoleVendor))
			r.Post("/make-withdrawal", h.makeWithdrawal)
			r.Get("/withdrawals", h.listWithdrawals)
			r.Get("/payment-history", h.paymentHistory)
		})

		r.Route("/companies", func(r chi.Router) {
			r.With(h.authMiddleware, auth.RequireRole(user.RoleCompany, user.RoleAdmin)).
				Get("/get-users", h.getCompanyUsers)
			r.Get("/{companySlug}", h.resolveCompany)
		})
	})
}

func (h *HTTPTransport) placeOrder(w http.ResponseWriter, r *http.Request) {
	placeorder.PlaceOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) initPayment(w http.ResponseWriter, r *http.Request) {
	payment.InitPayment(w, r, h.orderSvc)
}

func (h *HTTPTransport) verifyPayment(w http.ResponseWriter, r *http.Request) {
	payment.VerifyPayment(w, r, h.orderSvc)
}

func (h *HTTPTransport) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	updatestatus.UpdateOrderStatus(w, r, h.orderSvc)
}

func (h *HTTPTransport) confirmDelivery(w http.ResponseWriter, r *http.Request) {
	confirmdelivery.ConfirmDelivery(w, r, h.orderSvc)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	listorders.GetOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) listCompanyOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListCompanyOrders(w, r, h.orderSvc)
}

func (h *HTTPTransport) listVendorOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListVendorOrders(w, r, h.orderSvc)
}

func (h *HTTPTransport) listNotifications(w http.ResponseWriter, r *http.Request) {
	notifications.List(w, r, h.notificationSvc)
}

func (h *HTTPTransport) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	notifications.MarkRead(w, r, h.notificationSvc)
}

func (h *HTTPTransport) makeWithdrawal(w http.ResponseWriter, r *http.Request) {
	wallet.MakeWithdrawal(w, r, h.walletSvc)
}

func (h *HTTPTransport) listWithdrawals(w http.ResponseWriter, r *http.Request) {
	wallet.ListWithdrawals(w, r, h.walletSvc)
}

func (h *HTTPTransport) paymentHistory(w http.ResponseWriter, r *http.Request) {
	wallet.PaymentHistory(w, r, h.walletSvc)
}

func (h *HTTPTransport) resolveCompany(w http.ResponseWriter, r *http.Request) {
	companydir.ResolveCompany(w, r, h.companySvc)
}

func (h *HTTPTransport) getCompanyUsers(w http.ResponseWriter, r *http.Request) {
	companydir.GetUsers(w, r, h.companySvc)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
