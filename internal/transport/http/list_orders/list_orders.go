package listorders

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	"github.com/vendra/escrow-svc/internal/auth"
	"github.com/vendra/escrow-svc/internal/service/models/apperr"
	"github.com/vendra/escrow-svc/internal/service/models/order"
	"github.com/vendra/escrow-svc/internal/service/models/user"
	"github.com/vendra/escrow-svc/pkg/http/respond"
)

type service interface {
	GetOrder(ctx context.Context, orderID int64) (*order.Order, error)
	ListCompanyOrders(ctx context.Context, actor user.Actor, companyID int64, statusFilter string) ([]order.Order, error)
	ListVendorOrders(ctx context.Context, actor user.Actor, vendorID int64, statusFilter string) ([]order.Order, error)
}

type listOrdersQuery struct {
	Status string `schema:"status,omitempty"`
}

func decodeQuery(r *http.Request) (listOrdersQuery, error) {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	query := listOrdersQuery{}
	err := decoder.Decode(&query, r.URL.Query())

	return query, err
}

// GetOrder handles the single order fetch request.
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderId"), 10, 64)
	if err != nil {
		respond.Error(w, apperr.BadRequest("Something went wrong!"))

		return
	}

	found, err := service.GetOrder(r.Context(), orderID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error getting order", "error", err, "order_id", orderID)

		return
	}

	respond.Result(w, http.StatusOK, found)
}

// ListCompanyOrders handles the tenant-scoped order listing request.
func ListCompanyOrders(w http.ResponseWriter, r *http.Request, service service) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respond.Error(w, apperr.Unauthorized("Not authorized!"))

		return
	}

	companyID, err := strconv.ParseInt(chi.URLParam(r, "companyId"), 10, 64)
	if err != nil {
		respond.Error(w, apperr.BadRequest("Something went wrong!"))

		return
	}

	query, err := decodeQuery(r)
	if err != nil {
		respond.Error(w, apperr.BadRequest("Something went wrong!"))
		slog.Error("Error decoding query for company orders", "error", err)

		return
	}

	orders, err := service.ListCompanyOrders(r.Context(), actor, companyID, query.Status)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing company orders", "error", err)

		return
	}

	respond.Result(w, http.StatusOK, orders)
}

// ListVendorOrders handles the vendor order listing request.
func ListVendorOrders(w http.ResponseWriter, r *http.Request, service service) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respond.Error(w, apperr.Unauthorized("Not authorized!"))

		return
	}

	vendorID, err := strconv.ParseInt(chi.URLParam(r, "vendorId"), 10, 64)
	if err != nil {
		respond.Error(w, apperr.BadRequest("Something went wrong!"))

		return
	}

	query, err := decodeQuery(r)
	if err != nil {
		respond.Error(w, apperr.BadRequest("Something went wrong!"))
		slog.Error("Error decoding query for vendor orders", "error", err)

		return
	}

	orders, err := service.ListVendorOrders(r.Context(), actor, vendorID, query.Status)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing vendor orders", "error", err)

		return
	}

	respond.Result(w, http.StatusOK, orders)
}
