package updatestatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/vendra/escrow-svc/internal/auth"
	"github.com/vendra/escrow-svc/internal/service/models/apperr"
	"github.com/vendra/escrow-svc/internal/service/models/order"
	"github.com/vendra/escrow-svc/internal/service/models/user"
	"github.com/vendra/escrow-svc/pkg/http/respond"
)

type service interface {
	UpdateOrderStatus(ctx context.Context, actor user.Actor, orderID int64, newStatus string) (*order.Order, error)
}

// updateStatusRequest represents an order status update request.
type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Validate validates the update status request.
func (r *updateStatusRequest) Validate() error {
	return validator.New().Struct(r)
}

// UpdateOrderStatus handles the order status update request.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, service service) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respond.Error(w, apperr.Unauthorized("Not authorized!"))

		return
	}

	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderId"), 10, 64)
	if err != nil {
		respond.Error(w, apperr.BadRequest("Something went wrong!"))

		return
	}

	statusReq := updateStatusRequest{}
	if err := json.NewDecoder(r.Body).Decode(&statusReq); err != nil {
		respond.Error(w, apperr.BadRequest("Something went wrong!"))
		slog.Error("Error decoding request body for status update", "error", err)

		return
	}

	if err := statusReq.Validate(); err != nil {
		respond.Error(w, apperr.BadRequest(err.Error()))

		return
	}

	updated, err := service.UpdateOrderStatus(r.Context(), actor, orderID, statusReq.Status)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error updating order status", "error", err, "order_id", orderID)

		return
	}

	respond.Result(w, http.StatusOK, updated)
}
