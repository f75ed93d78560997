package confirmdelivery

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/vendra/escrow-svc/internal/service/models/apperr"
	"github.com/vendra/escrow-svc/internal/service/models/order"
	"github.com/vendra/escrow-svc/pkg/http/respond"
)

type service interface {
	ConfirmDelivery(ctx context.Context, orderID int64, received bool, rating *order.Rating) (*order.Order, error)
}

// ratingInConfirmRequest represents an optional customer rating.
type ratingInConfirmRequest struct {
	Value  int    `json:"value"  validate:"gte=1,lte=5"`
	Review string `json:"review" validate:"max=500"`
}

// confirmDeliveryRequest represents a delivery confirmation request.
type confirmDeliveryRequest struct {
	Received bool                    `json:"received"`
	Rating   *ratingInConfirmRequest `json:"rating" validate:"omitempty"`
}

// Validate validates the confirm delivery request.
func (r *confirmDeliveryRequest) Validate() error {
	return validator.New().Struct(r)
}

func (r *confirmDeliveryRequest) ratingModel() *order.Rating {
	if r.Rating == nil {
		return nil
	}

	return &order.Rating{
		Value:  r.Rating.Value,
		Review: r.Rating.Review,
	}
}

// ConfirmDelivery handles the delivery confirmation request.
func ConfirmDelivery(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderId"), 10, 64)
	if err != nil {
		respond.Error(w, apperr.BadRequest("Something went wrong!"))

		return
	}

	confirmReq := confirmDeliveryRequest{}
	if err := json.NewDecoder(r.Body).Decode(&confirmReq); err != nil {
		respond.Error(w, apperr.BadRequest("Something went wrong!"))
		slog.Error("Error decoding request body for delivery confirmation", "error", err)

		return
	}

	if err := confirmReq.Validate(); err != nil {
		respond.Error(w, apperr.BadRequest(err.Error()))

		return
	}

	confirmed, err := service.ConfirmDelivery(r.Context(), orderID, confirmReq.Received, confirmReq.ratingModel())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error confirming delivery", "error", err, "order_id", orderID)

		return
	}

	respond.Result(w, http.StatusOK, confirmed)
}
