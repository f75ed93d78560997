package placeorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/vendra/escrow-svc/internal/auth"
	"github.com/vendra/escrow-svc/internal/service/models/apperr"
	"github.com/vendra/escrow-svc/internal/service/models/user"
	"github.com/vendra/escrow-svc/internal/service/services/ordersvc"
	"github.com/vendra/escrow-svc/pkg/http/respond"
)

// service is an interface for the service layer.
type service interface {
	PlaceOrder(ctx context.Context, actor user.Actor, req ordersvc.PlaceOrderRequest) (*ordersvc.Placement, error)
}

// productInPlaceOrderRequest represents one product line in a placement.
type productInPlaceOrderRequest struct {
	Vendor     string `json:"vendor"     validate:"required,email"`
	ID         string `json:"id"         validate:"required"`
	Name       string `json:"name"       validate:"required,min=3"`
	PriceCents int64  `json:"priceCents" validate:"gt=0"`
	Details    string `json:"details"`
}

// placeOrderRequest represents a place order request.
type placeOrderRequest struct {
	CustomerEmail string                       `json:"customerEmail" validate:"required,email,min=3,max=70"`
	CustomerName  string                       `json:"customerName"  validate:"required,min=3,max=100"`
	Products      []productInPlaceOrderRequest `json:"products"      validate:"required,min=1,dive"`
}

// Validate validates the place order request.
func (r *placeOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

func (r *placeOrderRequest) toModel() ordersvc.PlaceOrderRequest {
	products := make([]ordersvc.PlacedProduct, len(r.Products))
	for i, p := range r.Products {
		products[i] = ordersvc.PlacedProduct{
			Vendor:     p.Vendor,
			ID:         p.ID,
			Name:       p.Name,
			PriceCents: p.PriceCents,
			Details:    p.Details,
		}
	}

	return ordersvc.PlaceOrderRequest{
		CustomerEmail: r.CustomerEmail,
		CustomerName:  r.CustomerName,
		Products:      products,
	}
}

// PlaceOrder handles the place order request.
func PlaceOrder(w http.ResponseWriter, r *http.Request, service service) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respond.Error(w, apperr.Unauthorized("Not authorized!"))

		return
	}

	orderReq := placeOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&orderReq); err != nil {
		respond.Error(w, apperr.BadRequest("Something went wrong!"))
		slog.Error("Error decoding request body for place order", "error", err)

		return
	}

	if err := orderReq.Validate(); err != nil {
		respond.Error(w, apperr.BadRequest(err.Error()))
		slog.Error("Error validating request body for place order", "error", err)

		return
	}

	placement, err := service.PlaceOrder(r.Context(), actor, orderReq.toModel())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error placing order", "error", err)

		return
	}

	respond.Result(w, http.StatusCreated, placement)
}
