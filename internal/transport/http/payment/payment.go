package payment

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vendra/escrow-svc/internal/service/models/apperr"
	"github.com/vendra/escrow-svc/internal/service/models/order"
	"github.com/vendra/escrow-svc/pkg/http/respond"
)

type service interface {
	InitPayment(ctx context.Context, orderRef string) (string, error)
	VerifyPayment(ctx context.Context, orderRef, transactionRef string) ([]order.Order, error)
}

// orderRefParam reads the order reference path parameter. The leading '#'
// is usually percent-encoded away by clients, so it is restored here.
func orderRefParam(r *http.Request) string {
	ref := chi.URLParam(r, "orderRef")
	if !strings.HasPrefix(ref, "#") {
		ref = "#" + ref
	}

	return ref
}

// InitPayment handles the init payment request.
func InitPayment(w http.ResponseWriter, r *http.Request, service service) {
	transactionRef, err := service.InitPayment(r.Context(), orderRefParam(r))
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error initializing payment", "error", err)

		return
	}

	respond.Result(w, http.StatusOK, map[string]string{"transactionRef": transactionRef})
}

// VerifyPayment handles the verify payment request.
func VerifyPayment(w http.ResponseWriter, r *http.Request, service service) {
	transactionRef := r.URL.Query().Get("transactionRef")
	if transactionRef == "" {
		respond.Error(w, apperr.BadRequest("Something went wrong!"))

		return
	}

	orders, err := service.VerifyPayment(r.Context(), orderRefParam(r), transactionRef)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error verifying payment", "error", err)

		return
	}

	respond.Result(w, http.StatusOK, orders)
}
