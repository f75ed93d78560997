package wallet

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/vendra/escrow-svc/internal/auth"
	"github.com/vendra/escrow-svc/internal/service/models/apperr"
	"github.com/vendra/escrow-svc/internal/service/models/order"
	"github.com/vendra/escrow-svc/internal/service/models/user"
	"github.com/vendra/escrow-svc/internal/service/models/withdrawal"
	"github.com/vendra/escrow-svc/pkg/http/respond"
)

type service interface {
	Balance(ctx context.Context, vendorID int64) (int64, error)
	PaymentHistory(ctx context.Context, vendorID int64) ([]order.Order, error)
	MakeWithdrawal(ctx context.Context, actor user.Actor, amountCents int64) (*withdrawal.Withdrawal, error)
	ListWithdrawals(ctx context.Context, vendorID int64) ([]withdrawal.Withdrawal, error)
}

// makeWithdrawalRequest represents a withdrawal request.
type makeWithdrawalRequest struct {
	AmountCents int64 `json:"amountCents" validate:"gt=0"`
}

// Validate validates the withdrawal request.
func (r *makeWithdrawalRequest) Validate() error {
	return validator.New().Struct(r)
}

// MakeWithdrawal handles the withdrawal request.
func MakeWithdrawal(w http.ResponseWriter, r *http.Request, service service) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respond.Error(w, apperr.Unauthorized("Not authorized!"))

		return
	}

	withdrawalReq := makeWithdrawalRequest{}
	if err := json.NewDecoder(r.Body).Decode(&withdrawalReq); err != nil {
		respond.Error(w, apperr.BadRequest("Something went wrong!"))
		slog.Error("Error decoding request body for withdrawal", "error", err)

		return
	}

	if err := withdrawalReq.Validate(); err != nil {
		respond.Error(w, apperr.BadRequest("Invalid withdrawal amount!"))

		return
	}

	created, err := service.MakeWithdrawal(r.Context(), actor, withdrawalReq.AmountCents)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error making withdrawal", "error", err)

		return
	}

	respond.Result(w, http.StatusCreated, created)
}

// ListWithdrawals handles the withdrawal listing request.
func ListWithdrawals(w http.ResponseWriter, r *http.Request, service service) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respond.Error(w, apperr.Unauthorized("Not authorized!"))

		return
	}

	withdrawals, err := service.ListWithdrawals(r.Context(), actor.ID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing withdrawals", "error", err)

		return
	}

	balance, err := service.Balance(r.Context(), actor.ID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error reading wallet balance", "error", err)

		return
	}

	respond.Result(w, http.StatusOK, map[string]any{
		"balanceCents": balance,
		"withdrawals":  withdrawals,
	})
}

// PaymentHistory handles the payment history request.
func PaymentHistory(w http.ResponseWriter, r *http.Request, service service) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respond.Error(w, apperr.Unauthorized("Not authorized!"))

		return
	}

	history, err := service.PaymentHistory(r.Context(), actor.ID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing payment history", "error", err)

		return
	}

	respond.Result(w, http.StatusOK, history)
}
