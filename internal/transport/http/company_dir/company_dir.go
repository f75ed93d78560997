package companydir

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vendra/escrow-svc/internal/auth"
	"github.com/vendra/escrow-svc/internal/service/models/apperr"
	"github.com/vendra/escrow-svc/internal/service/models/company"
	"github.com/vendra/escrow-svc/internal/service/models/user"
	"github.com/vendra/escrow-svc/pkg/http/respond"
)

type service interface {
	ResolveCompany(ctx context.Context, key string) (*company.Company, error)
	GetUsers(ctx context.Context, actor user.Actor, role string) ([]user.User, error)
}

// ResolveCompany handles the company lookup request.
func ResolveCompany(w http.ResponseWriter, r *http.Request, service service) {
	found, err := service.ResolveCompany(r.Context(), chi.URLParam(r, "companySlug"))
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error resolving company", "error", err)

		return
	}

	respond.Result(w, http.StatusOK, found)
}

// GetUsers handles the tenant user listing request.
func GetUsers(w http.ResponseWriter, r *http.Request, service service) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respond.Error(w, apperr.Unauthorized("Not authorized!"))

		return
	}

	users, err := service.GetUsers(r.Context(), actor, r.URL.Query().Get("role"))
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing company users", "error", err)

		return
	}

	respond.Result(w, http.StatusOK, users)
}
