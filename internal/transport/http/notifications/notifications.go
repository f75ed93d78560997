package notifications

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	"github.com/vendra/escrow-svc/internal/auth"
	"github.com/vendra/escrow-svc/internal/service/models/apperr"
	"github.com/vendra/escrow-svc/internal/service/models/notification"
	"github.com/vendra/escrow-svc/internal/service/models/user"
	"github.com/vendra/escrow-svc/pkg/http/respond"
)

type service interface {
	List(ctx context.Context, actor user.Actor, limit, offset int) ([]notification.Notification, error)
	MarkRead(ctx context.Context, actor user.Actor, id int64) error
}

type listNotificationsQuery struct {
	Limit  int `schema:"limit,omitempty"`
	Offset int `schema:"offset,omitempty"`
}

// List handles the notification listing request.
func List(w http.ResponseWriter, r *http.Request, service service) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respond.Error(w, apperr.Unauthorized("Not authorized!"))

		return
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	query := listNotificationsQuery{}
	if err := decoder.Decode(&query, r.URL.Query()); err != nil {
		respond.Error(w, apperr.BadRequest("Something went wrong!"))
		slog.Error("Error decoding query for notifications", "error", err)

		return
	}

	notifications, err := service.List(r.Context(), actor, query.Limit, query.Offset)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing notifications", "error", err)

		return
	}

	respond.Result(w, http.StatusOK, notifications)
}

// MarkRead handles the mark-notification-read request.
func MarkRead(w http.ResponseWriter, r *http.Request, service service) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		respond.Error(w, apperr.Unauthorized("Not authorized!"))

		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "notificationId"), 10, 64)
	if err != nil {
		respond.Error(w, apperr.BadRequest("Something went wrong!"))

		return
	}

	if err := service.MarkRead(r.Context(), actor, id); err != nil {
		respond.Error(w, err)
		slog.Error("Error marking notification read", "error", err, "notification_id", id)

		return
	}

	respond.Message(w, http.StatusOK, "Notification marked as read")
}
