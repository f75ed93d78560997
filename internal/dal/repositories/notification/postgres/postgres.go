package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/vendra/escrow-svc/internal/dal/postgres"
	"github.com/vendra/escrow-svc/internal/service/models/notification"
)

// NotificationRepository implements the notification store for PostgreSQL.
type NotificationRepository struct {
	conn postgres.Querier
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(conn postgres.Querier) *NotificationRepository {
	return &NotificationRepository{
		conn: conn,
	}
}

// Insert appends a notification record.
func (r *NotificationRepository) Insert(ctx context.Context, n notification.Notification) error {
	createdAt := n.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query, args, err := sq.Insert("notifications").
		Columns(
			"type",
			"order_id",
			"order_ref",
			"vendor_id",
			"company_id",
			"read",
			"message",
			"created_at",
		).
		Values(
			n.Type,
			n.OrderID,
			n.OrderRef,
			n.VendorID,
			n.CompanyID,
			n.Read,
			n.Message,
			createdAt,
		).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	_, err = r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}

func scopePredicates(filter notification.Query) []sq.Sqlizer {
	preds := make([]sq.Sqlizer, 0, 2)
	if filter.CompanyID > 0 {
		preds = append(preds, sq.Eq{"company_id": filter.CompanyID})
	}
	if filter.VendorID > 0 {
		preds = append(preds, sq.Eq{"vendor_id": filter.VendorID})
	}

	return preds
}

// Query lists notifications inside one owner scope, newest first.
func (r *NotificationRepository) Query(
	ctx context.Context,
	filter notification.Query,
) ([]notification.Notification, error) {
	builder := sq.Select(
		"id",
		"type",
		"order_id",
		"order_ref",
		"vendor_id",
		"company_id",
		"read",
		"message",
		"created_at",
	).
		From("notifications").
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	for _, pred := range scopePredicates(filter) {
		builder = builder.Where(pred)
	}

	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var result []notification.Notification
	for rows.Next() {
		var n notification.Notification
		var typ string
		err := rows.Scan(
			&n.ID,
			&typ,
			&n.OrderID,
			&n.OrderRef,
			&n.VendorID,
			&n.CompanyID,
			&n.Read,
			&n.Message,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Type = notification.Type(typ)
		result = append(result, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return result, nil
}

// MarkRead flips the read flag iff the record belongs to the given scope.
func (r *NotificationRepository) MarkRead(
	ctx context.Context,
	id int64,
	filter notification.Query,
) (bool, error) {
	builder := sq.Update("notifications").
		Set("read", true).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar)

	for _, pred := range scopePredicates(filter) {
		builder = builder.Where(pred)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to mark notification read: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
