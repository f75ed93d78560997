package postgresrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vendra/escrow-svc/internal/dal/interfaces/iorderrepo"
	"github.com/vendra/escrow-svc/internal/dal/postgres"
	"github.com/vendra/escrow-svc/internal/service/models/order"
	"github.com/vendra/escrow-svc/internal/service/models/product"
)

// OrderDal represents order data access layer model
type OrderDal struct {
	Id             int64      `db:"id"`
	OrderRef       string     `db:"order_ref"`
	CompanyId      int64      `db:"company_id"`
	VendorId       int64      `db:"vendor_id"`
	CustomerId     int64      `db:"customer_id"`
	Products       []byte     `db:"products"`
	TotalCents     int64      `db:"total_cents"`
	TransactionRef string     `db:"transaction_ref"`
	UserPaid       bool       `db:"user_paid"`
	UserPaidOn     *time.Time `db:"user_paid_on"`
	OrderStatus    string     `db:"order_status"`
	DeliveredOn    *time.Time `db:"vendor_delivered_on"`
	UserReceived   bool       `db:"user_received"`
	UserReceivedOn *time.Time `db:"user_received_on"`
	Credited       bool       `db:"credited"`
	RatingValue    *int32     `db:"rating_value"`
	RatingReview   *string    `db:"rating_review"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// ToModel converts OrderDal to service layer Order model
func (o *OrderDal) ToModel() (*order.Order, error) {
	status, err := order.ParseStatus(o.OrderStatus)
	if err != nil {
		return nil, err
	}

	var products []product.Product
	if len(o.Products) > 0 {
		if err := json.Unmarshal(o.Products, &products); err != nil {
			return nil, fmt.Errorf("failed to decode products: %w", err)
		}
	}

	var rating *order.Rating
	if o.RatingValue != nil {
		rating = &order.Rating{Value: int(*o.RatingValue)}
		if o.RatingReview != nil {
			rating.Review = *o.RatingReview
		}
	}

	return &order.Order{
		ID:             o.Id,
		OrderRef:       o.OrderRef,
		CompanyID:      o.CompanyId,
		VendorID:       o.VendorId,
		CustomerID:     o.CustomerId,
		Products:       products,
		TotalCents:     o.TotalCents,
		TransactionRef: o.TransactionRef,
		UserPaid:       o.UserPaid,
		UserPaidOn:     o.UserPaidOn,
		Status:         status,
		DeliveredOn:    o.DeliveredOn,
		UserReceived:   o.UserReceived,
		UserReceivedOn: o.UserReceivedOn,
		Credited:       o.Credited,
		Rating:         rating,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}, nil
}

const orderColumns = `
		id,
		order_ref,
		company_id,
		vendor_id,
		customer_id,
		products,
		total_cents,
		transaction_ref,
		user_paid,
		user_paid_on,
		order_status,
		vendor_delivered_on,
		user_received,
		user_received_on,
		credited,
		rating_value,
		rating_review,
		created_at,
		updated_at`

func scanOrder(row pgx.Row) (*order.Order, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.Id,
		&dal.OrderRef,
		&dal.CompanyId,
		&dal.VendorId,
		&dal.CustomerId,
		&dal.Products,
		&dal.TotalCents,
		&dal.TransactionRef,
		&dal.UserPaid,
		&dal.UserPaidOn,
		&dal.OrderStatus,
		&dal.DeliveredOn,
		&dal.UserReceived,
		&dal.UserReceivedOn,
		&dal.Credited,
		&dal.RatingValue,
		&dal.RatingReview,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel()
}

func collectOrders(rows pgx.Rows) ([]order.Order, error) {
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		model, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, *model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

type PostgresOrderRepository struct {
	conn postgres.Querier
}

func NewPostgresOrderRepository(conn postgres.Querier) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

// InsertGroup inserts the sibling orders of one placement and returns them
// with assigned ids.
func (r *PostgresOrderRepository) InsertGroup(ctx context.Context, orders []order.Order) ([]order.Order, error) {
	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	sql := `
		INSERT INTO orders (
			order_ref,
			company_id,
			vendor_id,
			customer_id,
			products,
			total_cents,
			order_status,
			created_at,
			updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + orderColumns

	result := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		products, err := json.Marshal(o.Products)
		if err != nil {
			return nil, fmt.Errorf("failed to encode products: %w", err)
		}

		model, err := scanOrder(r.conn.QueryRow(ctx, sql,
			o.OrderRef,
			o.CompanyID,
			o.VendorID,
			o.CustomerID,
			products,
			o.TotalCents,
			order.StatusPending,
			o.CreatedAt,
			o.UpdatedAt,
		))
		if err != nil {
			return nil, fmt.Errorf("failed to insert order: %w", err)
		}

		result = append(result, *model)
	}

	return result, nil
}

func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	sql := `SELECT` + orderColumns + ` FROM orders WHERE id = $1`

	model, err := scanOrder(r.conn.QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return model, nil
}

func (r *PostgresOrderRepository) GetByRef(ctx context.Context, orderRef string) ([]order.Order, error) {
	sql := `SELECT` + orderColumns + ` FROM orders WHERE order_ref = $1 ORDER BY id`

	rows, err := r.conn.Query(ctx, sql, orderRef)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders by ref: %w", err)
	}

	return collectOrders(rows)
}

func (r *PostgresOrderRepository) SetTransactionRef(
	ctx context.Context,
	orderRef, transactionRef string,
	at time.Time,
) error {
	sql := `
		UPDATE orders
		SET transaction_ref = $2, updated_at = $3
		WHERE order_ref = $1`

	if _, err := r.conn.Exec(ctx, sql, orderRef, transactionRef, at); err != nil {
		return fmt.Errorf("failed to set transaction ref: %w", err)
	}

	return nil
}

// MarkPaid flips userPaid on all unpaid siblings matching both references.
// Rows already paid are left untouched, which makes webhook redelivery safe.
func (r *PostgresOrderRepository) MarkPaid(
	ctx context.Context,
	orderRef, transactionRef string,
	at time.Time,
) ([]order.Order, error) {
	sql := `
		UPDATE orders
		SET user_paid = true, user_paid_on = $3, updated_at = $3
		WHERE order_ref = $1 AND transaction_ref = $2 AND user_paid = false
		RETURNING ` + orderColumns

	rows, err := r.conn.Query(ctx, sql, orderRef, transactionRef, at)
	if err != nil {
		return nil, fmt.Errorf("failed to mark orders paid: %w", err)
	}

	return collectOrders(rows)
}

// TransitionStatus performs the pending -> terminal transition with a
// compare-and-swap on the current status, so two concurrent calls cannot both
// succeed.
func (r *PostgresOrderRepository) TransitionStatus(
	ctx context.Context,
	id int64,
	newStatus order.Status,
	at time.Time,
) (*order.Order, error) {
	sql := `
		UPDATE orders
		SET order_status = $2,
			vendor_delivered_on = CASE WHEN $2 = 'delivered' THEN $3 ELSE vendor_delivered_on END,
			updated_at = $3
		WHERE id = $1 AND order_status = 'pending'
		RETURNING ` + orderColumns

	model, err := scanOrder(r.conn.QueryRow(ctx, sql, id, newStatus, at))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, iorderrepo.ErrNotUpdated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to transition order status: %w", err)
	}

	return model, nil
}

// ConfirmReceipt records the customer confirmation on a delivered order. The
// received timestamp is set once; retries keep the original value.
func (r *PostgresOrderRepository) ConfirmReceipt(
	ctx context.Context,
	id int64,
	rating *order.Rating,
	at time.Time,
) (*order.Order, error) {
	var ratingValue *int32
	var ratingReview *string
	if rating != nil {
		v := int32(rating.Value)
		ratingValue = &v
		if rating.Review != "" {
			ratingReview = &rating.Review
		}
	}

	sql := `
		UPDATE orders
		SET user_received = true,
			user_received_on = COALESCE(user_received_on, $2),
			rating_value = COALESCE($3, rating_value),
			rating_review = COALESCE($4, rating_review),
			updated_at = $2
		WHERE id = $1 AND order_status = 'delivered'
		RETURNING ` + orderColumns

	model, err := scanOrder(r.conn.QueryRow(ctx, sql, id, at, ratingValue, ratingReview))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, iorderrepo.ErrNotUpdated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to confirm receipt: %w", err)
	}

	return model, nil
}

// MarkCredited flips the settlement guard. The WHERE clause is the idempotency
// barrier: at most one call per order ever sees a row updated.
func (r *PostgresOrderRepository) MarkCredited(ctx context.Context, id int64) (bool, error) {
	sql := `
		UPDATE orders
		SET credited = true, updated_at = now()
		WHERE id = $1
			AND user_paid
			AND order_status = 'delivered'
			AND user_received
			AND NOT credited`

	tag, err := r.conn.Exec(ctx, sql, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark order credited: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Query retrieves orders based on filter criteria
func (r *PostgresOrderRepository) Query(ctx context.Context, filter *order.Query) ([]order.Order, error) {
	sqlBuilder := strings.Builder{}
	sqlBuilder.WriteString(`SELECT` + orderColumns + ` FROM orders`)

	args := []interface{}{}
	conditions := []string{}
	argIndex := 1

	if filter.CompanyID > 0 {
		conditions = append(conditions, fmt.Sprintf("company_id = $%d", argIndex))
		args = append(args, filter.CompanyID)
		argIndex++
	}

	if filter.VendorID > 0 {
		conditions = append(conditions, fmt.Sprintf("vendor_id = $%d", argIndex))
		args = append(args, filter.VendorID)
		argIndex++
	}

	if filter.OrderRef != "" {
		conditions = append(conditions, fmt.Sprintf("order_ref = $%d", argIndex))
		args = append(args, filter.OrderRef)
		argIndex++
	}

	if filter.Delivered != nil {
		if *filter.Delivered {
			conditions = append(conditions, "order_status = 'delivered'")
		} else {
			conditions = append(conditions, "order_status <> 'delivered'")
		}
	}

	if len(conditions) > 0 {
		sqlBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	sqlBuilder.WriteString(" ORDER BY created_at DESC")

	if filter.Limit > 0 {
		sqlBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argIndex))
		args = append(args, filter.Limit)
		argIndex++
	}

	if filter.Offset > 0 {
		sqlBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argIndex))
		args = append(args, filter.Offset)
	}

	rows, err := r.conn.Query(ctx, sqlBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	return collectOrders(rows)
}

// PaymentHistory lists the vendor's settled orders, newest first.
func (r *PostgresOrderRepository) PaymentHistory(ctx context.Context, vendorID int64) ([]order.Order, error) {
	sql := `
		SELECT` + orderColumns + `
		FROM orders
		WHERE vendor_id = $1
			AND user_paid
			AND order_status = 'delivered'
			AND user_received
		ORDER BY created_at DESC`

	rows, err := r.conn.Query(ctx, sql, vendorID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment history: %w", err)
	}

	return collectOrders(rows)
}
