package iorderrepo

import (
	"context"
	"errors"
	"time"

	"github.com/vendra/escrow-svc/internal/service/models/order"
)

// ErrNotUpdated is returned by conditional updates when no row matched the
// guard, e.g. a status transition raced against an already-terminal order.
var ErrNotUpdated = errors.New("no matching row updated")

// IOrderRepository defines the order data access operations. Lookup methods
// return (nil, nil) when nothing matches.
type IOrderRepository interface {
	// InsertGroup persists sibling orders from one placement and returns them
	// with assigned ids.
	InsertGroup(ctx context.Context, orders []order.Order) ([]order.Order, error)

	GetByID(ctx context.Context, id int64) (*order.Order, error)

	// GetByRef returns all sibling orders sharing one order reference.
	GetByRef(ctx context.Context, orderRef string) ([]order.Order, error)

	// SetTransactionRef stamps a payment reference on every sibling order.
	SetTransactionRef(ctx context.Context, orderRef, transactionRef string, at time.Time) error

	// MarkPaid flips userPaid on all unpaid siblings matching both refs and
	// returns the rows it updated.
	MarkPaid(ctx context.Context, orderRef, transactionRef string, at time.Time) ([]order.Order, error)

	// TransitionStatus moves a pending order to a terminal status with a
	// compare-and-swap on the current status. ErrNotUpdated means the order
	// was not pending anymore.
	TransitionStatus(ctx context.Context, id int64, newStatus order.Status, at time.Time) (*order.Order, error)

	// ConfirmReceipt records the customer's confirmation on a delivered,
	// not-yet-confirmed order. ErrNotUpdated means the guard did not match.
	ConfirmReceipt(ctx context.Context, id int64, rating *order.Rating, at time.Time) (*order.Order, error)

	// MarkCredited flips the settlement guard exactly once; false means the
	// order was already credited or not creditable.
	MarkCredited(ctx context.Context, id int64) (bool, error)

	Query(ctx context.Context, filter *order.Query) ([]order.Order, error)

	// PaymentHistory lists the vendor's paid, delivered and confirmed orders.
	PaymentHistory(ctx context.Context, vendorID int64) ([]order.Order, error)
}
