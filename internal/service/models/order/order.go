package order

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/vendra/escrow-svc/internal/service/models/apperr"
	"github.com/vendra/escrow-svc/internal/service/models/product"
)

// Status is the fulfillment state of an order. Pending is the only
// non-terminal state; delivered and cancelled accept no further transitions.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

// Terminal reports whether no further status transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func ParseStatus(v string) (Status, error) {
	switch v {
	case StatusPending.String():
		return StatusPending, nil
	case StatusDelivered.String():
		return StatusDelivered, nil
	case StatusCancelled.String():
		return StatusCancelled, nil
	default:
		return "", apperr.BadRequest("invalid order status: " + v)
	}
}

// Order is one vendor's portion of a customer purchase. Sibling orders from
// the same placement share an OrderRef.
type Order struct {
	ID             int64             `json:"id"`
	OrderRef       string            `json:"orderRef"`
	CompanyID      int64             `json:"companyId"`
	VendorID       int64             `json:"vendorId"`
	CustomerID     int64             `json:"customerId"`
	Products       []product.Product `json:"products"`
	TotalCents     int64             `json:"totalCents"`
	TransactionRef string            `json:"transactionRef,omitempty"`
	UserPaid       bool              `json:"userPaid"`
	UserPaidOn     *time.Time        `json:"userPaidOn,omitempty"`
	Status         Status            `json:"order_status"`
	DeliveredOn    *time.Time        `json:"vendorDeliveredOn,omitempty"`
	UserReceived   bool              `json:"userReceived"`
	UserReceivedOn *time.Time        `json:"userReceivedOn,omitempty"`
	Credited       bool              `json:"-"`
	Rating         *Rating           `json:"rating,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// Rating is the customer's 1:1 review attached at confirmation time.
type Rating struct {
	Value  int    `json:"value"`
	Review string `json:"review,omitempty"`
}

// VendorDelivered is derived from Status so the two can never drift.
func (o *Order) VendorDelivered() bool {
	return o.Status == StatusDelivered
}

// Creditable reports whether the order counts toward the vendor's settled
// payment history.
func (o *Order) Creditable() bool {
	return o.UserPaid && o.Status == StatusDelivered && o.UserReceived
}

// NewRef builds a shared order reference in the `#<digits>` format.
func NewRef(at time.Time) string {
	return fmt.Sprintf("#%d", at.UnixNano())
}
