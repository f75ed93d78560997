package notification

import (
	"database/sql/driver"
	"time"
)

// Type identifies the order transition that produced a notification.
type Type string

const (
	TypeCustomerPlacedOrder Type = "customer_placed_order"
	TypeOrderDelivered      Type = "order_delivered"
	TypeOrderCancelled      Type = "order_cancelled"
	TypeDeliveryConfirmed   Type = "delivery_confirmed"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) Value() (driver.Value, error) {
	return t.String(), nil
}

// Notification is an append-only inbox record created alongside the order
// mutation that caused it. Only the Read flag is ever mutated afterwards.
type Notification struct {
	ID        int64     `json:"id"`
	Type      Type      `json:"type"`
	OrderID   int64     `json:"orderId"`
	OrderRef  string    `json:"orderRef"`
	VendorID  int64     `json:"vendorId"`
	CompanyID int64     `json:"companyId"`
	Read      bool      `json:"read"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Query filters notifications to one owner's view.
type Query struct {
	CompanyID int64
	VendorID  int64
	Limit     int
	Offset    int
}
