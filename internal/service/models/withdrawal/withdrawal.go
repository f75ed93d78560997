package withdrawal

import (
	"database/sql/driver"
	"time"
)

// Type is the lifecycle state of a withdrawal request.
type Type string

const (
	TypePending  Type = "pending"
	TypeSuccess  Type = "success"
	TypeFailed   Type = "failed"
	TypeReversed Type = "reversed"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) Value() (driver.Value, error) {
	return t.String(), nil
}

// Withdrawal is a ledger debit against a vendor wallet. The wallet balance is
// decremented atomically with the record's creation.
type Withdrawal struct {
	ID          int64     `json:"id"`
	VendorID    int64     `json:"vendorId"`
	AmountCents int64     `json:"amountCents"`
	Type        Type      `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
}
