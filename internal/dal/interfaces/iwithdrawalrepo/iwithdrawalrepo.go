package iwithdrawalrepo

import (
	"context"

	"github.com/vendra/escrow-svc/internal/service/models/withdrawal"
)

// IWithdrawalRepository defines the wallet debit ledger.
type IWithdrawalRepository interface {
	Insert(ctx context.Context, w withdrawal.Withdrawal) (*withdrawal.Withdrawal, error)
	ListByVendor(ctx context.Context, vendorID int64) ([]withdrawal.Withdrawal, error)
}
