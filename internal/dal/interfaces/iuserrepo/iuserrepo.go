package iuserrepo

import (
	"context"
	"time"

	"github.com/vendra/escrow-svc/internal/service/models/user"
)

// IUserRepository defines user and wallet data access operations. Lookup
// methods return (nil, nil) when nothing matches.
type IUserRepository interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)

	// GetVendorsByEmails resolves vendor users under one tenant, keyed by
	// email. Missing emails are simply absent from the result.
	GetVendorsByEmails(ctx context.Context, companyID int64, emails []string) (map[string]user.User, error)

	// FindOrCreateCustomer resolves a customer by email within the tenant,
	// creating the record on first order. Idempotent on (email, tenant).
	FindOrCreateCustomer(ctx context.Context, companyID int64, email, name string, at time.Time) (*user.User, error)

	ListByRole(ctx context.Context, companyID int64, role user.Role) ([]user.User, error)

	// CreditWallet adds to a vendor's materialized balance.
	CreditWallet(ctx context.Context, vendorID, amountCents int64) error

	// DebitWallet subtracts from the balance iff it stays non-negative, in a
	// single guarded update. Returns false on insufficient funds.
	DebitWallet(ctx context.Context, vendorID, amountCents int64) (bool, error)

	WalletBalance(ctx context.Context, vendorID int64) (int64, error)
}
