package walletsvc

import (
	"context"
	"time"

	"github.com/vendra/escrow-svc/internal/dal/interfaces/iorderrepo"
	"github.com/vendra/escrow-svc/internal/dal/interfaces/iuserrepo"
	"github.com/vendra/escrow-svc/internal/dal/interfaces/iwithdrawalrepo"
	"github.com/vendra/escrow-svc/internal/dal/postgres"
	"github.com/vendra/escrow-svc/internal/dal/uow"
	"github.com/vendra/escrow-svc/internal/service/models/apperr"
	"github.com/vendra/escrow-svc/internal/service/models/order"
	"github.com/vendra/escrow-svc/internal/service/models/user"
	"github.com/vendra/escrow-svc/internal/service/models/withdrawal"
)

// WalletService exposes the vendor wallet: the materialized balance, the
// settled payment history and withdrawals against the balance.
type WalletService struct {
	newUOW func() unitOfWork
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	UserRepository() iuserrepo.IUserRepository
	WithdrawalRepository() iwithdrawalrepo.IWithdrawalRepository
}

// option is a function that configures the WalletService.
type option func(*WalletService)

// MustNewWalletService creates a new WalletService.
func MustNewWalletService(opts ...option) *WalletService {
	s := &WalletService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		panic("wallet service: no unit of work source configured")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the WalletService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *WalletService) {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
	}
}

// WithUnitOfWorkFactory overrides the unit of work source. Used by tests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *WalletService) {
		s.newUOW = func() unitOfWork { return factory() }
	}
}

// Balance returns the vendor's spendable wallet balance in cents.
func (s *WalletService) Balance(ctx context.Context, vendorID int64) (int64, error) {
	work := s.newUOW()

	balance, err := work.UserRepository().WalletBalance(ctx, vendorID)
	if err != nil {
		return 0, apperr.Internal(err)
	}

	return balance, nil
}

// PaymentHistory lists the vendor's settled orders: paid, delivered and
// confirmed received. Reporting only; the spendable balance is the
// materialized wallet column.
func (s *WalletService) PaymentHistory(ctx context.Context, vendorID int64) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().PaymentHistory(ctx, vendorID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return orders, nil
}

// MakeWithdrawal debits the vendor wallet and records the withdrawal, both in
// one transaction. The sufficiency check lives inside the debit statement, so
// a concurrent withdrawal can never overdraw the balance.
func (s *WalletService) MakeWithdrawal(
	ctx context.Context,
	actor user.Actor,
	amountCents int64,
) (*withdrawal.Withdrawal, error) {
	if actor.Role != user.RoleVendor {
		return nil, apperr.Forbidden("Access Denied")
	}
	if amountCents <= 0 {
		return nil, apperr.BadRequest("Invalid withdrawal amount!")
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	defer func() { _ = work.Rollback(ctx) }()

	ok, err := work.UserRepository().DebitWallet(ctx, actor.ID, amountCents)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !ok {
		return nil, apperr.BadRequest("Insufficient funds")
	}

	record, err := work.WithdrawalRepository().Insert(ctx, withdrawal.Withdrawal{
		VendorID:    actor.ID,
		AmountCents: amountCents,
		Type:        withdrawal.TypePending,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := work.Commit(ctx); err != nil {
		return nil, apperr.Internal(err)
	}

	return record, nil
}

// ListWithdrawals lists the vendor's withdrawal records.
func (s *WalletService) ListWithdrawals(ctx context.Context, vendorID int64) ([]withdrawal.Withdrawal, error) {
	work := s.newUOW()

	records, err := work.WithdrawalRepository().ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return records, nil
}
