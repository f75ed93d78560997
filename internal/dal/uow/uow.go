package uow

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/vendra/escrow-svc/internal/dal/interfaces/icompanyrepo"
	"github.com/vendra/escrow-svc/internal/dal/interfaces/inotificationrepo"
	"github.com/vendra/escrow-svc/internal/dal/interfaces/iorderrepo"
	"github.com/vendra/escrow-svc/internal/dal/interfaces/iuserrepo"
	"github.com/vendra/escrow-svc/internal/dal/interfaces/iwithdrawalrepo"
	"github.com/vendra/escrow-svc/internal/dal/postgres"
	companyrepo "github.com/vendra/escrow-svc/internal/dal/repositories/company/postgres"
	notificationrepo "github.com/vendra/escrow-svc/internal/dal/repositories/notification/postgres"
	orderrepo "github.com/vendra/escrow-svc/internal/dal/repositories/order/postgres"
	userrepo "github.com/vendra/escrow-svc/internal/dal/repositories/user/postgres"
	withdrawalrepo "github.com/vendra/escrow-svc/internal/dal/repositories/withdrawal/postgres"
)

// UnitOfWork binds the repositories to one database handle. Before Begin the
// repositories run against the pool; after Begin they share one transaction
// until Commit or Rollback.
type UnitOfWork struct {
	client *postgres.Client
	tx     pgx.Tx

	orderRepo        iorderrepo.IOrderRepository
	userRepo         iuserrepo.IUserRepository
	companyRepo      icompanyrepo.ICompanyRepository
	notificationRepo inotificationrepo.INotificationRepository
	withdrawalRepo   iwithdrawalrepo.IWithdrawalRepository
}

func NewUnitOfWork(client *postgres.Client) *UnitOfWork {
	u := &UnitOfWork{client: client}
	u.bind(client.Pool())

	return u
}

func (u *UnitOfWork) bind(conn postgres.Querier) {
	u.orderRepo = orderrepo.NewPostgresOrderRepository(conn)
	u.userRepo = userrepo.NewPostgresUserRepository(conn)
	u.companyRepo = companyrepo.NewPostgresCompanyRepository(conn)
	u.notificationRepo = notificationrepo.NewNotificationRepository(conn)
	u.withdrawalRepo = withdrawalrepo.NewWithdrawalRepository(conn)
}

func (u *UnitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *UnitOfWork) UserRepository() iuserrepo.IUserRepository {
	return u.userRepo
}

func (u *UnitOfWork) CompanyRepository() icompanyrepo.ICompanyRepository {
	return u.companyRepo
}

func (u *UnitOfWork) NotificationRepository() inotificationrepo.INotificationRepository {
	return u.notificationRepo
}

func (u *UnitOfWork) WithdrawalRepository() iwithdrawalrepo.IWithdrawalRepository {
	return u.withdrawalRepo
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	tx, err := u.client.Pool().Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.bind(tx)

	return nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit(ctx)
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback(ctx)
}
