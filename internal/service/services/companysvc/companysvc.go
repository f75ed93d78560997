package companysvc

import (
	"context"
	"strconv"

	"github.com/vendra/escrow-svc/internal/dal/interfaces/icompanyrepo"
	"github.com/vendra/escrow-svc/internal/dal/interfaces/iuserrepo"
	"github.com/vendra/escrow-svc/internal/dal/postgres"
	"github.com/vendra/escrow-svc/internal/dal/uow"
	"github.com/vendra/escrow-svc/internal/service/models/apperr"
	"github.com/vendra/escrow-svc/internal/service/models/company"
	"github.com/vendra/escrow-svc/internal/service/models/user"
)

// CompanyService is the tenant directory: it resolves company identity and
// lists the users living under a tenant.
type CompanyService struct {
	newUOW func() unitOfWork
}

type unitOfWork interface {
	CompanyRepository() icompanyrepo.ICompanyRepository
	UserRepository() iuserrepo.IUserRepository
}

// option is a function that configures the CompanyService.
type option func(*CompanyService)

// MustNewCompanyService creates a new CompanyService.
func MustNewCompanyService(opts ...option) *CompanyService {
	s := &CompanyService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		panic("company service: no unit of work source configured")
	}

	return s
}

// WithPostgresClient sets the Postgres client for the CompanyService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *CompanyService) {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
	}
}

// WithUnitOfWorkFactory overrides the unit of work source. Used by tests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *CompanyService) {
		s.newUOW = func() unitOfWork { return factory() }
	}
}

// ResolveCompany looks a tenant up by slug, or by id when the key is numeric.
func (s *CompanyService) ResolveCompany(ctx context.Context, key string) (*company.Company, error) {
	work := s.newUOW()

	var c *company.Company
	var err error

	if id, convErr := strconv.ParseInt(key, 10, 64); convErr == nil {
		c, err = work.CompanyRepository().GetByID(ctx, id)
	} else {
		c, err = work.CompanyRepository().GetBySlug(ctx, key)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if c == nil {
		return nil, apperr.NotFound("Company doesn't exist!")
	}

	return c, nil
}

// GetUsers lists users of one role inside the caller's tenant.
func (s *CompanyService) GetUsers(
	ctx context.Context,
	actor user.Actor,
	role string,
) ([]user.User, error) {
	parsed, err := user.ParseRole(role)
	if err != nil {
		return nil, err
	}

	if actor.Role != user.RoleCompany && actor.Role != user.RoleAdmin {
		return nil, apperr.Forbidden("Access Denied")
	}

	work := s.newUOW()

	users, err := work.UserRepository().ListByRole(ctx, actor.CompanyID, parsed)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return users, nil
}
