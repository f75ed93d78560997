package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vendra/escrow-svc/internal/dal/postgres"
	"github.com/vendra/escrow-svc/internal/service/models/user"
)

// UserDal represents user data access layer model
type UserDal struct {
	Id          int64     `db:"id"`
	Email       string    `db:"email"`
	Name        string    `db:"name"`
	Role        string    `db:"role"`
	CompanyId   int64     `db:"company_id"`
	WalletCents int64     `db:"wallet_cents"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// ToModel converts UserDal to service layer User model
func (u *UserDal) ToModel() (*user.User, error) {
	role, err := user.ParseRole(u.Role)
	if err != nil {
		return nil, err
	}

	return &user.User{
		ID:          u.Id,
		Email:       u.Email,
		Name:        u.Name,
		Role:        role,
		CompanyID:   u.CompanyId,
		WalletCents: u.WalletCents,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}, nil
}

const userColumns = `
		id,
		email,
		name,
		role,
		company_id,
		wallet_cents,
		created_at,
		updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	var dal UserDal
	err := row.Scan(
		&dal.Id,
		&dal.Email,
		&dal.Name,
		&dal.Role,
		&dal.CompanyId,
		&dal.WalletCents,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel()
}

type PostgresUserRepository struct {
	conn postgres.Querier
}

func NewPostgresUserRepository(conn postgres.Querier) *PostgresUserRepository {
	return &PostgresUserRepository{
		conn: conn,
	}
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	sql := `SELECT` + userColumns + ` FROM users WHERE id = $1`

	model, err := scanUser(r.conn.QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return model, nil
}

func (r *PostgresUserRepository) GetVendorsByEmails(
	ctx context.Context,
	companyID int64,
	emails []string,
) (map[string]user.User, error) {
	sql := `
		SELECT` + userColumns + `
		FROM users
		WHERE company_id = $1 AND role = $2 AND email = ANY($3)`

	rows, err := r.conn.Query(ctx, sql, companyID, user.RoleVendor, emails)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendors: %w", err)
	}
	defer rows.Close()

	result := make(map[string]user.User, len(emails))
	for rows.Next() {
		model, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vendor: %w", err)
		}
		result[model.Email] = *model
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// FindOrCreateCustomer resolves the customer record for (email, tenant),
// creating it on first contact. The insert races safely against concurrent
// placements via the unique index on (email, company_id, role).
func (r *PostgresUserRepository) FindOrCreateCustomer(
	ctx context.Context,
	companyID int64,
	email, name string,
	at time.Time,
) (*user.User, error) {
	insert := `
		INSERT INTO users (email, name, role, company_id, wallet_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, $5, $5)
		ON CONFLICT (email, company_id, role) DO NOTHING`

	if _, err := r.conn.Exec(ctx, insert, email, name, user.RoleCustomer, companyID, at); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	sql := `
		SELECT` + userColumns + `
		FROM users
		WHERE email = $1 AND company_id = $2 AND role = $3`

	model, err := scanUser(r.conn.QueryRow(ctx, sql, email, companyID, user.RoleCustomer))
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return model, nil
}

func (r *PostgresUserRepository) ListByRole(
	ctx context.Context,
	companyID int64,
	role user.Role,
) ([]user.User, error) {
	sql := `
		SELECT` + userColumns + `
		FROM users
		WHERE company_id = $1 AND role = $2
		ORDER BY created_at DESC`

	rows, err := r.conn.Query(ctx, sql, companyID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var result []user.User
	for rows.Next() {
		model, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		result = append(result, *model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func (r *PostgresUserRepository) CreditWallet(ctx context.Context, vendorID, amountCents int64) error {
	sql := `
		UPDATE users
		SET wallet_cents = wallet_cents + $2, updated_at = now()
		WHERE id = $1`

	tag, err := r.conn.Exec(ctx, sql, vendorID, amountCents)
	if err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to credit wallet: vendor %d not found", vendorID)
	}

	return nil
}

// DebitWallet decrements the balance with the sufficiency check inside the
// UPDATE itself; there is no read-then-write gap to race through.
func (r *PostgresUserRepository) DebitWallet(ctx context.Context, vendorID, amountCents int64) (bool, error) {
	sql := `
		UPDATE users
		SET wallet_cents = wallet_cents - $2, updated_at = now()
		WHERE id = $1 AND wallet_cents >= $2`

	tag, err := r.conn.Exec(ctx, sql, vendorID, amountCents)
	if err != nil {
		return false, fmt.Errorf("failed to debit wallet: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *PostgresUserRepository) WalletBalance(ctx context.Context, vendorID int64) (int64, error) {
	sql := `SELECT wallet_cents FROM users WHERE id = $1`

	var balance int64
	err := r.conn.QueryRow(ctx, sql, vendorID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to get wallet balance: vendor %d not found", vendorID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get wallet balance: %w", err)
	}

	return balance, nil
}
