package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/vendra/escrow-svc/internal/dal/postgres"
	"github.com/vendra/escrow-svc/internal/service/models/company"
)

type PostgresCompanyRepository struct {
	conn postgres.Querier
}

func NewPostgresCompanyRepository(conn postgres.Querier) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{
		conn: conn,
	}
}

func (r *PostgresCompanyRepository) getBy(ctx context.Context, pred sq.Eq) (*company.Company, error) {
	query, args, err := sq.Select("id", "name", "email", "slug", "created_at").
		From("companies").
		Where(pred).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var c company.Company
	err = r.conn.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Name, &c.Email, &c.Slug, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return &c, nil
}

func (r *PostgresCompanyRepository) GetByID(ctx context.Context, id int64) (*company.Company, error) {
	return r.getBy(ctx, sq.Eq{"id": id})
}

func (r *PostgresCompanyRepository) GetBySlug(ctx context.Context, slug string) (*company.Company, error) {
	return r.getBy(ctx, sq.Eq{"slug": slug})
}
