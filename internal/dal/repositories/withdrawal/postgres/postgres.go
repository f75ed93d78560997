package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/vendra/escrow-svc/internal/dal/postgres"
	"github.com/vendra/escrow-svc/internal/service/models/withdrawal"
)

// WithdrawalRepository implements the withdrawal ledger for PostgreSQL.
type WithdrawalRepository struct {
	conn postgres.Querier
}

// NewWithdrawalRepository creates a new withdrawal repository.
func NewWithdrawalRepository(conn postgres.Querier) *WithdrawalRepository {
	return &WithdrawalRepository{
		conn: conn,
	}
}

// Insert appends a withdrawal record and returns it with its assigned id.
func (r *WithdrawalRepository) Insert(
	ctx context.Context,
	w withdrawal.Withdrawal,
) (*withdrawal.Withdrawal, error) {
	query, args, err := sq.Insert("withdrawals").
		Columns("vendor_id", "amount_cents", "type", "created_at").
		Values(w.VendorID, w.AmountCents, w.Type, w.CreatedAt).
		Suffix("RETURNING id").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.conn.QueryRow(ctx, query, args...).Scan(&w.ID); err != nil {
		return nil, fmt.Errorf("failed to insert withdrawal: %w", err)
	}

	return &w, nil
}

// ListByVendor lists a vendor's withdrawal records, newest first.
func (r *WithdrawalRepository) ListByVendor(
	ctx context.Context,
	vendorID int64,
) ([]withdrawal.Withdrawal, error) {
	query, args, err := sq.Select("id", "vendor_id", "amount_cents", "type", "created_at").
		From("withdrawals").
		Where(sq.Eq{"vendor_id": vendorID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query withdrawals: %w", err)
	}
	defer rows.Close()

	var result []withdrawal.Withdrawal
	for rows.Next() {
		var w withdrawal.Withdrawal
		var typ string
		if err := rows.Scan(&w.ID, &w.VendorID, &w.AmountCents, &typ, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal: %w", err)
		}
		w.Type = withdrawal.Type(typ)
		result = append(result, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating withdrawals: %w", err)
	}

	return result, nil
}
