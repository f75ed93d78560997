package icompanyrepo

import (
	"context"

	"github.com/vendra/escrow-svc/internal/service/models/company"
)

// ICompanyRepository defines tenant directory lookups. Lookup methods return
// (nil, nil) when nothing matches.
type ICompanyRepository interface {
	GetByID(ctx context.Context, id int64) (*company.Company, error)
	GetBySlug(ctx context.Context, slug string) (*company.Company, error)
}
