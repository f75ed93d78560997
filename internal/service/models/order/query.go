package order

import (
	"github.com/vendra/escrow-svc/internal/service/models/apperr"
	"github.com/vendra/escrow-svc/internal/service/models/user"
)

// Query is a typed filter for listing orders. Zero fields are not applied.
type Query struct {
	CompanyID int64
	VendorID  int64
	OrderRef  string
	Delivered *bool
	Limit     int
	Offset    int
}

// ScopeFor narrows a query to what the caller is allowed to see: vendors see
// only their own orders, vendor and company callers stay inside their tenant,
// admins are unscoped. Scoping failures surface as NotFound later, so order
// existence never leaks across tenants.
func ScopeFor(actor user.Actor, companyID int64) (Query, error) {
	q := Query{CompanyID: companyID}

	switch actor.Role {
	case user.RoleAdmin:
	case user.RoleCompany, user.RoleVendor:
		if actor.CompanyID != companyID {
			return Query{}, apperr.Forbidden("Forbidden!")
		}
		if actor.Role == user.RoleVendor {
			q.VendorID = actor.ID
		}
	default:
		return Query{}, apperr.Forbidden("Access Denied")
	}

	return q, nil
}

// ParseDeliveredFilter maps the public status query parameter to the derived
// delivered flag: "pending" means not yet delivered, "success" means
// delivered. Any other non-empty value is rejected.
func ParseDeliveredFilter(status string) (*bool, error) {
	switch status {
	case "":
		return nil, nil
	case "pending":
		v := false
		return &v, nil
	case "success":
		v := true
		return &v, nil
	default:
		return nil, apperr.BadRequest("Something went wrong!")
	}
}
