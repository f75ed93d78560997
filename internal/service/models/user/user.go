package user

import (
	"database/sql/driver"
	"time"

	"github.com/vendra/escrow-svc/internal/service/models/apperr"
)

// Role is the role a user acts under within a tenant.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCompany  Role = "company"
	RoleVendor   Role = "vendor"
	RoleCustomer Role = "customer"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) Value() (driver.Value, error) {
	return r.String(), nil
}

func ParseRole(s string) (Role, error) {
	switch s {
	case RoleAdmin.String():
		return RoleAdmin, nil
	case RoleCompany.String():
		return RoleCompany, nil
	case RoleVendor.String():
		return RoleVendor, nil
	case RoleCustomer.String():
		return RoleCustomer, nil
	default:
		return "", apperr.BadRequest("invalid role: " + s)
	}
}

// User represents an account scoped to a company tenant.
type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        Role      `json:"role"`
	CompanyID   int64     `json:"companyId"`
	WalletCents int64     `json:"walletCents"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Actor is the authenticated caller attached to a request.
type Actor struct {
	ID        int64 `json:"id"`
	Role      Role  `json:"role"`
	CompanyID int64 `json:"companyId"`
}

// Actor projects the caller identity out of a full user record.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role, CompanyID: u.CompanyID}
}
