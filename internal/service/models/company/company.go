package company

import "time"

// Company is a tenant under which vendors, customers and orders live.
type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}
