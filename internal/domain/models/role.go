package models

import "github.com/google/uuid"

// Role titles known to the storefront.
const (
	RoleCustomer = "Customer"
	RoleAdmin    = "Admin"
	RoleOwner    = "Owner"
)

// Role is a named capability granted to a customer.
type Role struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
}
