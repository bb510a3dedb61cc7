package models

import "github.com/google/uuid"

// RequestIdentity is the immutable identity derived from a verified session
// cookie. The request authenticator produces it; route handlers read it to make
// authorization decisions. The zero value means "anonymous request".
type RequestIdentity struct {
	CustomerID uuid.UUID
	BusinessID *uuid.UUID
	Roles      []string
	IsCustomer bool
	IsAdmin    bool
	ValidToken bool
}

// ClientInfo carries per-request network metadata for audit and event payloads.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}
