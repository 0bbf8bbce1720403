package accountsdk

import (
	"encoding/json"
	"time"
)

// Identity is the account shape the service returns. The password hash is
// never part of it.
type Identity struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"fullName"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// Pagination describes the page an admin listing covers.
type Pagination struct {
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	TotalUsers int64 `json:"totalUsers"`
	PerPage    int   `json:"perPage"`
}

// UserPage is one page of an admin user listing.
type UserPage struct {
	Users      []Identity `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// HealthResponse is the shape of the /livez and /readyz endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// SignupRequest registers a new account.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// UpdateProfileRequest changes email and/or full name. Empty fields keep
// their current values.
type UpdateProfileRequest struct {
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

// envelope is the wire format every endpoint answers with.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []FieldError    `json:"errors"`
}

type authData struct {
	User  Identity `json:"user"`
	Token string   `json:"token"`
}

type userData struct {
	User Identity `json:"user"`
}
