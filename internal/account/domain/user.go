package domain

import "time"

// Role determines what a user is allowed to do. Roles are assigned at
// creation (default RoleMember) and are never settable through the
// self-service profile update path.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleMember || r == RoleAdmin }

// Status gates authentication independent of credential correctness. An
// inactive user cannot log in or use a previously issued token, even if the
// token itself is still cryptographically valid.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool { return s == StatusActive || s == StatusInactive }

type User struct {
	ID           string
	Email        string // normalized (trimmed, lowercased), unique
	FullName     string
	PasswordHash string // argon2id encoded, never crosses the API boundary
	Role         Role
	Status       Status
	LastLogin    *time.Time // nil until the first successful login
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the outward, non-secret view of an authenticated user. It is
// the only user shape that crosses the system boundary and is what the
// authentication middleware attaches to the request context.
type Identity struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"fullName"`
	Role      Role       `json:"role"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// Identity returns the boundary-safe view of u. The password hash is
// deliberately not part of it.
func (u User) Identity() Identity {
	return Identity{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		LastLogin: u.LastLogin,
	}
}

// IsAdmin reports whether the identity passes the admin role gate.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// Disabled reports whether the account is blocked from authenticating.
func (i Identity) Disabled() bool { return i.Status == StatusInactive }
