package domain

import "time"

// Role is the coarse authorization level attached to an account.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleResearcher Role = "researcher"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAdmin, RoleResearcher:
		return true
	}
	return false
}

// User is a durable, committed account. Email and Username are each
// globally unique; the store enforces both.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // argon2id encoded, never serialized to clients
	Role         Role
	IsVerified   bool // true only for accounts committed through OTP verification
	Avatar       *Avatar
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Avatar points at a stored profile image.
type Avatar struct {
	URL       string
	StorageID string
}
