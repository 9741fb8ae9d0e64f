package entity

import (
	"time"
)

// Role is the authorization role attached to a user account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the aggregate root for the identity domain.
// Password holds a bcrypt hash and is never serialized to API responses.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	Role      Role
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}
