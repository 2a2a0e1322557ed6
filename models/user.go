package models

import (
	"strings"
	"time"

	"github.com/pateando/pateando-api/apperrors"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleClient Role = "CLIENT"
	RoleWalker Role = "WALKER"
)

// ParseRole validates a role value at the boundary. Unknown values are
// rejected instead of being stored as arbitrary strings.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleClient:
		return RoleClient, nil
	case RoleWalker:
		return RoleWalker, nil
	default:
		return "", apperrors.New(apperrors.Validation, "INVALID_ROLE", "role must be CLIENT or WALKER")
	}
}

// User represents a user in the system (client or walker).
// Identity fields are immutable after creation.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone     string    `gorm:"uniqueIndex;not null" json:"phone"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	Role      Role      `gorm:"not null" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// FormattedName returns "First L.": first name plus last-name initial.
// Used by the client statistics view.
func (u User) FormattedName() string {
	parts := strings.Fields(strings.TrimSpace(u.Name))
	if len(parts) == 0 {
		return "Unknown"
	}
	if len(parts) == 1 {
		return parts[0]
	}
	last := parts[len(parts)-1]
	return parts[0] + " " + strings.ToUpper(last[:1]) + "."
}
