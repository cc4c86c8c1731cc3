package models

import "time"

// User roles recognised by the portal.
const (
	RoleApplicant = "applicant"
	RoleAdmin     = "admin"
)

// User represents an account created at signup. Accounts are immutable
// after creation; there is no profile edit flow.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:32;not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user may review applications.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidRole reports whether the given role is one the portal accepts at signup.
func ValidRole(role string) bool {
	return role == RoleApplicant || role == RoleAdmin
}
