package model

import "time"

// User types recognised by the portal.  The values are stored verbatim
// in users.user_type and inside JWT claims, so they must never be
// renamed without a data migration.
const (
	UserTypeCitizen = "Citizen"
	UserTypeOfficer = "Officer"
	UserTypeStaff   = "Staff"
)

// ValidUserType reports whether s is one of the three recognised user types.
func ValidUserType(s string) bool {
	return s == UserTypeCitizen || s == UserTypeOfficer || s == UserTypeStaff
}

// User represents a row in the `users` table.  PasswordHash is the
// bcrypt digest of the account password and must never be serialised
// into an HTTP response; handlers build separate response structs with
// only the public fields.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email (unique)
	PasswordHash string    // users.password_hash
	UserType     string    // users.user_type (Citizen | Officer | Staff)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
