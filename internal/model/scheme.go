package model

import "time"

// Scheme application lifecycle.
const (
	SchemeAppPending  = "PENDING"
	SchemeAppApproved = "APPROVED"
	SchemeAppRejected = "REJECTED"
)

// Scheme mirrors the `schemes` table: a government welfare scheme
// published by the officer.  Inactive schemes stay in the table for
// historical applications but no longer accept new ones.
type Scheme struct {
	ID          uint64    // schemes.id
	Name        string    // schemes.name
	Department  string    // schemes.department
	Description string    // schemes.description
	Eligibility string    // schemes.eligibility
	Benefits    string    // schemes.benefits
	IsActive    bool      // schemes.is_active
	CreatedBy   uint64    // schemes.created_by (officer user)
	CreatedAt   time.Time // schemes.created_at
	UpdatedAt   time.Time // schemes.updated_at
}

// SchemeApplication mirrors the `scheme_applications` table.  A
// citizen may hold at most one application per scheme.
type SchemeApplication struct {
	ID         uint64    // scheme_applications.id
	RefNo      string    // scheme_applications.ref_no (unique)
	SchemeID   uint64    // scheme_applications.scheme_id
	UserID     uint64    // scheme_applications.user_id
	Status     string    // scheme_applications.status
	Remarks    string    // scheme_applications.remarks (reviewer note)
	ReviewedBy uint64    // scheme_applications.reviewed_by (nullable)
	CreatedAt  time.Time // scheme_applications.created_at
	UpdatedAt  time.Time // scheme_applications.updated_at

	SchemeName string // joined from schemes.name for listings
}
