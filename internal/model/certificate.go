package model

import "time"

// Certificate types issued by the panchayat office.
const (
	CertBirth     = "BIRTH"
	CertDeath     = "DEATH"
	CertMarriage  = "MARRIAGE"
	CertIncome    = "INCOME"
	CertCaste     = "CASTE"
	CertResidence = "RESIDENCE"
)

// Certificate application lifecycle.  An application starts PENDING;
// staff move it to APPROVED or REJECTED, and an approved application
// becomes ISSUED once the certificate document is generated.
const (
	CertStatusPending  = "PENDING"
	CertStatusApproved = "APPROVED"
	CertStatusRejected = "REJECTED"
	CertStatusIssued   = "ISSUED"
)

// ValidCertType reports whether s names a known certificate type.
func ValidCertType(s string) bool {
	switch s {
	case CertBirth, CertDeath, CertMarriage, CertIncome, CertCaste, CertResidence:
		return true
	}
	return false
}

// Certificate mirrors the `certificates` table.  RefNo is an opaque
// reference number handed to the applicant for tracking.  ReviewedBy
// is the staff/officer user who approved or rejected the application
// (zero until reviewed).
type Certificate struct {
	ID            uint64     // certificates.id
	RefNo         string     // certificates.ref_no (unique)
	UserID        uint64     // certificates.user_id (applicant)
	CertType      string     // certificates.cert_type
	ApplicantName string     // certificates.applicant_name (person the certificate is about)
	FatherName    string     // certificates.father_name
	EventDate     string     // certificates.event_date (date of birth/death/marriage, YYYY-MM-DD)
	EventPlace    string     // certificates.event_place
	Details       string     // certificates.details (free-form supporting info)
	Status        string     // certificates.status
	Remarks       string     // certificates.remarks (reviewer note)
	ReviewedBy    uint64     // certificates.reviewed_by (nullable)
	IssuedAt      *time.Time // certificates.issued_at (nullable)
	CreatedAt     time.Time  // certificates.created_at
	UpdatedAt     time.Time  // certificates.updated_at
}
