package model

import "time"

// Grievance lifecycle.  Citizens file grievances as OPEN; staff move
// them through IN_PROGRESS to RESOLVED or REJECTED.
const (
	GrievanceOpen       = "OPEN"
	GrievanceInProgress = "IN_PROGRESS"
	GrievanceResolved   = "RESOLVED"
	GrievanceRejected   = "REJECTED"
)

// ValidGrievanceStatus reports whether s is a known grievance status.
func ValidGrievanceStatus(s string) bool {
	switch s {
	case GrievanceOpen, GrievanceInProgress, GrievanceResolved, GrievanceRejected:
		return true
	}
	return false
}

// Grievance mirrors the `grievances` table.
type Grievance struct {
	ID          uint64    // grievances.id
	RefNo       string    // grievances.ref_no (unique)
	UserID      uint64    // grievances.user_id (complainant)
	Category    string    // grievances.category (water, roads, sanitation, ...)
	Subject     string    // grievances.subject
	Description string    // grievances.description
	Status      string    // grievances.status
	Resolution  string    // grievances.resolution (staff note)
	AssignedTo  uint64    // grievances.assigned_to (staff user, nullable)
	CreatedAt   time.Time // grievances.created_at
	UpdatedAt   time.Time // grievances.updated_at
}
