// Package queue defines message payloads exchanged over the message broker.
package queue

// CertificateIssuedEvent is published when staff issue a certificate.
// It carries enough information for downstream consumers (audit log,
// SMS/notification services) without querying the primary database.
type CertificateIssuedEvent struct {
	CertificateID uint64 `json:"certificate_id"`
	RefNo         string `json:"ref_no"`
	CertType      string `json:"cert_type"`
	UserID        uint64 `json:"user_id"`
	ApplicantName string `json:"applicant_name"`
	IssuedBy      uint64 `json:"issued_by"`
	IssuedAt      string `json:"issued_at"`
}

// GrievanceFiledEvent is published when a citizen files a grievance so
// the duty roster and notification consumers can react without polling.
type GrievanceFiledEvent struct {
	GrievanceID uint64 `json:"grievance_id"`
	RefNo       string `json:"ref_no"`
	UserID      uint64 `json:"user_id"`
	Category    string `json:"category"`
	Subject     string `json:"subject"`
	FiledAt     string `json:"filed_at"`
}
