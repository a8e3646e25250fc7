package repository

import (
	"context"
	"database/sql"

	"github.com/epanchayat/digital-gram-panchayat/internal/model"
)

// CertificateRepo persists certificate applications.
type CertificateRepo struct{ DB *sql.DB }

func NewCertificateRepo(db *sql.DB) *CertificateRepo { return &CertificateRepo{DB: db} }

const certColumns = "id,ref_no,user_id,cert_type,applicant_name,father_name,event_date,event_place,details,status,remarks,reviewed_by,issued_at,created_at,updated_at"

func scanCertificate(row interface{ Scan(...any) error }) (model.Certificate, error) {
	var (
		c          model.Certificate
		reviewedBy sql.NullInt64
		issuedAt   sql.NullTime
	)
	err := row.Scan(&c.ID, &c.RefNo, &c.UserID, &c.CertType, &c.ApplicantName,
		&c.FatherName, &c.EventDate, &c.EventPlace, &c.Details, &c.Status,
		&c.Remarks, &reviewedBy, &issuedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Certificate{}, err
	}
	if reviewedBy.Valid {
		c.ReviewedBy = uint64(reviewedBy.Int64)
	}
	if issuedAt.Valid {
		t := issuedAt.Time
		c.IssuedAt = &t
	}
	return c, nil
}

// Create inserts a new PENDING application and returns its ID.
func (r *CertificateRepo) Create(ctx context.Context, c model.Certificate) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO certificates
		 (ref_no, user_id, cert_type, applicant_name, father_name, event_date, event_place, details, status, remarks)
		 VALUES (?,?,?,?,?,?,?,?,?,'')`,
		c.RefNo, c.UserID, c.CertType, c.ApplicantName, c.FatherName,
		c.EventDate, c.EventPlace, c.Details, model.CertStatusPending)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches one application.
func (r *CertificateRepo) GetByID(ctx context.Context, id uint64) (model.Certificate, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+certColumns+" FROM certificates WHERE id=? LIMIT 1", id)
	c, err := scanCertificate(row)
	if err == sql.ErrNoRows {
		return model.Certificate{}, ErrNotFound
	}
	return c, err
}

// ListByUser returns the applications filed by one citizen, newest first.
func (r *CertificateRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Certificate, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+certColumns+" FROM certificates WHERE user_id=? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCertificates(rows)
}

// ListByStatus returns applications in a given state for staff review,
// oldest first so the queue drains in filing order.
func (r *CertificateRepo) ListByStatus(ctx context.Context, status string) ([]model.Certificate, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+certColumns+" FROM certificates WHERE status=? ORDER BY created_at ASC", status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCertificates(rows)
}

func collectCertificates(rows *sql.Rows) ([]model.Certificate, error) {
	out := []model.Certificate{}
	for rows.Next() {
		c, err := scanCertificate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Review moves a PENDING application to APPROVED or REJECTED.  Returns
// ErrConflict if the application is not pending (already reviewed) and
// ErrNotFound if it does not exist.
func (r *CertificateRepo) Review(ctx context.Context, id uint64, status, remarks string, reviewedBy uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE certificates SET status=?, remarks=?, reviewed_by=? WHERE id=? AND status=?",
		status, remarks, reviewedBy, id, model.CertStatusPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

// Issue marks an APPROVED application ISSUED and stamps issued_at.
// Returns ErrConflict when the application exists but is not approved.
func (r *CertificateRepo) Issue(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE certificates SET status=?, issued_at=NOW() WHERE id=? AND status=?",
		model.CertStatusIssued, id, model.CertStatusApproved)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}
