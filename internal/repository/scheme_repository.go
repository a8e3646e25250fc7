package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/epanchayat/digital-gram-panchayat/internal/model"
)

// SchemeRepo persists welfare schemes and citizen applications to them.
type SchemeRepo struct{ DB *sql.DB }

func NewSchemeRepo(db *sql.DB) *SchemeRepo { return &SchemeRepo{DB: db} }

const schemeColumns = "id,name,department,description,eligibility,benefits,is_active,created_by,created_at,updated_at"

func scanScheme(row interface{ Scan(...any) error }) (model.Scheme, error) {
	var s model.Scheme
	err := row.Scan(&s.ID, &s.Name, &s.Department, &s.Description, &s.Eligibility,
		&s.Benefits, &s.IsActive, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Create inserts a new active scheme and returns its ID.
func (r *SchemeRepo) Create(ctx context.Context, s model.Scheme) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO schemes (name, department, description, eligibility, benefits, is_active, created_by)
		 VALUES (?,?,?,?,?,1,?)`,
		s.Name, s.Department, s.Description, s.Eligibility, s.Benefits, s.CreatedBy)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites the descriptive fields of a scheme.
func (r *SchemeRepo) Update(ctx context.Context, s model.Scheme) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE schemes SET name=?, department=?, description=?, eligibility=?, benefits=? WHERE id=?",
		s.Name, s.Department, s.Description, s.Eligibility, s.Benefits, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, s.ID); err != nil {
			return err
		}
	}
	return nil
}

// Deactivate closes a scheme to new applications.
func (r *SchemeRepo) Deactivate(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE schemes SET is_active=0 WHERE id=?", id)
	return err
}

// GetByID fetches one scheme.
func (r *SchemeRepo) GetByID(ctx context.Context, id uint64) (model.Scheme, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+schemeColumns+" FROM schemes WHERE id=? LIMIT 1", id)
	s, err := scanScheme(row)
	if err == sql.ErrNoRows {
		return model.Scheme{}, ErrNotFound
	}
	return s, err
}

// ListActive returns schemes currently open for applications.
func (r *SchemeRepo) ListActive(ctx context.Context) ([]model.Scheme, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+schemeColumns+" FROM schemes WHERE is_active=1 ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Scheme{}
	for rows.Next() {
		s, err := scanScheme(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CreateApplication files a citizen's application to a scheme.  The
// unique index on (scheme_id, user_id) maps a second application by
// the same citizen to ErrConflict.
func (r *SchemeRepo) CreateApplication(ctx context.Context, a model.SchemeApplication) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO scheme_applications (ref_no, scheme_id, user_id, status, remarks)
		 VALUES (?,?,?,?,'')`,
		a.RefNo, a.SchemeID, a.UserID, model.SchemeAppPending)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

const schemeAppColumns = "a.id,a.ref_no,a.scheme_id,a.user_id,a.status,a.remarks,a.reviewed_by,a.created_at,a.updated_at,s.name"

func scanSchemeApp(row interface{ Scan(...any) error }) (model.SchemeApplication, error) {
	var (
		a          model.SchemeApplication
		reviewedBy sql.NullInt64
	)
	err := row.Scan(&a.ID, &a.RefNo, &a.SchemeID, &a.UserID, &a.Status,
		&a.Remarks, &reviewedBy, &a.CreatedAt, &a.UpdatedAt, &a.SchemeName)
	if err != nil {
		return model.SchemeApplication{}, err
	}
	if reviewedBy.Valid {
		a.ReviewedBy = uint64(reviewedBy.Int64)
	}
	return a, nil
}

// ListApplicationsByUser returns a citizen's applications, newest first.
func (r *SchemeRepo) ListApplicationsByUser(ctx context.Context, userID uint64) ([]model.SchemeApplication, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+schemeAppColumns+` FROM scheme_applications a
		 JOIN schemes s ON s.id=a.scheme_id
		 WHERE a.user_id=? ORDER BY a.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSchemeApps(rows)
}

// ListApplicationsByStatus returns applications in a given state for
// staff review, oldest first.
func (r *SchemeRepo) ListApplicationsByStatus(ctx context.Context, status string) ([]model.SchemeApplication, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+schemeAppColumns+` FROM scheme_applications a
		 JOIN schemes s ON s.id=a.scheme_id
		 WHERE a.status=? ORDER BY a.created_at ASC`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSchemeApps(rows)
}

func collectSchemeApps(rows *sql.Rows) ([]model.SchemeApplication, error) {
	out := []model.SchemeApplication{}
	for rows.Next() {
		a, err := scanSchemeApp(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ReviewApplication moves a PENDING application to APPROVED or
// REJECTED.  ErrConflict when already reviewed, ErrNotFound when absent.
func (r *SchemeRepo) ReviewApplication(ctx context.Context, id uint64, status, remarks string, reviewedBy uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE scheme_applications SET status=?, remarks=?, reviewed_by=? WHERE id=? AND status=?",
		status, remarks, reviewedBy, id, model.SchemeAppPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := r.DB.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM scheme_applications WHERE id=?", id).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}
	return nil
}
