package repository

import (
	"context"
	"database/sql"

	"github.com/epanchayat/digital-gram-panchayat/internal/model"
)

// GrievanceRepo persists citizen grievances.
type GrievanceRepo struct{ DB *sql.DB }

func NewGrievanceRepo(db *sql.DB) *GrievanceRepo { return &GrievanceRepo{DB: db} }

const grievanceColumns = "id,ref_no,user_id,category,subject,description,status,resolution,assigned_to,created_at,updated_at"

func scanGrievance(row interface{ Scan(...any) error }) (model.Grievance, error) {
	var (
		g          model.Grievance
		assignedTo sql.NullInt64
	)
	err := row.Scan(&g.ID, &g.RefNo, &g.UserID, &g.Category, &g.Subject,
		&g.Description, &g.Status, &g.Resolution, &assignedTo, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return model.Grievance{}, err
	}
	if assignedTo.Valid {
		g.AssignedTo = uint64(assignedTo.Int64)
	}
	return g, nil
}

// Create inserts a new OPEN grievance and returns its ID.
func (r *GrievanceRepo) Create(ctx context.Context, g model.Grievance) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO grievances (ref_no, user_id, category, subject, description, status, resolution)
		 VALUES (?,?,?,?,?,?,'')`,
		g.RefNo, g.UserID, g.Category, g.Subject, g.Description, model.GrievanceOpen)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches one grievance.
func (r *GrievanceRepo) GetByID(ctx context.Context, id uint64) (model.Grievance, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+grievanceColumns+" FROM grievances WHERE id=? LIMIT 1", id)
	g, err := scanGrievance(row)
	if err == sql.ErrNoRows {
		return model.Grievance{}, ErrNotFound
	}
	return g, err
}

// ListByUser returns the grievances filed by one citizen, newest first.
func (r *GrievanceRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Grievance, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+grievanceColumns+" FROM grievances WHERE user_id=? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGrievances(rows)
}

// ListByStatus returns grievances in a given state, oldest first.
func (r *GrievanceRepo) ListByStatus(ctx context.Context, status string) ([]model.Grievance, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+grievanceColumns+" FROM grievances WHERE status=? ORDER BY created_at ASC", status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGrievances(rows)
}

func collectGrievances(rows *sql.Rows) ([]model.Grievance, error) {
	out := []model.Grievance{}
	for rows.Next() {
		g, err := scanGrievance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// UpdateStatus records a status change made by staff, together with
// the resolution note and the staff member it is now assigned to.
func (r *GrievanceRepo) UpdateStatus(ctx context.Context, id uint64, status, resolution string, staffID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE grievances SET status=?, resolution=?, assigned_to=? WHERE id=?",
		status, resolution, staffID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
