package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/epanchayat/digital-gram-panchayat/internal/model"
)

// PropertyRepo persists land/holding records.
type PropertyRepo struct{ DB *sql.DB }

func NewPropertyRepo(db *sql.DB) *PropertyRepo { return &PropertyRepo{DB: db} }

const propertyColumns = "id,holding_no,owner_name,owner_user_id,address,area_sqft,land_type,annual_tax,created_at,updated_at"

func scanProperty(row interface{ Scan(...any) error }) (model.Property, error) {
	var (
		p     model.Property
		owner sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.HoldingNo, &p.OwnerName, &owner, &p.Address,
		&p.AreaSqft, &p.LandType, &p.AnnualTax, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Property{}, err
	}
	if owner.Valid {
		p.OwnerUserID = uint64(owner.Int64)
	}
	return p, nil
}

// ownerValue maps a zero OwnerUserID to NULL so unlinked records do
// not reference user id 0.
func ownerValue(id uint64) any {
	if id == 0 {
		return nil
	}
	return id
}

// Create inserts a new holding record.  A duplicate holding number
// maps to ErrConflict.
func (r *PropertyRepo) Create(ctx context.Context, p model.Property) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO properties (holding_no, owner_name, owner_user_id, address, area_sqft, land_type, annual_tax)
		 VALUES (?,?,?,?,?,?,?)`,
		p.HoldingNo, p.OwnerName, ownerValue(p.OwnerUserID), p.Address, p.AreaSqft, p.LandType, p.AnnualTax)
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

// Update rewrites a holding record in place.
func (r *PropertyRepo) Update(ctx context.Context, p model.Property) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE properties SET owner_name=?, owner_user_id=?, address=?, area_sqft=?, land_type=?, annual_tax=?
		 WHERE id=?`,
		p.OwnerName, ownerValue(p.OwnerUserID), p.Address, p.AreaSqft, p.LandType, p.AnnualTax, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// GetByID fetches one record.
func (r *PropertyRepo) GetByID(ctx context.Context, id uint64) (model.Property, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+propertyColumns+" FROM properties WHERE id=? LIMIT 1", id)
	p, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return model.Property{}, ErrNotFound
	}
	return p, err
}

// GetByHoldingNo fetches one record by its holding number.
func (r *PropertyRepo) GetByHoldingNo(ctx context.Context, holdingNo string) (model.Property, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+propertyColumns+" FROM properties WHERE holding_no=? LIMIT 1",
		strings.TrimSpace(holdingNo))
	p, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return model.Property{}, ErrNotFound
	}
	return p, err
}

// ListByOwner returns the records linked to a citizen account.
func (r *PropertyRepo) ListByOwner(ctx context.Context, userID uint64) ([]model.Property, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+propertyColumns+" FROM properties WHERE owner_user_id=? ORDER BY holding_no ASC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
