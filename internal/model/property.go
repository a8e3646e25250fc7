package model

import "time"

// Property mirrors the `properties` table: a land/holding record kept
// by the panchayat.  OwnerUserID links the record to a citizen account
// when the owner has registered on the portal; it stays zero otherwise.
type Property struct {
	ID          uint64    // properties.id
	HoldingNo   string    // properties.holding_no (unique)
	OwnerName   string    // properties.owner_name
	OwnerUserID uint64    // properties.owner_user_id (nullable)
	Address     string    // properties.address
	AreaSqft    float64   // properties.area_sqft
	LandType    string    // properties.land_type (residential, agricultural, commercial)
	AnnualTax   float64   // properties.annual_tax
	CreatedAt   time.Time // properties.created_at
	UpdatedAt   time.Time // properties.updated_at
}
