package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "panchayat")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "egram")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("OFFICER_EMAIL", " Officer@Epanchayat.com ")
	t.Setenv("STAFF_EMAILS", "staff1@epanchayat.com, Staff2@Epanchayat.com ,")

	cfg := Load()
	assert.Equal(t, "officer@epanchayat.com", cfg.OfficerEmail)
	assert.Equal(t, []string{"staff1@epanchayat.com", "staff2@epanchayat.com"}, cfg.StaffEmails)
	assert.Equal(t, 2, cfg.StaffSeatLimit, "seat limit defaults to 2")
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestIsStaffEmail(t *testing.T) {
	cfg := Config{StaffEmails: []string{"staff1@epanchayat.com", "staff2@epanchayat.com"}}

	assert.True(t, cfg.IsStaffEmail("staff1@epanchayat.com"))
	assert.True(t, cfg.IsStaffEmail("  STAFF2@epanchayat.com "), "comparison is normalized")
	assert.False(t, cfg.IsStaffEmail("intruder@epanchayat.com"))
	assert.False(t, cfg.IsStaffEmail(""))
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity, "capacity clamps to 1")
	assert.Equal(t, 10*time.Second, cfg.TTL, "TTL clamps to five refill intervals")
}
