package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings splits list-valued variables
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  The privileged-identity
// allow-lists (officer email, staff emails) are configuration rather
// than source constants so a deployment can change them without a
// rebuild.
type Config struct {
	Env            string   // application environment (e.g. "dev", "prod")
	Port           string   // HTTP port to listen on
	DBUser         string   // database username
	DBPass         string   // database password (optional)
	DBHost         string   // database host address
	DBPort         string   // database port number
	DBName         string   // database name
	JWTSecret      string   // secret used to sign JWTs
	BcryptCost     int      // bcrypt cost for password hashing
	OfficerEmail   string   // the single email allowed to hold the Officer role
	StaffEmails    []string // emails allowed to hold the Staff role
	StaffSeatLimit int      // maximum number of persisted Staff accounts allowed to log in
}

// Load reads configuration from environment variables.  Required
// variables are enforced by must() and missing values cause the
// process to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		OfficerEmail:   normalizeEmail(must("OFFICER_EMAIL")),
		StaffEmails:    splitEmails(must("STAFF_EMAILS")),
		StaffSeatLimit: envInt("STAFF_SEAT_LIMIT", 2),
	}
}

// IsStaffEmail reports whether email is on the staff allow-list.
func (c Config) IsStaffEmail(email string) bool {
	email = normalizeEmail(email)
	for _, s := range c.StaffEmails {
		if s == email {
			return true
		}
	}
	return false
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// splitEmails parses a comma-separated list of addresses, dropping
// empty entries.
func splitEmails(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if e := normalizeEmail(p); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
