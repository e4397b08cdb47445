// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds every runtime value the scheduler needs. The database
// connection values and the admin bearer token are hard requirements: the
// process refuses to start without them rather than limping along with
// undefined behaviour. Everything mail-related is optional; when the SMTP
// block is incomplete the mailer runs in simulated (log-only) mode.
type Config struct {
	Env  string // application environment ("dev", "prod"); informational only
	Port string // HTTP port to listen on

	DBUser string
	DBPass string // optional, empty means no password
	DBHost string
	DBPort string
	DBName string

	AdminToken   string // static bearer token for /admin/api routes
	LinkSecret   string // secret signing volunteer login-link tokens
	LinkTTLHours int    // lifetime of a login link in hours

	PublicBaseURL string // base URL embedded in emailed login links

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	ContactName  string // front-of-house contact shown in volunteer emails
	ContactEmail string
	ContactPhone string
}

// Load reads configuration from the environment. Missing required variables
// are fatal so that a misconfigured deployment fails at startup, not on the
// first request.
func Load() Config {
	return Config{
		Env:  getenv("APP_ENV", "dev"),
		Port: getenv("APP_PORT", "8080"),

		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		AdminToken:   must("ADMIN_TOKEN"),
		LinkSecret:   must("LINK_SECRET"),
		LinkTTLHours: envInt("LINK_TTL_HOURS", 168),

		PublicBaseURL: getenv("PUBLIC_BASE_URL", "http://localhost:8080"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getenv("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: os.Getenv("SMTP_FROM"),

		ContactName:  getenv("CONTACT_NAME", "Front of House"),
		ContactEmail: os.Getenv("CONTACT_EMAIL"),
		ContactPhone: os.Getenv("CONTACT_PHONE"),
	}
}

// SMTPConfigured reports whether enough SMTP settings are present to attempt
// a real send.
func (c Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}

// must retrieves a required environment variable or halts the process.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
