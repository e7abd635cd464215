package config

import (
	"os"
	"strings"
)

// Config is built once in main and handed to whatever needs it. The admin
// allow-list and mail settings live here instead of package globals so a
// handler can never observe a half-initialized value.
type Config struct {
	Port         string
	AllowOrigins []string

	// Empty DB host means the store is unconfigured and the directory
	// runs in static-fallback mode.
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	ClerkSecretKey string
	AdminEmails    []string

	MailAPIKey  string
	MailBaseURL string
	MailFrom    string
	MailTo      string
}

func Load() Config {
	cfg := Config{
		Port:           getenv("PORT", "8080"),
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         getenv("DB_PORT", "5432"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         os.Getenv("DB_NAME"),
		ClerkSecretKey: os.Getenv("CLERK_SECRET_KEY"),
		MailAPIKey:     os.Getenv("MAIL_API_KEY"),
		MailBaseURL:    getenv("MAIL_BASE_URL", "https://api.resend.com/emails"),
		MailFrom:       getenv("MAIL_FROM", "Podboard <noreply@brettpollak.com>"),
		MailTo:         os.Getenv("MAIL_TO"),
	}

	for _, e := range strings.Split(os.Getenv("ADMIN_EMAILS"), ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			cfg.AdminEmails = append(cfg.AdminEmails, e)
		}
	}

	origins := getenv("ALLOW_ORIGINS", "http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}

	return cfg
}

// IsAdmin compares case-insensitively against the allow-list.
func (c Config) IsAdmin(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, a := range c.AdminEmails {
		if a == email {
			return true
		}
	}
	return false
}

func (c Config) StoreConfigured() bool {
	return c.DBHost != "" && c.DBName != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
