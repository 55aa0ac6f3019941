package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr   string
	GinMode   string
	LogLevel  string
	LogFormat string

	DBHost           string
	DBPort           int
	DBUser           string
	DBPassword       string
	DBName           string
	DBMaxConns       int
	DBAcquireTimeout time.Duration

	SpreadsheetID  string
	SheetTab       string
	ServiceAccount ServiceAccountSource

	SMTPHost   string
	SMTPPort   int
	EmailUser  string
	EmailPass  string
	EmailFrom  string
	AdminEmail string

	PaymentLinkURL string

	AdminJWTSecret    string
	AdminLoginEmail   string
	AdminPasswordHash string
	AdminTokenTTL     time.Duration

	CORSAllowedOrigins []string
}

// LoadEnv reads .env (when present) and then the process environment.
func LoadEnv() Env {
	_ = godotenv.Load()

	appAddr := getenv("APP_ADDR", "")
	if appAddr == "" {
		if port := getenv("PORT", ""); port != "" {
			appAddr = ":" + strings.TrimPrefix(port, ":")
		} else {
			appAddr = ":5000"
		}
	}

	emailUser := getenv("EMAIL_USER", "")

	spreadsheetID := getenv("SPREADSHEET_ID", "")
	if spreadsheetID == "" {
		spreadsheetID = getenv("SPREADSHEET_API", "")
	}

	env := Env{
		AppAddr:   appAddr,
		GinMode:   getenv("GIN_MODE", ""),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "text"),

		DBHost:           getenv("DB_HOST", ""),
		DBPort:           getenvInt("DB_PORT", 3306),
		DBUser:           getenv("DB_USER", "root"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           getenv("DB_NAME", "AutoTrustReport"),
		DBMaxConns:       getenvInt("DB_MAX_CONNS", 10),
		DBAcquireTimeout: getenvDuration("DB_ACQUIRE_TIMEOUT", 60*time.Second),

		SpreadsheetID: spreadsheetID,
		SheetTab:      getenv("SHEET_TAB", "Sheet1"),
		ServiceAccount: ServiceAccountSource{
			Base64:       getenv("GOOGLE_SERVICE_ACCOUNT_BASE64", ""),
			JSON:         getenv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
			ClientEmail:  getenv("GOOGLE_CLIENT_EMAIL", ""),
			PrivateKey:   os.Getenv("GOOGLE_PRIVATE_KEY"),
			PrivateKeyID: getenv("GOOGLE_PRIVATE_KEY_ID", ""),
			ProjectID:    getenv("GOOGLE_PROJECT_ID", ""),
			File:         getenv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		},

		SMTPHost:   getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:   getenvInt("SMTP_PORT", 587),
		EmailUser:  emailUser,
		EmailPass:  os.Getenv("EMAIL_PASS"),
		EmailFrom:  getenv("EMAIL_FROM", emailUser),
		AdminEmail: getenv("ADMIN_EMAIL", emailUser),

		PaymentLinkURL: getenv("PAYMENT_LINK_URL", ""),

		AdminJWTSecret:    os.Getenv("ADMIN_JWT_SECRET"),
		AdminLoginEmail:   getenv("ADMIN_LOGIN_EMAIL", ""),
		AdminPasswordHash: getenv("ADMIN_PASSWORD_HASH", ""),
		AdminTokenTTL:     getenvDuration("ADMIN_TOKEN_TTL", 12*time.Hour),

		CORSAllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS", "")),
	}
	return env
}

// DatabaseEnabled reports whether a relational store is configured.
func (e Env) DatabaseEnabled() bool {
	return e.DBHost != ""
}

// ValidateIntake checks everything the booking pipeline needs before the
// server starts accepting submissions.
func (e Env) ValidateIntake() error {
	var errs []error
	if e.SpreadsheetID == "" {
		errs = append(errs, errors.New("SPREADSHEET_ID is not set"))
	}
	if _, err := ResolveServiceAccount(e.ServiceAccount); err != nil {
		errs = append(errs, err)
	}
	if e.EmailUser == "" || e.EmailPass == "" {
		errs = append(errs, errors.New("EMAIL_USER and EMAIL_PASS must both be set"))
	}
	if e.AdminEmail == "" {
		errs = append(errs, errors.New("ADMIN_EMAIL is not set"))
	}
	if e.AdminJWTSecret != "" && (e.AdminLoginEmail == "" || e.AdminPasswordHash == "") {
		errs = append(errs, errors.New("ADMIN_JWT_SECRET requires ADMIN_LOGIN_EMAIL and ADMIN_PASSWORD_HASH"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	// bare numbers are milliseconds, like the old pool settings
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Millisecond
	}
	return def
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
