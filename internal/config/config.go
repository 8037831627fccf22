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

const (
	// ReadModeCSV reads tabs through the published CSV export.
	ReadModeCSV = "csv"
	// ReadModeAPI reads tabs through the Sheets API with service account credentials.
	ReadModeAPI = "api"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Sheets    SheetsConfig
	AppScript AppScriptConfig
	Auth      AuthConfig
	Reporting ReportingConfig
	MongoDB   MongoDBConfig
	WhatsApp  WhatsAppConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
}

// LogConfig holds logger options.
type LogConfig struct {
	Level string
}

// SheetsConfig describes where the spreadsheet database is read from.
type SheetsConfig struct {
	SpreadsheetID   string
	ExportBaseURL   string
	ReadMode        string
	CredentialsPath string
	Timeout         time.Duration
}

// AppScriptConfig points at the remote command endpoint, the only write path.
type AppScriptConfig struct {
	URL     string
	Timeout time.Duration
}

// AuthConfig holds session token and login throttling settings.
type AuthConfig struct {
	JWTSecret   string
	TokenTTL    time.Duration
	RateLimit   float64
	RateBurst   int
	TokenIssuer string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// MongoDBConfig holds settings for MongoDB. An empty URI disables report storage.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// WhatsAppConfig contains credentials for alert notifications. Notifications
// are disabled when AccessToken or AlertPhone is empty.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	AlertPhone    string
	Timeout       time.Duration
}

// Enabled reports whether digest notifications can be sent.
func (w WhatsAppConfig) Enabled() bool {
	return w.AccessToken != "" && w.PhoneNumberID != "" && w.AlertPhone != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	clientTimeout, err := getenvDuration("HTTP_CLIENT_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	tokenHours, err := getenvInt("JWT_EXPIRY_HOURS", 24)
	if err != nil {
		return nil, err
	}
	whatsAppTimeout, err := getenvDuration("WHATSAPP_TIMEOUT", clientTimeout)
	if err != nil {
		return nil, err
	}
	rateLimit, err := getenvFloat("AUTH_RATE_LIMIT", 5)
	if err != nil {
		return nil, err
	}
	rateBurst, err := getenvInt("AUTH_RATE_BURST", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getenvWithDefault("APP_PORT", "8080"),
			CORSAllowedOrigins: splitList(getenvWithDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_ID"),
			ExportBaseURL:   getenvWithDefault("SHEETS_EXPORT_BASE_URL", "https://docs.google.com/spreadsheets/d"),
			ReadMode:        strings.ToLower(getenvWithDefault("SHEETS_READ_MODE", ReadModeCSV)),
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			Timeout:         clientTimeout,
		},
		AppScript: AppScriptConfig{
			URL:     os.Getenv("APPS_SCRIPT_URL"),
			Timeout: clientTimeout,
		},
		Auth: AuthConfig{
			JWTSecret:   os.Getenv("JWT_SECRET"),
			TokenTTL:    time.Duration(tokenHours) * time.Hour,
			RateLimit:   rateLimit,
			RateBurst:   rateBurst,
			TokenIssuer: getenvWithDefault("JWT_ISSUER", "cattlehealth"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 7 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Kolkata"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "cattlehealth"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			AlertPhone:    os.Getenv("VET_ALERT_PHONE"),
			Timeout:       whatsAppTimeout,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Sheets.SpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_ID must be provided")
	}

	switch c.Sheets.ReadMode {
	case ReadModeCSV:
		if c.Sheets.ExportBaseURL == "" {
			return errors.New("SHEETS_EXPORT_BASE_URL must not be empty")
		}
	case ReadModeAPI:
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when SHEETS_READ_MODE=api")
		}
	default:
		return fmt.Errorf("unsupported SHEETS_READ_MODE %q", c.Sheets.ReadMode)
	}

	if c.AppScript.URL == "" {
		return errors.New("APPS_SCRIPT_URL must be provided")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided")
	}

	if c.Auth.TokenTTL <= 0 {
		return errors.New("JWT_EXPIRY_HOURS must be positive")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided with MONGODB_URI")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
