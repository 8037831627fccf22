package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_SHEET_ID", "sheet-123")
	t.Setenv("APPS_SCRIPT_URL", "https://script.example.com/exec")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, ReadModeCSV, cfg.Sheets.ReadMode)
	assert.Equal(t, "https://docs.google.com/spreadsheets/d", cfg.Sheets.ExportBaseURL)
	assert.Equal(t, 15*time.Second, cfg.AppScript.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 15*time.Second, cfg.WhatsApp.Timeout)
	assert.Equal(t, "0 7 * * *", cfg.Reporting.CronSchedule)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSAllowedOrigins)
	assert.False(t, cfg.WhatsApp.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("HTTP_CLIENT_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("WHATSAPP_TOKEN", "tok")
	t.Setenv("WHATSAPP_PHONE_NUMBER_ID", "123")
	t.Setenv("VET_ALERT_PHONE", "919876543210")
	t.Setenv("WHATSAPP_TIMEOUT", "8s")

	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Sheets.Timeout)
	assert.Equal(t, 3*time.Second, cfg.AppScript.Timeout)
	assert.Equal(t, 8*time.Second, cfg.WhatsApp.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.True(t, cfg.WhatsApp.Enabled())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("GOOGLE_SHEET_ID", "")
	t.Setenv("APPS_SCRIPT_URL", "https://script.example.com/exec")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load("testdata/does-not-exist.env")
	require.EqualError(t, err, "GOOGLE_SHEET_ID must be provided")
}

func TestLoad_InvalidNumber(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_EXPIRY_HOURS", "soon")

	_, err := Load("testdata/does-not-exist.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_EXPIRY_HOURS")
}

func TestValidate_APIModeNeedsCredentials(t *testing.T) {
	cfg := &Config{
		Server:    ServerConfig{Port: "8080"},
		Sheets:    SheetsConfig{SpreadsheetID: "id", ReadMode: ReadModeAPI},
		AppScript: AppScriptConfig{URL: "https://x"},
		Auth:      AuthConfig{JWTSecret: "s", TokenTTL: time.Hour},
		Reporting: ReportingConfig{CronSchedule: "0 7 * * *", Timezone: "UTC"},
	}

	require.EqualError(t, cfg.Validate(), "GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when SHEETS_READ_MODE=api")

	cfg.Sheets.CredentialsPath = "/creds.json"
	require.NoError(t, cfg.Validate())

	cfg.Sheets.ReadMode = "xml"
	require.Error(t, cfg.Validate())
}
