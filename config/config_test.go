package config

import (
	"testing"
	"time"

	"detailstudio-backend/scheduling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("BUSINESS_OPEN", "08:00")
	t.Setenv("BUSINESS_CLOSE", "20:00")
	t.Setenv("SLOT_STEP_MINUTES", "15")
	t.Setenv("CORS_ORIGINS", "https://studio.example, http://localhost:3000 ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15, cfg.SlotStepMinutes)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL())
	assert.Equal(t, []string{"https://studio.example", "http://localhost:3000"}, cfg.AllowedOrigins())
	assert.Equal(t, "0 18 * * *", cfg.ReminderCron)

	hours, err := cfg.BusinessHours()
	require.NoError(t, err)
	assert.Equal(t, scheduling.MustClock("08:00"), hours.Open)
	assert.Equal(t, scheduling.MustClock("20:00"), hours.Close)
}

func TestLoadGeneratesDevelopmentSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.JWTSecret)

	t.Setenv("ENV", "production")
	_, err = Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{JWTSecret: "s", DBDriver: "postgres", BusinessOpen: "09:00", BusinessClose: "18:00"}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no secret", func(c *Config) { c.JWTSecret = "" }},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }},
		{"bad open", func(c *Config) { c.BusinessOpen = "9am" }},
		{"inverted hours", func(c *Config) { c.BusinessOpen, c.BusinessClose = "18:00", "09:00" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDefaultBusinessHours(t *testing.T) {
	hours, err := Config{}.BusinessHours()
	require.NoError(t, err)
	assert.Equal(t, scheduling.DefaultBusinessHours, hours)
}

func TestFeatureToggles(t *testing.T) {
	cfg := Config{CloudinaryCloudName: "demo", CloudinaryAPIKey: "k"}
	assert.False(t, cfg.CloudinaryConfigured())
	cfg.CloudinaryAPISecret = "s"
	assert.True(t, cfg.CloudinaryConfigured())

	assert.False(t, Config{TwilioAccountSID: "AC1"}.TwilioConfigured())
	assert.Equal(t, 5*time.Minute, Config{CatalogCacheSecs: 300}.CatalogCacheTTL())
}
