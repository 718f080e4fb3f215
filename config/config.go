package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"detailstudio-backend/scheduling"
	"detailstudio-backend/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	DBDriver string `mapstructure:"DB_DRIVER"` // postgres or sqlite
	DBURL    string `mapstructure:"DB_URL"`

	JWTSecret      string `mapstructure:"JWT_SECRET"`
	JWTExpiryHours int    `mapstructure:"JWT_EXPIRY_HOURS"`

	BusinessOpen    string `mapstructure:"BUSINESS_OPEN"`
	BusinessClose   string `mapstructure:"BUSINESS_CLOSE"`
	SlotStepMinutes int    `mapstructure:"SLOT_STEP_MINUTES"`

	CORSOrigins string `mapstructure:"CORS_ORIGINS"` // comma separated

	RateLimitPerMinute int `mapstructure:"RATE_LIMIT_PER_MIN"`
	RateLimitBurst     int `mapstructure:"RATE_LIMIT_BURST"`

	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisDB          int    `mapstructure:"REDIS_DB"`
	CatalogCacheSecs int    `mapstructure:"CATALOG_CACHE_SECONDS"`

	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `mapstructure:"CLOUDINARY_FOLDER"`
	UploadDir           string `mapstructure:"UPLOAD_DIR"`
	PublicBaseURL       string `mapstructure:"PUBLIC_BASE_URL"`

	TwilioAccountSID  string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber string `mapstructure:"TWILIO_PHONE_NUMBER"`
	ReminderCron      string `mapstructure:"REMINDER_CRON"`
	ReminderTemplate  string `mapstructure:"REMINDER_TEMPLATE"`

	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	AdminName     string `mapstructure:"ADMIN_NAME"`
}

// App is the process configuration, set once by Load.
var App Config

var keys = []string{
	"PORT", "ENV", "DB_DRIVER", "DB_URL", "JWT_SECRET", "JWT_EXPIRY_HOURS",
	"BUSINESS_OPEN", "BUSINESS_CLOSE", "SLOT_STEP_MINUTES", "CORS_ORIGINS",
	"RATE_LIMIT_PER_MIN", "RATE_LIMIT_BURST",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "CATALOG_CACHE_SECONDS",
	"CLOUDINARY_CLOUD_NAME", "CLOUDINARY_API_KEY", "CLOUDINARY_API_SECRET", "CLOUDINARY_FOLDER",
	"UPLOAD_DIR", "PUBLIC_BASE_URL",
	"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_PHONE_NUMBER", "REMINDER_CRON", "REMINDER_TEMPLATE",
	"ADMIN_EMAIL", "ADMIN_PASSWORD", "ADMIN_NAME",
}

// Load reads .env, an optional config.yaml and the environment, in that order
// of increasing precedence.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("JWT_EXPIRY_HOURS", 24*7)
	v.SetDefault("BUSINESS_OPEN", "09:00")
	v.SetDefault("BUSINESS_CLOSE", "18:00")
	v.SetDefault("SLOT_STEP_MINUTES", scheduling.DefaultStepMinutes)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_PER_MIN", 30)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("CATALOG_CACHE_SECONDS", 300)
	v.SetDefault("CLOUDINARY_FOLDER", "detailstudio")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("REMINDER_CRON", "0 18 * * *")
	v.SetDefault("REMINDER_TEMPLATE", "Hi [ClientName], this is a reminder of your [ServiceName] appointment tomorrow at [StartTime].")
	v.SetDefault("ADMIN_NAME", "Admin User")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		cfg.JWTSecret = utils.GenerateJWTSecret()
		log.Println("JWT_SECRET not set, using a random secret; sessions end on restart")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET not set")
	}
	if c.DBDriver != "postgres" && c.DBDriver != "sqlite" {
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if _, err := c.BusinessHours(); err != nil {
		return err
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// SessionTTL is the lifetime of session tokens and cookies.
func (c Config) SessionTTL() time.Duration {
	if c.JWTExpiryHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.JWTExpiryHours) * time.Hour
}

// BusinessHours parses the opening window.
func (c Config) BusinessHours() (scheduling.BusinessHours, error) {
	if c.BusinessOpen == "" && c.BusinessClose == "" {
		return scheduling.DefaultBusinessHours, nil
	}
	open, err := scheduling.ParseClock(c.BusinessOpen)
	if err != nil {
		return scheduling.BusinessHours{}, fmt.Errorf("BUSINESS_OPEN: %w", err)
	}
	closing, err := scheduling.ParseClock(c.BusinessClose)
	if err != nil {
		return scheduling.BusinessHours{}, fmt.Errorf("BUSINESS_CLOSE: %w", err)
	}
	hours := scheduling.BusinessHours{Open: open, Close: closing}
	return hours, hours.Validate()
}

// AllowedOrigins splits CORS_ORIGINS.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c Config) CatalogCacheTTL() time.Duration {
	return time.Duration(c.CatalogCacheSecs) * time.Second
}

func (c Config) CloudinaryConfigured() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

func (c Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioPhoneNumber != ""
}
