package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Mailer provider names
const (
	MailerProviderResend = "resend"
	MailerProviderSMTP   = "smtp"
)

// Config holds all configuration for the application
type Config struct {
	// Database
	DatabaseURL string

	// Server
	APIPort int

	// OCR service
	OCRServiceURL string
	OCRLanguages  string
	OCRTimeout    time.Duration

	// Image normalization
	MaxImageDimension int
	JPEGQuality       int

	// Mail delivery
	MailerProvider string
	ResendAPIKey   string
	ResendBaseURL  string
	MailFrom       string
	MailSubject    string
	SMTPHost       string
	SMTPPort       int

	// Dispatch
	DispatchDelay time.Duration

	// Storage
	AttachmentStoragePath string

	// Logging
	LogLevel string

	// Security
	APIKey         string
	AllowedOrigins string
	AppEnv         string

	// Rate Limiting
	RateLimitRequests float64
	RateLimitBurst    int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}

	// Required: DATABASE_URL
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	// API_PORT (default: 8080)
	port, err := intEnv("API_PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.APIPort = port

	// OCR_SERVICE_URL (default: local tesseract bridge)
	cfg.OCRServiceURL = os.Getenv("OCR_SERVICE_URL")
	if cfg.OCRServiceURL == "" {
		cfg.OCRServiceURL = "http://localhost:9090/ocr"
	}

	// OCR_LANGUAGES (default: eng+jpn, matching the deployed tesseract config)
	cfg.OCRLanguages = os.Getenv("OCR_LANGUAGES")
	if cfg.OCRLanguages == "" {
		cfg.OCRLanguages = "eng+jpn"
	}

	// OCR_TIMEOUT_SECONDS (default: 60)
	ocrTimeout, err := intEnv("OCR_TIMEOUT_SECONDS", 60)
	if err != nil {
		return nil, err
	}
	cfg.OCRTimeout = time.Duration(ocrTimeout) * time.Second

	// MAX_IMAGE_DIMENSION (default: 1000)
	cfg.MaxImageDimension, err = intEnv("MAX_IMAGE_DIMENSION", 1000)
	if err != nil {
		return nil, err
	}

	// JPEG_QUALITY (default: 90)
	cfg.JPEGQuality, err = intEnv("JPEG_QUALITY", 90)
	if err != nil {
		return nil, err
	}

	// MAILER_PROVIDER (default: resend)
	cfg.MailerProvider = os.Getenv("MAILER_PROVIDER")
	if cfg.MailerProvider == "" {
		cfg.MailerProvider = MailerProviderResend
	}

	cfg.ResendAPIKey = os.Getenv("RESEND_API_KEY")
	cfg.ResendBaseURL = os.Getenv("RESEND_BASE_URL")
	if cfg.ResendBaseURL == "" {
		cfg.ResendBaseURL = "https://api.resend.com"
	}

	// MAIL_FROM (default matches the delivery sandbox sender)
	cfg.MailFrom = os.Getenv("MAIL_FROM")
	if cfg.MailFrom == "" {
		cfg.MailFrom = "The DECK Mailroom <onboarding@resend.dev>"
	}

	cfg.MailSubject = os.Getenv("MAIL_SUBJECT")
	if cfg.MailSubject == "" {
		cfg.MailSubject = "Your mail has arrived at The DECK"
	}

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.SMTPPort, err = intEnv("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}

	// DISPATCH_DELAY_MS (default: 500) - pause between bulk sends
	delayMS, err := intEnv("DISPATCH_DELAY_MS", 500)
	if err != nil {
		return nil, err
	}
	cfg.DispatchDelay = time.Duration(delayMS) * time.Millisecond

	// ATTACHMENT_STORAGE_PATH (default: ./attachments)
	cfg.AttachmentStoragePath = os.Getenv("ATTACHMENT_STORAGE_PATH")
	if cfg.AttachmentStoragePath == "" {
		cfg.AttachmentStoragePath = "./attachments"
	}

	// LOG_LEVEL (default: info)
	cfg.LogLevel = os.Getenv("LOG_LEVEL")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	// Security configuration
	cfg.APIKey = os.Getenv("API_KEY")
	cfg.AllowedOrigins = os.Getenv("ALLOWED_ORIGINS")
	cfg.AppEnv = os.Getenv("APP_ENV")
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}

	// Rate limiting configuration
	if rps := os.Getenv("RATE_LIMIT_REQUESTS"); rps != "" {
		if v, err := strconv.ParseFloat(rps, 64); err == nil {
			cfg.RateLimitRequests = v
		}
	} else {
		cfg.RateLimitRequests = 10.0
	}

	if burst := os.Getenv("RATE_LIMIT_BURST"); burst != "" {
		if v, err := strconv.Atoi(burst); err == nil {
			cfg.RateLimitBurst = v
		}
	} else {
		cfg.RateLimitBurst = 20
	}

	return cfg, nil
}

// intEnv parses an integer environment variable with a default
func intEnv(name string, def int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", name, err)
	}
	return v, nil
}

// LoadWithValidation loads and validates configuration, failing fast on errors
func LoadWithValidation() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Production-specific validation
	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProduction(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DatabaseURL cannot be empty")
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("APIPort must be between 1 and 65535")
	}
	if c.MaxImageDimension <= 0 {
		return fmt.Errorf("MaxImageDimension must be positive")
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("JPEGQuality must be between 1 and 100")
	}
	if c.MailerProvider != MailerProviderResend && c.MailerProvider != MailerProviderSMTP {
		return fmt.Errorf("MailerProvider must be %q or %q", MailerProviderResend, MailerProviderSMTP)
	}
	if c.MailerProvider == MailerProviderSMTP && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST is required when MAILER_PROVIDER is smtp")
	}
	if c.AttachmentStoragePath == "" {
		return fmt.Errorf("AttachmentStoragePath cannot be empty")
	}
	return nil
}

// ValidateProduction performs additional validation for production environment
func (c *Config) ValidateProduction() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY is required in production")
	}

	if c.AllowedOrigins == "" {
		return fmt.Errorf("ALLOWED_ORIGINS is required in production")
	}

	// Check for wildcard in production
	if strings.Contains(c.AllowedOrigins, "*") {
		return fmt.Errorf("wildcard (*) origins are not allowed in production")
	}

	if c.MailerProvider == MailerProviderResend && c.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY is required in production")
	}

	// Check for sslmode=disable in database URL
	if strings.Contains(c.DatabaseURL, "sslmode=disable") {
		return fmt.Errorf("sslmode=disable is not allowed in production")
	}

	return nil
}

// LogConfig logs configuration values (excluding secrets)
func (c *Config) LogConfig(logger *slog.Logger) {
	logger.Info("configuration loaded",
		slog.Int("api_port", c.APIPort),
		slog.String("ocr_service_url", c.OCRServiceURL),
		slog.String("ocr_languages", c.OCRLanguages),
		slog.Int("max_image_dimension", c.MaxImageDimension),
		slog.Int("jpeg_quality", c.JPEGQuality),
		slog.String("mailer_provider", c.MailerProvider),
		slog.Duration("dispatch_delay", c.DispatchDelay),
		slog.String("storage_path", c.AttachmentStoragePath),
		slog.String("log_level", c.LogLevel),
		slog.String("app_env", c.AppEnv),
		slog.Bool("api_key_set", c.APIKey != ""),
		slog.Bool("resend_api_key_set", c.ResendAPIKey != ""),
		slog.Float64("rate_limit_rps", c.RateLimitRequests),
		slog.Int("rate_limit_burst", c.RateLimitBurst),
	)
}
