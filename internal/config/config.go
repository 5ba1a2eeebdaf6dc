package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config aggregates all environment-driven configuration for the agent portal.
type Config struct {
	HTTP         HTTPConfig
	Mongo        MongoConfig
	Storage      StorageConfig
	Verification VerificationConfig
	Session      SessionConfig
	Pincode      PincodeConfig
	SMTP         SMTPConfig
}

// HTTPConfig governs the HTTP server.
type HTTPConfig struct {
	Addr            string        `env:"HTTP_ADDR"             envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// MongoConfig describes connectivity to the agent record store.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"      envDefault:"mongodb://localhost:27017"`
	Database string `env:"MONGO_DATABASE" envDefault:"agent_portal"`
}

// StorageConfig describes the S3-compatible bucket holding agent documents.
type StorageConfig struct {
	Region          string `env:"S3_REGION"            envDefault:"ap-south-1"`
	Bucket          string `env:"S3_BUCKET"`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	BaseEndpoint    string `env:"S3_BASE_ENDPOINT"`
	PublicBaseURL   string `env:"S3_PUBLIC_BASE_URL"`
}

// VerificationConfig describes the external phone verification service.
type VerificationConfig struct {
	BaseURL     string `env:"VERIFY_BASE_URL"`
	APIKey      string `env:"VERIFY_API_KEY"`
	CountryCode string `env:"VERIFY_COUNTRY_CODE" envDefault:"91"`
}

// SessionConfig governs application session tokens.
type SessionConfig struct {
	TokenSecret    string        `env:"SESSION_TOKEN_SECRET"`
	TokenExpiresIn time.Duration `env:"SESSION_TOKEN_EXPIRES_IN" envDefault:"24h"`
	Issuer         string        `env:"SESSION_TOKEN_ISSUER"     envDefault:"agent-portal"`
}

// PincodeConfig describes the postal pincode lookup service.
type PincodeConfig struct {
	BaseURL string `env:"PINCODE_BASE_URL" envDefault:"https://api.postalpincode.in"`
}

// SMTPConfig holds the mail relay used for welcome emails. Optional: when
// Host is empty, mail sending is disabled.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

// Load parses the configuration from environment variables.
func Load(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// validate checks that required configuration is present.
func (c *Config) validate() error {
	if c.Storage.Bucket == "" {
		return fmt.Errorf("missing S3_BUCKET environment variable")
	}
	if c.Verification.BaseURL == "" {
		return fmt.Errorf("missing VERIFY_BASE_URL environment variable")
	}
	if c.Verification.APIKey == "" {
		return fmt.Errorf("missing VERIFY_API_KEY environment variable")
	}
	if c.Session.TokenSecret == "" {
		return fmt.Errorf("missing SESSION_TOKEN_SECRET environment variable")
	}
	return nil
}
