package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config is the full set of runtime settings. Optional backends (AMQP,
// S3) are left empty when unconfigured and the app degrades to no-op
// implementations.
type Config struct {
	DatabaseURL        string
	Port               string
	GoEnv              string
	JWTSecret          string
	AMQPURL            string
	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	LogLevel           string
}

var currentConfig *Config

// Load reads settings from the environment, after sourcing the
// .env.{GO_ENV} file (then plain .env) when one exists. Deployed
// environments set variables directly, so a missing file is fine.
func Load() (*Config, error) {
	loadEnvFile()

	config := &Config{
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		Port:               getEnv("PORT", "8080"),
		GoEnv:              getEnv("GO_ENV", "development"),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		AMQPURL:            getEnv("AMQP_URL", ""),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:        getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	currentConfig = config
	return config, nil
}

func loadEnvFile() {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFile := ".env." + env
	if err := godotenv.Load(envFile); err == nil {
		log.Printf("Loaded configuration from %s", envFile)
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using system environment variables")
	}
}

// Validate checks the settings the app cannot run without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" && c.GoEnv == "production" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	return nil
}

// GetConfig returns the most recently loaded configuration.
func GetConfig() *Config {
	return currentConfig
}

// SetConfig replaces the current configuration (primarily for testing).
func SetConfig(c *Config) {
	currentConfig = c
}

func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
