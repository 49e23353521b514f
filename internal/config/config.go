// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage drivers understood by the service.
const (
	DriverCloudinary = "cloudinary"
	DriverS3         = "s3"
)

// Config holds all runtime configuration for the service.
type Config struct {
	Port     string `env:"PORT" env-default:"5000" validate:"required"`
	AppEnv   string `env:"APP_ENV" env-default:"development"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`

	StorageDriver string `env:"STORAGE_DRIVER" env-default:"cloudinary" validate:"oneof=cloudinary s3"`
	StorageFolder string `env:"STORAGE_FOLDER" env-default:"photos-app-levig" validate:"required"`

	// Transient local storage for incoming multipart files.
	UploadDir      string        `env:"UPLOAD_DIR" env-default:"uploads" validate:"required"`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" env-default:"0" validate:"gte=0"`
	UploadTimeout  time.Duration `env:"UPLOAD_TIMEOUT" env-default:"60s" validate:"gt=0"`
	// Whole-request read budget; large photos on slow links need more.
	ReadTimeout time.Duration `env:"READ_TIMEOUT" env-default:"2m" validate:"gt=0"`

	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME" validate:"required_if=StorageDriver cloudinary"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY" validate:"required_if=StorageDriver cloudinary"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET" validate:"required_if=StorageDriver cloudinary"`

	// Object storage (S3-compatible: MinIO locally)
	StorageEndpoint   string `env:"STORAGE_ENDPOINT" env-default:"localhost:9000" validate:"required_if=StorageDriver s3"`
	StorageAccessKey  string `env:"STORAGE_ACCESS_KEY" env-default:"minioadmin"`
	StorageSecretKey  string `env:"STORAGE_SECRET_KEY" env-default:"minioadmin"`
	StorageBucket     string `env:"STORAGE_BUCKET" env-default:"photos" validate:"required_if=StorageDriver s3"`
	StorageUseSSL     bool   `env:"STORAGE_USE_SSL" env-default:"false"`
	StoragePublicBase string `env:"STORAGE_PUBLIC_BASE" env-default:"http://localhost:9000/photos"` // browser-accessible base URL
}

// Load reads configuration from a .env file (if present) and environment
// variables, then validates it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading from environment")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
