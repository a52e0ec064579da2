package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Storage  StorageConfig  `mapstructure:"storage" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel            string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds" validate:"gt=0"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds" validate:"gt=0"`
}

// ReadTimeout returns the HTTP server read timeout.
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the HTTP server write timeout.
func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
	BCryptCost           int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
	CookieSecure         bool   `mapstructure:"cookie_secure"`
}

// TokenLifetime returns the access token lifetime.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}

// Blob storage drivers.
const (
	StorageDriverS3    = "s3"
	StorageDriverLocal = "local"
)

// StorageConfig selects and configures the image blob store.
type StorageConfig struct {
	Driver            string      `mapstructure:"driver" validate:"required,oneof=s3 local"`
	MaxUploadBytes    int64       `mapstructure:"max_upload_bytes" validate:"gt=0"`
	UploadConcurrency int         `mapstructure:"upload_concurrency" validate:"gt=0,lte=32"`
	S3                S3Config    `mapstructure:"s3"`
	Local             LocalConfig `mapstructure:"local"`
}

// S3Config configures an S3-compatible bucket (AWS S3, Cloudflare R2, MinIO).
type S3Config struct {
	Endpoint          string `mapstructure:"endpoint" validate:"omitempty,url"`
	Region            string `mapstructure:"region"`
	Bucket            string `mapstructure:"bucket"`
	PublicBaseURL     string `mapstructure:"public_base_url" validate:"omitempty,url"`
	AccessKeyID       string `mapstructure:"access_key_id"`
	SecretAccessKey   string `mapstructure:"secret_access_key"`
	UsePathStyle      bool   `mapstructure:"use_path_style"`
	PresignTTLMinutes int    `mapstructure:"presign_ttl_minutes" validate:"gt=0"`
}

// PresignTTL returns how long presigned upload URLs stay valid.
func (c S3Config) PresignTTL() time.Duration {
	return time.Duration(c.PresignTTLMinutes) * time.Minute
}

// LocalConfig configures the filesystem blob store used in development.
type LocalConfig struct {
	Dir           string `mapstructure:"dir"`
	PublicBaseURL string `mapstructure:"public_base_url" validate:"omitempty,url"`
}
