package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. AUTOLIST_DATABASE_URL.
const EnvPrefix = "AUTOLIST"

// Command-line flag names understood by LoadWithFlags.
const (
	FlagConfig   = "config"
	FlagPort     = "port"
	FlagLogLevel = "log-level"
)

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	FlagPort:     "server.port",
	FlagLogLevel: "server.log_level",
}

// RegisterFlags defines the configuration flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "path to a config file (yaml, json or toml)")
	fs.Int(FlagPort, 0, "HTTP listen port")
	fs.String(FlagLogLevel, "", "log level: debug, info, warn or error")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 30)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.cookie_secure", false)

	v.SetDefault("storage.driver", StorageDriverLocal)
	v.SetDefault("storage.max_upload_bytes", 5<<20)
	v.SetDefault("storage.upload_concurrency", 4)

	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.region", "auto")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.public_base_url", "")
	v.SetDefault("storage.s3.access_key_id", "")
	v.SetDefault("storage.s3.secret_access_key", "")
	v.SetDefault("storage.s3.use_path_style", false)
	v.SetDefault("storage.s3.presign_ttl_minutes", 15)

	v.SetDefault("storage.local.dir", "./uploads")
	v.SetDefault("storage.local.public_base_url", "http://localhost:8080/uploads")
}

// Load reads configuration from defaults and AUTOLIST_* environment variables.
// Returns a populated Config or an error if loading or validation fails.
func Load() (*Config, error) {
	return LoadWithFlags(nil)
}

// LoadWithFlags is Load with command-line flags layered on top.
// Precedence: flags, environment, config file (--config), defaults.
// fs must already be parsed; a nil fs is allowed.
func LoadWithFlags(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %q: %w", name, err)
				}
			}
		}

		if path, err := fs.GetString(FlagConfig); err == nil && path != "" {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct constraints and the driver-specific storage settings.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.Storage.Driver == StorageDriverS3 {
		var missing []string
		if c.Storage.S3.Bucket == "" {
			missing = append(missing, "storage.s3.bucket")
		}
		if c.Storage.S3.PublicBaseURL == "" {
			missing = append(missing, "storage.s3.public_base_url")
		}
		if len(missing) > 0 {
			return fmt.Errorf("config validation failed: %w: %s",
				errMissingS3Settings, strings.Join(missing, ", "))
		}
	}

	if c.Storage.Driver == StorageDriverLocal && c.Storage.Local.Dir == "" {
		return fmt.Errorf("config validation failed: storage.local.dir is required for the local driver")
	}

	return nil
}

var errMissingS3Settings = errors.New("s3 driver requires")
