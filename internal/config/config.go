package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	S3        S3Config
	Batch     BatchConfig
	Extractor ExtractorConfig
	Email     EmailConfig
	API       APIConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
}

// BatchConfig holds batch scheduler settings.
type BatchConfig struct {
	MaxFiles    int `mapstructure:"max_files"`
	Concurrency int `mapstructure:"concurrency"`
}

// ExtractorProviderConfig holds settings for a single extraction provider.
type ExtractorProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds AI extraction settings with multi-provider support.
// Secondary and tertiary providers, when configured, form a fallback chain.
type ExtractorConfig struct {
	Primary   ExtractorProviderConfig `mapstructure:"primary"`
	Secondary ExtractorProviderConfig `mapstructure:"secondary"`
	Tertiary  ExtractorProviderConfig `mapstructure:"tertiary"`
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (e *ExtractorConfig) SecondaryConfig() *ExtractorProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary provider config, or nil if not configured.
func (e *ExtractorConfig) TertiaryConfig() *ExtractorProviderConfig {
	if e.Tertiary.Provider != "" {
		return &e.Tertiary
	}
	return nil
}

// EmailConfig holds batch notification settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	Recipient   string `mapstructure:"recipient"`
}

// APIConfig holds API access settings. An empty key disables the check.
type APIConfig struct {
	Key string `mapstructure:"key"`
}

// Load reads configuration from environment variables with the AFORO_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("AFORO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "aforo")
	v.SetDefault("db.password", "aforo_secret")
	v.SetDefault("db.name", "aforo_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "aforo-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 10)

	// Batch defaults
	v.SetDefault("batch.max_files", 50)
	v.SetDefault("batch.concurrency", 4)

	// Extractor defaults
	v.SetDefault("extractor.primary.provider", "gemini")
	v.SetDefault("extractor.primary.api_key", "")
	v.SetDefault("extractor.primary.default_model", "gemini-2.5-flash")
	v.SetDefault("extractor.primary.timeout_secs", 120)
	v.SetDefault("extractor.secondary.provider", "")
	v.SetDefault("extractor.secondary.api_key", "")
	v.SetDefault("extractor.secondary.default_model", "")
	v.SetDefault("extractor.secondary.timeout_secs", 120)
	v.SetDefault("extractor.tertiary.provider", "")
	v.SetDefault("extractor.tertiary.api_key", "")
	v.SetDefault("extractor.tertiary.default_model", "")
	v.SetDefault("extractor.tertiary.timeout_secs", 120)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@aforo.local")
	v.SetDefault("email.from_name", "Aforo")
	v.SetDefault("email.recipient", "")

	// API defaults
	v.SetDefault("api.key", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                       "AFORO_SERVER_PORT",
		"server.read_timeout":               "AFORO_SERVER_READ_TIMEOUT",
		"server.write_timeout":              "AFORO_SERVER_WRITE_TIMEOUT",
		"server.environment":                "AFORO_SERVER_ENVIRONMENT",
		"db.host":                           "AFORO_DB_HOST",
		"db.port":                           "AFORO_DB_PORT",
		"db.user":                           "AFORO_DB_USER",
		"db.password":                       "AFORO_DB_PASSWORD",
		"db.name":                           "AFORO_DB_NAME",
		"db.sslmode":                        "AFORO_DB_SSLMODE",
		"db.max_open":                       "AFORO_DB_MAX_OPEN",
		"db.max_idle":                       "AFORO_DB_MAX_IDLE",
		"s3.region":                         "AFORO_S3_REGION",
		"s3.bucket":                         "AFORO_S3_BUCKET",
		"s3.endpoint":                       "AFORO_S3_ENDPOINT",
		"s3.access_key":                     "AFORO_S3_ACCESS_KEY",
		"s3.secret_key":                     "AFORO_S3_SECRET_KEY",
		"s3.max_file_size_mb":               "AFORO_S3_MAX_FILE_SIZE_MB",
		"batch.max_files":                   "AFORO_BATCH_MAX_FILES",
		"batch.concurrency":                 "AFORO_BATCH_CONCURRENCY",
		"extractor.primary.provider":        "AFORO_EXTRACTOR_PRIMARY_PROVIDER",
		"extractor.primary.api_key":         "AFORO_EXTRACTOR_PRIMARY_API_KEY",
		"extractor.primary.default_model":   "AFORO_EXTRACTOR_PRIMARY_DEFAULT_MODEL",
		"extractor.primary.timeout_secs":    "AFORO_EXTRACTOR_PRIMARY_TIMEOUT_SECS",
		"extractor.secondary.provider":      "AFORO_EXTRACTOR_SECONDARY_PROVIDER",
		"extractor.secondary.api_key":       "AFORO_EXTRACTOR_SECONDARY_API_KEY",
		"extractor.secondary.default_model": "AFORO_EXTRACTOR_SECONDARY_DEFAULT_MODEL",
		"extractor.secondary.timeout_secs":  "AFORO_EXTRACTOR_SECONDARY_TIMEOUT_SECS",
		"extractor.tertiary.provider":       "AFORO_EXTRACTOR_TERTIARY_PROVIDER",
		"extractor.tertiary.api_key":        "AFORO_EXTRACTOR_TERTIARY_API_KEY",
		"extractor.tertiary.default_model":  "AFORO_EXTRACTOR_TERTIARY_DEFAULT_MODEL",
		"extractor.tertiary.timeout_secs":   "AFORO_EXTRACTOR_TERTIARY_TIMEOUT_SECS",
		"email.provider":                    "AFORO_EMAIL_PROVIDER",
		"email.region":                      "AFORO_EMAIL_REGION",
		"email.from_address":                "AFORO_EMAIL_FROM_ADDRESS",
		"email.from_name":                   "AFORO_EMAIL_FROM_NAME",
		"email.recipient":                   "AFORO_EMAIL_RECIPIENT",
		"api.key":                           "AFORO_API_KEY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if AFORO_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("AFORO_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
	}
	cfg.Batch = BatchConfig{
		MaxFiles:    v.GetInt("batch.max_files"),
		Concurrency: v.GetInt("batch.concurrency"),
	}
	cfg.Extractor = ExtractorConfig{
		Primary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.primary.provider"),
			APIKey:       v.GetString("extractor.primary.api_key"),
			DefaultModel: v.GetString("extractor.primary.default_model"),
			TimeoutSecs:  v.GetInt("extractor.primary.timeout_secs"),
		},
		Secondary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.secondary.provider"),
			APIKey:       v.GetString("extractor.secondary.api_key"),
			DefaultModel: v.GetString("extractor.secondary.default_model"),
			TimeoutSecs:  v.GetInt("extractor.secondary.timeout_secs"),
		},
		Tertiary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.tertiary.provider"),
			APIKey:       v.GetString("extractor.tertiary.api_key"),
			DefaultModel: v.GetString("extractor.tertiary.default_model"),
			TimeoutSecs:  v.GetInt("extractor.tertiary.timeout_secs"),
		},
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		Recipient:   v.GetString("email.recipient"),
	}
	cfg.API = APIConfig{
		Key: v.GetString("api.key"),
	}

	return cfg, nil
}
