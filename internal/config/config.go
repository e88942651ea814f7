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
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	Sheets SheetsConfig
	Log    LogConfig
	CORS   CORSConfig
	Sync   SyncConfig
	Email  EmailConfig
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

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds object storage settings for uploaded PDFs.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// SheetsConfig holds the Google Sheets mirror settings. SpreadsheetID and
// one of CredentialsFile/CredentialsJSON are required for the mirror to be
// enabled; there are no default substitutions for them.
type SheetsConfig struct {
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	SheetName       string `mapstructure:"sheet_name"`
	CredentialsFile string `mapstructure:"credentials_file"`
	CredentialsJSON string `mapstructure:"credentials_json"`
	TimeoutSecs     int    `mapstructure:"timeout_secs"`
}

// Enabled reports whether the spreadsheet mirror is configured.
func (s *SheetsConfig) Enabled() bool {
	return s.SpreadsheetID != "" && (s.CredentialsFile != "" || s.CredentialsJSON != "")
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SyncConfig holds sheet sync worker settings.
type SyncConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	Concurrency      int `mapstructure:"concurrency"`
}

// EmailConfig holds email delivery settings for report summaries.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// Load reads configuration from environment variables with the FRETENOTA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FRETENOTA")
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
	v.SetDefault("db.user", "fretenota")
	v.SetDefault("db.password", "fretenota_secret")
	v.SetDefault("db.name", "fretenota_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "fretenota")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "fretenota-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)
	v.SetDefault("s3.presign_expiry", 3600)

	// Sheets defaults. Credentials and spreadsheet id have no defaults:
	// a missing value disables the mirror rather than pointing it anywhere.
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.sheet_name", "notas")
	v.SetDefault("sheets.credentials_file", "")
	v.SetDefault("sheets.credentials_json", "")
	v.SetDefault("sheets.timeout_secs", 15)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")

	// Sync worker defaults
	v.SetDefault("sync.poll_interval_secs", 10)
	v.SetDefault("sync.concurrency", 3)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@fretenota.com.br")
	v.SetDefault("email.from_name", "FreteNota")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "FRETENOTA_SERVER_PORT",
		"server.read_timeout":     "FRETENOTA_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "FRETENOTA_SERVER_WRITE_TIMEOUT",
		"server.environment":      "FRETENOTA_SERVER_ENVIRONMENT",
		"db.host":                 "FRETENOTA_DB_HOST",
		"db.port":                 "FRETENOTA_DB_PORT",
		"db.user":                 "FRETENOTA_DB_USER",
		"db.password":             "FRETENOTA_DB_PASSWORD",
		"db.name":                 "FRETENOTA_DB_NAME",
		"db.sslmode":              "FRETENOTA_DB_SSLMODE",
		"db.max_open":             "FRETENOTA_DB_MAX_OPEN",
		"db.max_idle":             "FRETENOTA_DB_MAX_IDLE",
		"jwt.secret":              "FRETENOTA_JWT_SECRET",
		"jwt.access_expiry":       "FRETENOTA_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":      "FRETENOTA_JWT_REFRESH_EXPIRY",
		"jwt.issuer":              "FRETENOTA_JWT_ISSUER",
		"s3.region":               "FRETENOTA_S3_REGION",
		"s3.bucket":               "FRETENOTA_S3_BUCKET",
		"s3.endpoint":             "FRETENOTA_S3_ENDPOINT",
		"s3.access_key":           "FRETENOTA_S3_ACCESS_KEY",
		"s3.secret_key":           "FRETENOTA_S3_SECRET_KEY",
		"s3.max_file_size_mb":     "FRETENOTA_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":       "FRETENOTA_S3_PRESIGN_EXPIRY",
		"sheets.spreadsheet_id":   "FRETENOTA_SHEETS_SPREADSHEET_ID",
		"sheets.sheet_name":       "FRETENOTA_SHEETS_SHEET_NAME",
		"sheets.credentials_file": "FRETENOTA_SHEETS_CREDENTIALS_FILE",
		"sheets.credentials_json": "FRETENOTA_SHEETS_CREDENTIALS_JSON",
		"sheets.timeout_secs":     "FRETENOTA_SHEETS_TIMEOUT_SECS",
		"log.level":               "FRETENOTA_LOG_LEVEL",
		"log.format":              "FRETENOTA_LOG_FORMAT",
		"cors.allowed_origins":    "FRETENOTA_CORS_ALLOWED_ORIGINS",
		"sync.poll_interval_secs": "FRETENOTA_SYNC_POLL_INTERVAL_SECS",
		"sync.concurrency":        "FRETENOTA_SYNC_CONCURRENCY",
		"email.provider":          "FRETENOTA_EMAIL_PROVIDER",
		"email.region":            "FRETENOTA_EMAIL_REGION",
		"email.from_address":      "FRETENOTA_EMAIL_FROM_ADDRESS",
		"email.from_name":         "FRETENOTA_EMAIL_FROM_NAME",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if FRETENOTA_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("FRETENOTA_SERVER_PORT") == "" {
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
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Sheets = SheetsConfig{
		SpreadsheetID:   v.GetString("sheets.spreadsheet_id"),
		SheetName:       v.GetString("sheets.sheet_name"),
		CredentialsFile: v.GetString("sheets.credentials_file"),
		CredentialsJSON: v.GetString("sheets.credentials_json"),
		TimeoutSecs:     v.GetInt("sheets.timeout_secs"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Sync = SyncConfig{
		PollIntervalSecs: v.GetInt("sync.poll_interval_secs"),
		Concurrency:      v.GetInt("sync.concurrency"),
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}

	return cfg, nil
}
