package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvSandbox    = "sandbox"
	EnvProduction = "production"
)

type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Session    SessionConfig
	Encryption EncryptionConfig
	TLS        TLSConfig
	Plaid      PlaidConfig
	Dwolla     DwollaConfig
	Firebase   FirebaseConfig
	Telemetry  TelemetryConfig
	Messages   MessagesConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	AllowedHosts []string
}

// IsProduction reports whether cookies should be marked Secure.
func (c ServerConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

type LogConfig struct {
	Level  string
	Pretty bool
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	URL string
}

type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
}

type EncryptionConfig struct {
	Key string
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

type PlaidConfig struct {
	ClientID     string
	Secret       string
	Env          string
	Products     []string
	CountryCodes []string
	Timeout      time.Duration
}

// BaseURL returns the API host for the configured environment.
func (c PlaidConfig) BaseURL() string {
	if c.Env == EnvProduction {
		return "https://production.plaid.com"
	}
	return "https://sandbox.plaid.com"
}

type DwollaConfig struct {
	Key     string
	Secret  string
	Env     string
	Timeout time.Duration
}

func (c DwollaConfig) BaseURL() string {
	if c.Env == EnvProduction {
		return "https://api.dwolla.com"
	}
	return "https://api-sandbox.dwolla.com"
}

type FirebaseConfig struct {
	CredentialsFile string
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OTLPEndpoint string
	MetricsPort  string
}

type MessagesConfig struct {
	Path string
}

func Load() (*Config, error) {
	// A missing .env is fine; real deployments inject the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	sessionTTL, err := getDurationEnv("SESSION_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	plaidTimeout, err := getDurationEnv("PLAID_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	dwollaTimeout, err := getDurationEnv("DWOLLA_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "0.0.0.0"),
			Environment:  getEnv("APP_ENV", "development"),
			AllowedHosts: getListEnv("ALLOWED_HOSTS", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getBoolEnv("LOG_PRETTY", false),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "horizon"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "horizon"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", ""),
			TTL:        sessionTTL,
			CookieName: getEnv("SESSION_COOKIE_NAME", "horizon-session"),
		},
		Encryption: EncryptionConfig{
			Key: getEnv("ENCRYPTION_KEY", ""),
		},
		TLS: TLSConfig{
			Enabled:      getBoolEnv("TLS_ENABLED", false),
			CertPath:     getEnv("TLS_CERT_PATH", ""),
			KeyPath:      getEnv("TLS_KEY_PATH", ""),
			RedirectHTTP: getBoolEnv("TLS_REDIRECT_HTTP", false),
		},
		Plaid: PlaidConfig{
			ClientID:     getEnv("PLAID_CLIENT_ID", ""),
			Secret:       getEnv("PLAID_SECRET", ""),
			Env:          getEnv("PLAID_ENV", EnvSandbox),
			Products:     getListEnv("PLAID_PRODUCTS", "auth"),
			CountryCodes: getListEnv("PLAID_COUNTRY_CODES", "US"),
			Timeout:      plaidTimeout,
		},
		Dwolla: DwollaConfig{
			Key:     getEnv("DWOLLA_KEY", ""),
			Secret:  getEnv("DWOLLA_SECRET", ""),
			Env:     getEnv("DWOLLA_ENV", EnvSandbox),
			Timeout: dwollaTimeout,
		},
		Firebase: FirebaseConfig{
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "horizon-api"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9090"),
		},
		Messages: MessagesConfig{
			Path: getEnv("MESSAGES_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Session.Secret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	}
	switch {
	case c.Encryption.Key == "":
		errs = append(errs, errors.New("ENCRYPTION_KEY is required"))
	case len(c.Encryption.Key) != 32:
		errs = append(errs, errors.New("ENCRYPTION_KEY must be exactly 32 bytes for AES-256"))
	}

	for _, cred := range []struct{ key, value string }{
		{"PLAID_CLIENT_ID", c.Plaid.ClientID},
		{"PLAID_SECRET", c.Plaid.Secret},
		{"DWOLLA_KEY", c.Dwolla.Key},
		{"DWOLLA_SECRET", c.Dwolla.Secret},
	} {
		if cred.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", cred.key))
		}
	}

	errs = append(errs,
		validateProviderEnv("PLAID_ENV", c.Plaid.Env),
		validateProviderEnv("DWOLLA_ENV", c.Dwolla.Env),
	)

	if c.TLS.Enabled && (c.TLS.CertPath == "" || c.TLS.KeyPath == "") {
		errs = append(errs, errors.New("TLS_CERT_PATH and TLS_KEY_PATH are required when TLS_ENABLED=true"))
	}

	return errors.Join(errs...)
}

func validateProviderEnv(key, value string) error {
	switch value {
	case EnvSandbox, EnvProduction:
		return nil
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", key, EnvSandbox, EnvProduction, value)
	}
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// getListEnv splits a comma-separated value, dropping blanks.
func getListEnv(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
