package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultServer         = "http://localhost:8080"
	DefaultAPIBase        = "http://localhost:8080"
	DefaultAIEndpoint     = "/health/consult"
	DefaultStreamEndpoint = "/api/health/consult/stream"

	// APIPath is the fixed root every conventional call is relative to
	APIPath = "/api"

	StorageKeyring = "keyring"
	StorageFile    = "file"
)

// Config holds all configuration for the client and the gateway
type Config struct {
	// Server is the origin hosting the /api root
	Server string `validate:"required,url"`

	// Endpoints overridable per deployment
	Endpoints EndpointsConfig

	// Storage selects where tokens and user info are kept
	Storage StorageConfig

	// Logging Configuration
	Logging LoggingConfig

	// Gateway Configuration
	Gateway GatewayConfig
}

// EndpointsConfig holds the overridable endpoint locations
type EndpointsConfig struct {
	APIBase string `validate:"required,url"` // image asset origin
	AI      string `validate:"required"`
	Stream  string `validate:"required"`
}

// StorageConfig holds session storage configuration
type StorageConfig struct {
	Backend string `validate:"oneof=keyring file"`
	Path    string `validate:"required_if=Backend file"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `validate:"omitempty,oneof=debug info warn warning error disabled off"`
	Format string `validate:"oneof=json console"` // json, console
}

// GatewayConfig holds configuration for the development gateway
type GatewayConfig struct {
	Addr           string   `validate:"required"`
	Backend        string   `validate:"required,url"`
	StaticDir      string   `validate:"omitempty,dir"`
	AllowedOrigins []string `validate:"min=1,dive,url"`
}

var validate = validator.New()

// FindEnvFile searches for name in the current directory and its parents
func FindEnvFile(name string) (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	// Search upwards until we find the file or reach root
	dir := currentDir
	for {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("%s not found in %s or any parent directory", name, currentDir)
}

// loadEnvFiles loads .env.local then .env. godotenv never overrides variables
// already set, so the process environment wins, then .env.local, then .env.
func loadEnvFiles() {
	for _, name := range []string{".env.local", ".env"} {
		if path, err := FindEnvFile(name); err == nil {
			_ = godotenv.Load(path)
		}
	}
}

// Load loads configuration from environment variables. defaultLogLevel is
// the level used when LOG_LEVEL is unset; the CLI and the gateway differ.
func Load(defaultLogLevel string) (*Config, error) {
	loadEnvFiles()

	server := getEnv("HEALTHHUB_SERVER", DefaultServer)
	apiBase := getEnv("HEALTHHUB_API_BASE", DefaultAPIBase)

	storagePath := os.Getenv("HEALTHHUB_STORAGE_PATH")
	if storagePath == "" {
		path, err := DefaultStoragePath()
		if err != nil {
			return nil, err
		}
		storagePath = path
	}

	cfg := &Config{
		Server: strings.TrimSuffix(server, "/"),
		Endpoints: EndpointsConfig{
			APIBase: strings.TrimSuffix(apiBase, "/"),
			AI:      getEnv("HEALTHHUB_AI_ENDPOINT", DefaultAIEndpoint),
			Stream:  getEnv("HEALTHHUB_AI_STREAM_ENDPOINT", DefaultStreamEndpoint),
		},
		Storage: StorageConfig{
			Backend: getEnv("HEALTHHUB_STORAGE", StorageKeyring),
			Path:    storagePath,
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", defaultLogLevel),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Gateway: GatewayConfig{
			Addr:           getEnv("GATEWAY_ADDR", ":5173"),
			Backend:        strings.TrimSuffix(getEnv("GATEWAY_BACKEND", apiBase), "/"),
			StaticDir:      os.Getenv("GATEWAY_STATIC_DIR"),
			AllowedOrigins: splitList(getEnv("GATEWAY_ALLOWED_ORIGINS", "http://localhost:5173")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// APIRoot returns the absolute root for conventional calls
func (c *Config) APIRoot() string {
	return c.Server + APIPath
}

// DefaultStoragePath returns ~/.config/healthhub/storage.json
func DefaultStoragePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "healthhub", "storage.json"), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
