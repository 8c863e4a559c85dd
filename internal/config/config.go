package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported generation providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

type Config struct {
	Port string

	// Auth. Empty disables the bearer check.
	APIKey string

	// Generative language service
	GenAIProvider  string
	GenAIAPIKey    string
	GenAIModel     string
	GenAIBaseURL   string
	GenAIMaxTokens int

	// Document AI
	ProjectID          string
	DocumentAILocation string
	ProcessorID        string
	CredentialsFile    string
	CredentialsJSON    string

	// Upload limits
	MaxUploadBytes int64
	MaxFiles       int

	// Session state
	SessionTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	LogDebug bool
}

// Credentials is the resolved service-account material for Google Cloud.
// Exactly one of File or JSON is set.
type Credentials struct {
	File string
	JSON []byte
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("DEMYSTIFY_API_KEY"),

		GenAIProvider:  strings.ToLower(envOr("GENAI_PROVIDER", ProviderAnthropic)),
		GenAIAPIKey:    os.Getenv("GENAI_API_KEY"),
		GenAIModel:     os.Getenv("GENAI_MODEL"),
		GenAIBaseURL:   os.Getenv("GENAI_BASE_URL"),
		GenAIMaxTokens: envInt("GENAI_MAX_TOKENS", 2048),

		ProjectID:          os.Getenv("GOOGLE_CLOUD_PROJECT_ID"),
		DocumentAILocation: envOr("DOCUMENTAI_LOCATION", "us"),
		ProcessorID:        os.Getenv("DOCUMENTAI_PROCESSOR_ID"),
		CredentialsFile:    os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		CredentialsJSON:    os.Getenv("GCP_SERVICE_ACCOUNT_KEY"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 20<<20),
		MaxFiles:       envInt("MAX_FILES", 10),

		SessionTTL: envDuration("SESSION_TTL", 2*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		LogDebug: envBool("LOG_DEBUG", false),
	}

	if cfg.GenAIModel == "" {
		cfg.GenAIModel = DefaultModel(cfg.GenAIProvider)
	}
	if cfg.GenAIMaxTokens <= 0 {
		cfg.GenAIMaxTokens = 2048
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20 << 20
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = 10
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 2 * time.Hour
	}

	return cfg
}

// DefaultModel returns the model used when GENAI_MODEL is unset.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o-mini"
	default:
		return "claude-haiku-4-5-20251001"
	}
}

func (c Config) Validate() error {
	if c.GenAIAPIKey == "" {
		return errors.New("GENAI_API_KEY is required")
	}
	switch c.GenAIProvider {
	case ProviderAnthropic, ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported GENAI_PROVIDER %q", c.GenAIProvider)
	}
	if c.ProjectID == "" {
		return errors.New("GOOGLE_CLOUD_PROJECT_ID is required")
	}
	if c.ProcessorID == "" {
		return errors.New("DOCUMENTAI_PROCESSOR_ID is required")
	}
	if _, err := c.Credentials(); err != nil {
		return err
	}
	return nil
}

// Credentials resolves the Google Cloud service credentials. Inline JSON from a
// secret store takes precedence over a key file path.
func (c Config) Credentials() (Credentials, error) {
	if strings.TrimSpace(c.CredentialsJSON) != "" {
		return Credentials{JSON: []byte(c.CredentialsJSON)}, nil
	}
	if c.CredentialsFile == "" {
		return Credentials{}, errors.New("GOOGLE_APPLICATION_CREDENTIALS or GCP_SERVICE_ACCOUNT_KEY is required")
	}
	info, err := os.Stat(c.CredentialsFile)
	if err != nil {
		return Credentials{}, fmt.Errorf("service account key file not found at %q: %w", c.CredentialsFile, err)
	}
	if info.IsDir() {
		return Credentials{}, fmt.Errorf("service account key path %q is a directory", c.CredentialsFile)
	}
	return Credentials{File: c.CredentialsFile}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
