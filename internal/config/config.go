package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Addr string `env:"ADDR" envDefault:":8000"`

	// Reply providers. Gemini wins when both keys are present.
	GeminiAPIKey        string        `env:"GEMINI_API_KEY"`
	GeminiModel         string        `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	OpenAIAPIKey        string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL       string        `env:"OPENAI_BASE_URL"`
	OpenAIModel         string        `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	ProviderTimeout     time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"30s"`
	ProviderConcurrency int64         `env:"PROVIDER_CONCURRENCY" envDefault:"8"`

	// Storage
	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH" envDefault:"firebase_key.json"`
	FirestoreProjectID      string `env:"FIRESTORE_PROJECT_ID"`
	DocstoreSQLitePath      string `env:"DOCSTORE_SQLITE_PATH"`
	LocalStorePath          string `env:"LOCAL_STORE_PATH" envDefault:"local_store.json"`

	// HTTP
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173"`

	// Logging and telemetry
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogDevelopment   bool   `env:"LOG_DEVELOPMENT"`
	LogFilePath      string `env:"LOG_FILE_PATH"`
	TelemetryEnabled bool   `env:"TELEMETRY_ENABLED"`
	TelemetryDir     string `env:"TELEMETRY_DIR" envDefault:"logs"`
}

// New reads the configuration from the environment.
func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive, got %s", c.ProviderTimeout)
	}
	if c.ProviderConcurrency <= 0 {
		return fmt.Errorf("PROVIDER_CONCURRENCY must be positive, got %d", c.ProviderConcurrency)
	}
	return nil
}
