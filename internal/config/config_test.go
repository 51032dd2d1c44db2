package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := New()
	require.NoError(t, err)
	require.Equal(t, ":8000", cfg.Addr)
	require.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	require.Equal(t, "gpt-3.5-turbo", cfg.OpenAIModel)
	require.Equal(t, 30*time.Second, cfg.ProviderTimeout)
	require.Equal(t, int64(8), cfg.ProviderConcurrency)
	require.Equal(t, "firebase_key.json", cfg.FirebaseCredentialsPath)
	require.Equal(t, "local_store.json", cfg.LocalStorePath)
	require.Len(t, cfg.CORSAllowedOrigins, 4)
	require.Contains(t, cfg.CORSAllowedOrigins, "http://127.0.0.1:5173")
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PROVIDER_TIMEOUT", "5s")
	t.Setenv("PROVIDER_CONCURRENCY", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("DOCSTORE_SQLITE_PATH", "/tmp/docs.db")

	cfg, err := New()
	require.NoError(t, err)
	require.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	require.Equal(t, 5*time.Second, cfg.ProviderTimeout)
	require.Equal(t, int64(2), cfg.ProviderConcurrency)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	require.Equal(t, "/tmp/docs.db", cfg.DocstoreSQLitePath)
}

func TestNew_RejectsNonPositiveLimits(t *testing.T) {
	t.Setenv("PROVIDER_CONCURRENCY", "0")
	_, err := New()
	require.Error(t, err)

	t.Setenv("PROVIDER_CONCURRENCY", "1")
	t.Setenv("PROVIDER_TIMEOUT", "0s")
	_, err = New()
	require.Error(t, err)
}
