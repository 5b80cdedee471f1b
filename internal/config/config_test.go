package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) *Config {
	t.Helper()
	var cfg Config
	_, err := NewParser(&cfg).ParseArgs(args)
	require.NoError(t, err)
	return &cfg
}

func TestDefaults(t *testing.T) {
	cfg := parse(t)

	assert.Equal(t, "CORPCODE.xml", cfg.CorpCodeXML)
	assert.Equal(t, "corp_codes.csv", cfg.CorpCodeCache)
	assert.Equal(t, "rag_db", cfg.DBDir)
	assert.Equal(t, "pipeline_logs.json", cfg.RunLog)
	assert.Equal(t, 10, cfg.NewsCount)
	assert.Equal(t, 30, cfg.DisclosureDays)
	assert.Equal(t, 10, cfg.NaverRateLimit)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.SMTP.EmailConfig().Enabled)
}

func TestEnvAndFlags(t *testing.T) {
	t.Setenv("DART_API_KEY", "dart-env")
	t.Setenv("SMTP_USER", "me@example.com")

	cfg := parse(t, "--preset", "tech_focus", "--smtp.pass", "secret", "--smtp.to", "you@example.com", "--news-count", "20")

	assert.Equal(t, "dart-env", cfg.DartAPIKey)
	assert.Equal(t, "tech_focus", cfg.Preset)
	assert.Equal(t, 20, cfg.NewsCount)

	email := cfg.SMTP.EmailConfig()
	assert.True(t, email.Enabled)
	assert.Equal(t, "me@example.com", email.FromEmail)
	assert.Equal(t, "you@example.com", email.ToEmail)
}

func TestRequire(t *testing.T) {
	cfg := &Config{}
	assert.ErrorIs(t, cfg.RequireGemini(), ErrMissingKey)
	assert.ErrorIs(t, cfg.RequireDart(), ErrMissingKey)
	assert.ErrorIs(t, cfg.RequireNaver(), ErrMissingKey)

	cfg = &Config{GeminiAPIKey: "g", DartAPIKey: "d", NaverClientID: "id", NaverClientSecret: "s"}
	assert.NoError(t, cfg.RequireGemini())
	assert.NoError(t, cfg.RequireDart())
	assert.NoError(t, cfg.RequireNaver())
}

func TestLoadEnv(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CORPBRIEF_TEST_KEY=from-file\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("CORPBRIEF_TEST_KEY") })

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-file", os.Getenv("CORPBRIEF_TEST_KEY"))
}

func TestIsHelp(t *testing.T) {
	var cfg Config
	_, err := NewParser(&cfg).ParseArgs([]string{"--help"})
	assert.True(t, IsHelp(err))
	assert.False(t, IsHelp(nil))
}
