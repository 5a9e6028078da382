package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "SERVER_TIMEOUT", "CORS_ALLOWED_ORIGINS", "GEMINI_API_KEY", "GOOGLE_API_KEY", "GEMINI_MODEL", "EXTRACTOR_TIMEOUT", "EXPORT_DIR"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Invoicer", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "gemini-2.0-flash-001", cfg.Gemini.Model)
	assert.Equal(t, 60*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, "exports", cfg.Export.Dir)
	assert.Empty(t, cfg.GeminiKey())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test,https://b.test")
	t.Setenv("EXTRACTOR_TIMEOUT", "5s")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google-key")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 5*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, "google-key", cfg.GeminiKey())

	t.Setenv("GEMINI_API_KEY", "gemini-key")

	cfg, err = config.Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini-key", cfg.GeminiKey())
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("PORT", "eighty")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadProfile(t *testing.T) {
	t.Run("EmptyPath", func(t *testing.T) {
		p, err := config.LoadProfile("")
		require.NoError(t, err)
		assert.Equal(t, invoice.Profile{}, p)
	})

	t.Run("YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "profile.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
from:
  name: Studio Nord
  email: hello@nord.test
  phone: "+351 210 000 000"
  address: Rua Augusta 1, Lisboa
currency: EUR
terms: Payment within 30 days.
`), 0o600))

		p, err := config.LoadProfile(path)
		require.NoError(t, err)

		assert.Equal(t, invoice.Profile{
			From: invoice.Party{
				Name:    "Studio Nord",
				Email:   "hello@nord.test",
				Phone:   "+351 210 000 000",
				Address: "Rua Augusta 1, Lisboa",
			},
			Currency: "EUR",
			Terms:    "Payment within 30 days.",
		}, p)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := config.LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "reading profile")
	})

	t.Run("Malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("from: [unclosed"), 0o600))

		_, err := config.LoadProfile(path)
		assert.ErrorContains(t, err, "parsing profile")
	})
}
