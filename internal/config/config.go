package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Invoicer"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Server struct {
		Timeout     time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		CORSOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	Gemini struct {
		APIKey    string        `envconfig:"GEMINI_API_KEY"`
		GoogleKey string        `envconfig:"GOOGLE_API_KEY"`
		Model     string        `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash-001"`
		Timeout   time.Duration `envconfig:"EXTRACTOR_TIMEOUT" default:"60s"`
	}

	Profile struct {
		Path string `envconfig:"PROFILE_PATH"`
	}

	TUI struct {
		LogFile string `envconfig:"TUI_LOG_FILE"`
	}

	Export struct {
		Dir string `envconfig:"EXPORT_DIR" default:"exports"`
	}
}

// GeminiKey returns GEMINI_API_KEY, falling back to GOOGLE_API_KEY.
func (c *Config) GeminiKey() string {
	if c.Gemini.APIKey != "" {
		return c.Gemini.APIKey
	}

	return c.Gemini.GoogleKey
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

// LoadProfile reads the sender profile at path. An empty path yields the
// zero profile.
func LoadProfile(path string) (invoice.Profile, error) {
	var p invoice.Profile

	if path == "" {
		return p, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("reading profile: %w", err)
	}

	if err := yaml.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("parsing profile: %w", err)
	}

	return p, nil
}
