// Package config loads runtime configuration for the OCR front-ends from an
// optional TOML file and from the process environment. Environment variables
// always win over file values so deployments can override a checked-in file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Provider names accepted by the OCR engine factory.
const (
	ProviderVision    = "vision"
	ProviderGemini    = "gemini"
	ProviderAzure     = "azure"
	ProviderTesseract = "tesseract"
)

// Defaults.
const (
	DefaultPort      = "8080"
	DefaultUploadDir = "uploads"
	DefaultDPI       = 300
	DefaultMaxUpload = 20 << 20 // Vision rejects payloads above 20MB
)

// Config holds all settings shared by the web, TUI and one-shot front-ends.
type Config struct {
	// Provider selects the OCR collaborator: vision, gemini, azure or
	// tesseract.
	Provider string `toml:"provider"`

	Port           string `toml:"port"`
	UploadDir      string `toml:"upload_dir"`
	DatabaseURL    string `toml:"database_url"`
	DPI            int    `toml:"dpi"`
	MaxUploadBytes int64  `toml:"max_upload_bytes"`

	// Languages are hints passed to the OCR collaborator. The default targets
	// Sorani Kurdish with an Arabic fallback.
	Languages []string `toml:"languages"`

	// Normalize applies Kurdish character normalization to recognized text.
	Normalize bool `toml:"normalize"`

	// Enhance runs the pre-OCR image enhancement pass on image uploads.
	Enhance bool `toml:"enhance"`

	VisionAPIKey          string `toml:"vision_api_key"`
	VisionCredentialsJSON string `toml:"-"`
	GeminiAPIKey          string `toml:"gemini_api_key"`
	GeminiModel           string `toml:"gemini_model"`
	AzureEndpoint         string `toml:"azure_endpoint"`
	AzureAPIKey           string `toml:"azure_api_key"`
}

func defaults() *Config {
	return &Config{
		Provider:       ProviderVision,
		Port:           DefaultPort,
		UploadDir:      DefaultUploadDir,
		DPI:            DefaultDPI,
		MaxUploadBytes: DefaultMaxUpload,
		Languages:      []string{"ckb", "ara"},
	}
}

// Load builds a Config from defaults, an optional TOML file and the
// environment, in that order. An empty path means no file is consulted unless
// the default location exists.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		path = defaultConfigPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.DPI <= 0 {
		cfg.DPI = DefaultDPI
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUpload
	}
	return cfg, nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kurdish-ocr", "config.toml")
}

func (c *Config) applyEnv() {
	setString(&c.Provider, "OCR_PROVIDER")
	setString(&c.Port, "PORT")
	setString(&c.UploadDir, "UPLOAD_DIR")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.VisionAPIKey, "GOOGLE_VISION_API_KEY")
	setString(&c.VisionCredentialsJSON, "GOOGLE_APPLICATION_CREDENTIALS_JSON")
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.GeminiModel, "GEMINI_MODEL")
	setString(&c.AzureEndpoint, "AZURE_VISION_ENDPOINT")
	setString(&c.AzureAPIKey, "AZURE_VISION_KEY")

	if v := os.Getenv("OCR_DPI"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DPI = n
		}
	}
	if v := os.Getenv("OCR_LANGUAGES"); v != "" {
		c.Languages = splitList(v)
	}
	if v := os.Getenv("OCR_NORMALIZE"); v != "" {
		c.Normalize = isTruthy(v)
	}
	if v := os.Getenv("OCR_ENHANCE"); v != "" {
		c.Enhance = isTruthy(v)
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isTruthy(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}

// Validate fails fast when the selected provider is missing its credential
// material, so misconfiguration surfaces at startup rather than on the first
// upload.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderVision:
		if c.VisionAPIKey == "" && c.VisionCredentialsJSON == "" {
			return fmt.Errorf("provider %s: set GOOGLE_VISION_API_KEY or GOOGLE_APPLICATION_CREDENTIALS_JSON", c.Provider)
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("provider %s: set GEMINI_API_KEY", c.Provider)
		}
	case ProviderAzure:
		if c.AzureEndpoint == "" || c.AzureAPIKey == "" {
			return fmt.Errorf("provider %s: set AZURE_VISION_ENDPOINT and AZURE_VISION_KEY", c.Provider)
		}
	case ProviderTesseract:
		// Local engine, no credential needed.
	default:
		return fmt.Errorf("unknown OCR provider %q (expected vision, gemini, azure or tesseract)", c.Provider)
	}
	return nil
}
