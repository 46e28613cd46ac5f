package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hakari-Bibani/OCR/pkg/config"
)

func baseConfig(provider string) *config.Config {
	return &config.Config{
		Provider:  provider,
		Languages: []string{"ckb", "ara"},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*config.Config)
		wantEngine  string
		errContains string
	}{
		{
			name:        "vision without credentials fails fast",
			mutate:      func(c *config.Config) { c.Provider = config.ProviderVision },
			errContains: "GOOGLE_VISION_API_KEY",
		},
		{
			name: "vision with api key",
			mutate: func(c *config.Config) {
				c.Provider = config.ProviderVision
				c.VisionAPIKey = "test-key"
			},
			wantEngine: "vision",
		},
		{
			name:        "gemini without key fails fast",
			mutate:      func(c *config.Config) { c.Provider = config.ProviderGemini },
			errContains: "GEMINI_API_KEY",
		},
		{
			name: "gemini with key",
			mutate: func(c *config.Config) {
				c.Provider = config.ProviderGemini
				c.GeminiAPIKey = "test-key"
			},
			wantEngine: "gemini",
		},
		{
			name: "azure with endpoint and key",
			mutate: func(c *config.Config) {
				c.Provider = config.ProviderAzure
				c.AzureEndpoint = "https://example.cognitiveservices.azure.com"
				c.AzureAPIKey = "test-key"
			},
			wantEngine: "azure",
		},
		{
			name:       "tesseract needs no credentials",
			mutate:     func(c *config.Config) { c.Provider = config.ProviderTesseract },
			wantEngine: "tesseract",
		},
		{
			name:        "unknown provider",
			mutate:      func(c *config.Config) { c.Provider = "textract" },
			errContains: "unknown OCR provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig(config.ProviderVision)
			tt.mutate(cfg)

			engine, err := New(context.Background(), cfg)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEngine, engine.Name())
		})
	}
}
