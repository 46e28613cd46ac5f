// Package factory creates the configured OCR engine. It is the single place
// where provider selection and credential checks happen, so every front-end
// fails the same way on a misconfigured provider.
package factory

import (
	"context"
	"fmt"

	"github.com/Hakari-Bibani/OCR/pkg/config"
	"github.com/Hakari-Bibani/OCR/pkg/services/ocr"
	"github.com/Hakari-Bibani/OCR/pkg/services/ocr/azure"
	"github.com/Hakari-Bibani/OCR/pkg/services/ocr/gemini"
	"github.com/Hakari-Bibani/OCR/pkg/services/ocr/tesseract"
	"github.com/Hakari-Bibani/OCR/pkg/services/ocr/vision"
)

// New builds the OCR engine selected by cfg.Provider. Missing credentials
// are reported here with guidance rather than on the first upload.
func New(ctx context.Context, cfg *config.Config) (ocr.Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case config.ProviderVision:
		return vision.New(ctx, vision.Config{
			APIKey:          cfg.VisionAPIKey,
			CredentialsJSON: cfg.VisionCredentialsJSON,
			Languages:       cfg.Languages,
		})
	case config.ProviderGemini:
		return gemini.New(gemini.Config{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		})
	case config.ProviderAzure:
		return azure.New(azure.Config{
			Endpoint:  cfg.AzureEndpoint,
			APIKey:    cfg.AzureAPIKey,
			Languages: cfg.Languages,
		})
	case config.ProviderTesseract:
		return tesseract.New(tesseract.Config{Languages: cfg.Languages}), nil
	default:
		return nil, fmt.Errorf("unknown OCR provider %q", cfg.Provider)
	}
}
