// Package cli wires the front-ends into a single command tree.
package cli

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Hakari-Bibani/OCR/pkg/config"
	"github.com/Hakari-Bibani/OCR/pkg/logger"
	"github.com/Hakari-Bibani/OCR/pkg/services/ocr/factory"
	"github.com/Hakari-Bibani/OCR/pkg/services/pdf"
	"github.com/Hakari-Bibani/OCR/pkg/services/scanner"
	"github.com/Hakari-Bibani/OCR/pkg/storage"
)

var (
	flagVerbose  bool
	flagConfig   string
	flagEnvFile  string
	flagProvider string
)

var rootCmd = &cobra.Command{
	Use:   "kurdish-ocr",
	Short: "Extract Kurdish text from images and PDFs using cloud or local OCR",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		if flagEnvFile != "" {
			if err := godotenv.Load(flagEnvFile); err != nil {
				return fmt.Errorf("load env file %s: %w", flagEnvFile, err)
			}
			return nil
		}
		// A missing default .env file is fine.
		_ = godotenv.Load()
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "path to a .env file")
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "OCR provider: vision, gemini, azure or tesseract")
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagProvider != "" {
		cfg.Provider = flagProvider
	}
	return cfg, nil
}

// buildPipeline assembles the scan pipeline shared by serve, tui and scan.
// The returned store is nil when no DATABASE_URL is configured.
func buildPipeline(ctx context.Context, cfg *config.Config) (*scanner.Service, *storage.Store, error) {
	engine, err := factory.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("using OCR provider %s", engine.Name())

	var store *storage.Store
	if cfg.DatabaseURL != "" {
		store, err = storage.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
	}

	var storeIface scanner.Store
	if store != nil {
		storeIface = store
	}

	svc := scanner.New(engine, pdf.NewRasterizer(cfg.DPI), storeIface, scanner.Options{
		UploadDir: cfg.UploadDir,
		DPI:       cfg.DPI,
		Languages: cfg.Languages,
		Enhance:   cfg.Enhance,
		Normalize: cfg.Normalize,
	})
	return svc, store, nil
}
