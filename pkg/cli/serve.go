package cli

import (
	"github.com/spf13/cobra"

	"github.com/Hakari-Bibani/OCR/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the browser-form front-end",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		svc, store, err := buildPipeline(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		var history server.History
		if store != nil {
			history = store
		}

		srv := server.New(svc, history, server.Options{
			UploadDir:      cfg.UploadDir,
			MaxUploadBytes: cfg.MaxUploadBytes,
		})
		cmd.Printf("listening on :%s\n", cfg.Port)
		return srv.Run(":" + cfg.Port)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
