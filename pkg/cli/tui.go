package cli

import (
	"github.com/spf13/cobra"

	"github.com/Hakari-Bibani/OCR/pkg/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the terminal front-end",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		svc, _, err := buildPipeline(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return tui.Run(svc)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
