package cli

import (
	"github.com/spf13/cobra"

	"github.com/Hakari-Bibani/OCR/pkg/tessdata"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage local tesseract language models",
}

var modelsInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Download the Sorani Kurdish tesseract model",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, err := tessdata.Dir()
		if err != nil {
			return err
		}

		if tessdata.Installed(dir) {
			cmd.Printf("Kurdish model already installed in %s\n", dir)
			return nil
		}

		cmd.Printf("downloading Kurdish model into %s ...\n", dir)
		if err := tessdata.Install(cmd.Context(), dir, nil); err != nil {
			return err
		}
		cmd.Println("Kurdish model installed.")
		return nil
	},
}

func init() {
	modelsCmd.AddCommand(modelsInstallCmd)
	rootCmd.AddCommand(modelsCmd)
}
