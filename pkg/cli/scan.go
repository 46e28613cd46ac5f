package cli

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Hakari-Bibani/OCR/pkg/models"
)

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Extract text from a single image or PDF and print it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		svc, _, err := buildPipeline(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		res, err := svc.Scan(cmd.Context(), models.Upload{
			Filename: filepath.Base(path),
			MIME:     mime.TypeByExtension(filepath.Ext(path)),
			Data:     data,
		})
		if err != nil {
			return err
		}

		if res.Empty() {
			cmd.Println("No text detected in the document.")
			return nil
		}
		for i, block := range res.Blocks {
			if i > 0 {
				cmd.Println()
			}
			if res.Pages > 1 {
				cmd.Printf("--- text block %d ---\n", block.Page)
			}
			cmd.Println(block.Text)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
