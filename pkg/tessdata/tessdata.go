// Package tessdata locates the local tesseract trained-data directory and
// installs the AsoSoft Sorani Kurdish model into it, for use with the
// tesseract OCR provider.
package tessdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// ModelURL is the published AsoSoft Kurdish trained-data file.
const ModelURL = "https://github.com/AsoSoft/Kurdish-Tesseract-Model/raw/master/Model-Files/Kurdish-Latin.traineddata"

// ModelFile is the filename tesseract expects for the Sorani model.
const ModelFile = "ckb.traineddata"

const downloadTimeout = 5 * time.Minute

// candidateDirs lists well-known tessdata locations per platform.
func candidateDirs() []string {
	switch runtime.GOOS {
	case "linux":
		return []string{
			"/usr/share/tesseract-ocr/4.00/tessdata",
			"/usr/share/tesseract-ocr/tessdata",
			"/usr/local/share/tessdata",
		}
	case "darwin":
		return []string{
			"/usr/local/share/tessdata",
			"/opt/homebrew/share/tessdata",
		}
	case "windows":
		return []string{
			`C:\Program Files\Tesseract-OCR\tessdata`,
			`C:\Program Files (x86)\Tesseract-OCR\tessdata`,
		}
	default:
		return nil
	}
}

// Dir returns the tessdata directory: TESSDATA_PREFIX when set, otherwise
// the first existing platform location.
func Dir() (string, error) {
	if prefix := os.Getenv("TESSDATA_PREFIX"); prefix != "" {
		return prefix, nil
	}
	for _, dir := range candidateDirs() {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", fmt.Errorf("could not locate a tessdata directory; set TESSDATA_PREFIX")
}

// Installed reports whether the Kurdish model is present in dir.
func Installed(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ModelFile))
	return err == nil && !info.IsDir()
}

// Install downloads the Kurdish model into dir. The file is written to a
// temporary name first and renamed into place so a failed download never
// leaves a truncated model behind. A nil client uses a default with a
// download timeout.
func Install(ctx context.Context, dir string, client *http.Client) error {
	if client == nil {
		client = &http.Client{Timeout: downloadTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ModelURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create download request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download Kurdish model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download Kurdish model: unexpected status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(dir, ModelFile+".download-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("write Kurdish model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), filepath.Join(dir, ModelFile)); err != nil {
		return fmt.Errorf("install Kurdish model into %s: %w", dir, err)
	}
	return nil
}
