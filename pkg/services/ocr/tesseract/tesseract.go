// Package tesseract provides a local OCR engine using the gosseract client.
// It needs a tesseract install with the Sorani Kurdish model; see the
// `models install` command.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/Hakari-Bibani/OCR/pkg/services/ocr"
)

// Ensure Engine implements the engine contract.
var _ ocr.Engine = (*Engine)(nil)

// DefaultLanguages targets Sorani Kurdish with an Arabic fallback, matching
// the trained data the installer provisions.
var DefaultLanguages = []string{"ckb", "ara"}

// Config holds configuration for the local Tesseract engine.
type Config struct {
	// Languages selects trained data files, e.g. ["ckb", "ara"].
	Languages []string
	// PageSegMode is the tesseract page segmentation mode. Zero keeps the
	// tesseract default; scanned documents work well with mode 6.
	PageSegMode int
}

// Engine runs OCR through a local tesseract install.
type Engine struct {
	languages     []string
	pageSegMode   int
	clientFactory func() *gosseract.Client
}

// New constructs a Tesseract-backed OCR engine.
func New(cfg Config) *Engine {
	langs := cfg.Languages
	if len(langs) == 0 {
		langs = DefaultLanguages
	}
	return &Engine{
		languages:     langs,
		pageSegMode:   cfg.PageSegMode,
		clientFactory: gosseract.NewClient,
	}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize performs OCR on a single image. A fresh client is used per call;
// gosseract clients are not safe for concurrent use.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	select {
	case <-ctx.Done():
		return ocr.Result{}, ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(in.Data); err != nil {
		return ocr.Result{}, fmt.Errorf("tesseract: set image: %w", err)
	}
	langs := in.Languages
	if len(langs) == 0 {
		langs = e.languages
	}
	if err := c.SetLanguage(langs...); err != nil {
		return ocr.Result{}, fmt.Errorf("tesseract: set languages: %w", err)
	}
	if e.pageSegMode > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(e.pageSegMode)); err != nil {
			return ocr.Result{}, fmt.Errorf("tesseract: set page segmentation mode: %w", err)
		}
	}
	if in.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(in.DPI)); err != nil {
			return ocr.Result{}, fmt.Errorf("tesseract: set dpi: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("tesseract: recognize: %w", err)
	}
	return ocr.Result{Text: strings.TrimSpace(text)}, nil
}
