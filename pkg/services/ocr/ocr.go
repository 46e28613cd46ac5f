// Package ocr defines the contract between the scan pipeline and the text
// recognition collaborators. Concrete engines live in the vision, gemini,
// azure and tesseract subpackages.
package ocr

import (
	"context"

	"github.com/Hakari-Bibani/OCR/pkg/models"
)

// Input encapsulates a single image submitted for recognition.
type Input struct {
	// Name identifies the source for logging, e.g. the upload filename or a
	// rendered page file.
	Name string
	// Data is the encoded image payload.
	Data []byte
	// MIME declares the image content type (e.g. image/jpeg).
	MIME string
	// Page links the input back to the one-based PDF page it came from.
	// Zero for plain image uploads.
	Page int
	// Languages is a list of language hints (e.g. "ckb", "ara") that engines
	// can use to select trained data or bias detection.
	Languages []string
	// DPI carries the effective dots-per-inch of a rasterized page. Zero
	// means unknown.
	DPI int
}

// Result captures recognition output for a single input image.
type Result struct {
	// Text is the full recognized text. Empty means the collaborator found
	// no text, which is a valid outcome rather than an error.
	Text string
	// Lines carries per-line positions when the engine reports them.
	Lines []models.TextLine
}

// Empty reports whether the engine found no text at all.
func (r Result) Empty() bool { return r.Text == "" }

// Engine is the provider contract: one image in, one result out. Engines
// surface upstream failures as errors and never retry.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (Result, error)
}
