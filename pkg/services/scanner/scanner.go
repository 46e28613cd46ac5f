// Package scanner implements the upload processing pipeline shared by the
// web, TUI and one-shot front-ends: validate the upload, keep the original,
// rasterize PDFs page by page and hand each image to the configured OCR
// engine.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Hakari-Bibani/OCR/pkg/kurdish"
	"github.com/Hakari-Bibani/OCR/pkg/logger"
	"github.com/Hakari-Bibani/OCR/pkg/models"
	"github.com/Hakari-Bibani/OCR/pkg/services/enhance"
	"github.com/Hakari-Bibani/OCR/pkg/services/ocr"
)

// Validation errors reported before any OCR work happens.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyUpload       = errors.New("uploaded file is empty")
)

// AllowedExtensions lists the upload formats the pipeline accepts.
var AllowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"bmp":  true,
	"tiff": true,
	"pdf":  true,
}

// Rasterizer renders a PDF into one image file per page, in page order.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfPath, workDir string) ([]string, error)
}

// Store persists scan history. The pipeline works without one.
type Store interface {
	SaveScan(rec *models.ScanRecord) error
}

// Options tunes the pipeline.
type Options struct {
	// UploadDir is where originals are kept. Created on demand.
	UploadDir string
	// DPI is forwarded to the OCR engine for rasterized pages.
	DPI int
	// Languages are hints forwarded to the OCR engine.
	Languages []string
	// Enhance runs the pre-OCR enhancement pass on image uploads.
	Enhance bool
	// Normalize applies Kurdish character normalization to recognized text.
	Normalize bool
}

// Result is the outcome of one processed upload.
type Result struct {
	// StoredName is the name the original was saved under in the upload
	// directory.
	StoredName string
	// PreviewName is the display rendition saved next to the original for
	// image uploads. Empty for PDFs or when the rendition failed.
	PreviewName string
	// Blocks holds the recognized text, one block per page with text.
	// Empty when the collaborator found no text anywhere.
	Blocks []models.TextBlock
	// Pages is the number of images submitted for recognition.
	Pages int
	// Provider names the engine that produced the result.
	Provider string
}

// Empty reports whether no text was detected in the document.
func (r *Result) Empty() bool { return len(r.Blocks) == 0 }

// Text joins all blocks into a single string.
func (r *Result) Text() string {
	parts := make([]string, 0, len(r.Blocks))
	for _, b := range r.Blocks {
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, "\n\n")
}

// Service runs the scan pipeline.
type Service struct {
	engine ocr.Engine
	raster Rasterizer
	store  Store
	opts   Options
}

// New creates a scan pipeline. store may be nil to disable history.
func New(engine ocr.Engine, raster Rasterizer, store Store, opts Options) *Service {
	if opts.UploadDir == "" {
		opts.UploadDir = "uploads"
	}
	return &Service{engine: engine, raster: raster, store: store, opts: opts}
}

// Scan validates and processes one upload. Unsupported and empty uploads are
// rejected before the OCR collaborator is ever invoked.
func (s *Service) Scan(ctx context.Context, up models.Upload) (*Result, error) {
	ext := up.Ext()
	if !AllowedExtensions[ext] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if len(up.Data) == 0 {
		return nil, ErrEmptyUpload
	}

	storedPath, storedName, err := s.keepOriginal(up)
	if err != nil {
		return nil, err
	}

	res := &Result{StoredName: storedName, Provider: s.engine.Name()}
	if up.IsPDF() {
		err = s.scanPDF(ctx, storedPath, res)
	} else {
		res.PreviewName = s.keepPreview(up, storedName)
		err = s.scanImage(ctx, up, res)
	}
	if err != nil {
		return nil, err
	}

	if s.opts.Normalize {
		for i := range res.Blocks {
			res.Blocks[i].Text = kurdish.Normalize(res.Blocks[i].Text)
		}
	}

	s.record(up, res)
	return res, nil
}

// keepOriginal writes the upload into the upload directory under a
// UUID-prefixed name to avoid collisions between identically named files.
func (s *Service) keepOriginal(up models.Upload) (path, name string, err error) {
	if err := os.MkdirAll(s.opts.UploadDir, 0o750); err != nil {
		return "", "", fmt.Errorf("create upload dir: %w", err)
	}
	name = uuid.NewString() + "_" + filepath.Base(up.Filename)
	path = filepath.Join(s.opts.UploadDir, name)
	if err := os.WriteFile(path, up.Data, 0o640); err != nil {
		return "", "", fmt.Errorf("store upload: %w", err)
	}
	return path, name, nil
}

// keepPreview writes a display rendition of an image upload next to the
// original. Like enhancement it is best-effort; failures only cost the
// preview.
func (s *Service) keepPreview(up models.Upload, storedName string) string {
	rendition, err := enhance.DisplayBytes(up.Data)
	if err != nil {
		logger.Warn("display rendition for %s: %v", up.Filename, err)
		return ""
	}
	name := storedName + ".preview.jpg"
	if err := os.WriteFile(filepath.Join(s.opts.UploadDir, name), rendition, 0o640); err != nil {
		logger.Warn("store display rendition for %s: %v", up.Filename, err)
		return ""
	}
	return name
}

func (s *Service) scanImage(ctx context.Context, up models.Upload, res *Result) error {
	data := up.Data
	mimeType := up.MIME

	if s.opts.Enhance {
		enhanced, err := enhance.Bytes(data)
		if err != nil {
			// Enhancement is best-effort; recognition proceeds on the
			// original bytes.
			logger.Warn("enhancement failed for %s: %v", up.Filename, err)
		} else {
			data = enhanced
			mimeType = "image/jpeg"
		}
	}

	out, err := s.engine.Recognize(ctx, ocr.Input{
		Name:      up.Filename,
		Data:      data,
		MIME:      mimeType,
		Languages: s.opts.Languages,
	})
	if err != nil {
		return err
	}

	res.Pages = 1
	if !out.Empty() {
		res.Blocks = append(res.Blocks, models.TextBlock{Page: 1, Text: out.Text})
	}
	return nil
}

func (s *Service) scanPDF(ctx context.Context, pdfPath string, res *Result) error {
	workDir, err := os.MkdirTemp("", "ocr-pages-")
	if err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	pages, err := s.raster.Rasterize(ctx, pdfPath, workDir)
	if err != nil {
		return fmt.Errorf("rasterize pdf: %w", err)
	}
	logger.Debug("rasterized %s into %d pages", filepath.Base(pdfPath), len(pages))

	res.Pages = len(pages)
	for i, pagePath := range pages {
		data, err := os.ReadFile(pagePath)
		if err != nil {
			return fmt.Errorf("read page %d: %w", i+1, err)
		}
		out, err := s.engine.Recognize(ctx, ocr.Input{
			Name:      filepath.Base(pagePath),
			Data:      data,
			MIME:      "image/jpeg",
			Page:      i + 1,
			Languages: s.opts.Languages,
			DPI:       s.opts.DPI,
		})
		if err != nil {
			return fmt.Errorf("recognize page %d: %w", i+1, err)
		}
		if !out.Empty() {
			res.Blocks = append(res.Blocks, models.TextBlock{Page: i + 1, Text: out.Text})
		}
	}
	return nil
}

// record writes the scan to history. History is best-effort: a storage
// failure is logged, not returned, so the user still gets their text.
func (s *Service) record(up models.Upload, res *Result) {
	if s.store == nil {
		return
	}
	rec := &models.ScanRecord{
		Filename:   up.Filename,
		StoredName: res.StoredName,
		MIME:       up.MIME,
		Provider:   res.Provider,
		Pages:      res.Pages,
		Text:       res.Text(),
	}
	if err := s.store.SaveScan(rec); err != nil {
		logger.Warn("save scan record: %v", err)
	}
}
