// Package pdf turns PDF documents into one raster image per page using the
// poppler pdftoppm tool, which must be on PATH. Page counting is done
// in-process so obviously broken files are rejected before shelling out.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	rpdf "rsc.io/pdf"
)

// DefaultDPI matches the rasterization density the OCR collaborators are
// tuned for.
const DefaultDPI = 300

// Rasterizer renders PDF pages to JPEG files via pdftoppm.
type Rasterizer struct {
	// DPI is the render resolution. Zero or negative falls back to
	// DefaultDPI.
	DPI int
}

// NewRasterizer returns a Rasterizer at the given DPI.
func NewRasterizer(dpi int) *Rasterizer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Rasterizer{DPI: dpi}
}

// Rasterize renders every page of the PDF at pdfPath into workDir and
// returns the image paths in page order.
func (r *Rasterizer) Rasterize(ctx context.Context, pdfPath, workDir string) ([]string, error) {
	dpi := r.DPI
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	if _, err := PageCount(pdfPath); err != nil {
		return nil, err
	}

	prefix := filepath.Join(workDir, "page")
	args := []string{"-jpeg", "-r", strconv.Itoa(dpi), pdfPath, prefix}
	cmd := exec.CommandContext(ctx, "pdftoppm", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	matches, err := filepath.Glob(prefix + "-*.jpg")
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, errors.New("no rendered pages found")
	}
	sort.Slice(matches, func(i, j int) bool {
		return pageIndexFromName(matches[i]) < pageIndexFromName(matches[j])
	})
	return matches, nil
}

// pageIndexFromName recovers the zero-based page index from a pdftoppm
// output name such as page-03.jpg.
func pageIndexFromName(path string) int {
	base := filepath.Base(path)
	idx := strings.LastIndex(base, "-")
	if idx >= 0 {
		number := strings.TrimSuffix(base[idx+1:], ".jpg")
		if v, err := strconv.Atoi(number); err == nil {
			return v - 1
		}
	}
	return 0
}

// PageCount reports the number of pages in the PDF at path. The rsc.io/pdf
// reader panics on malformed input, so that is converted into an error here.
func PageCount(path string) (n int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf %s: %v", filepath.Base(path), r)
		}
	}()

	doc, err := rpdf.NewReader(f, info.Size())
	if err != nil {
		return 0, fmt.Errorf("parse pdf %s: %w", filepath.Base(path), err)
	}
	return doc.NumPage(), nil
}
