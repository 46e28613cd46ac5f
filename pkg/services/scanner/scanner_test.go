package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hakari-Bibani/OCR/pkg/models"
	"github.com/Hakari-Bibani/OCR/pkg/services/ocr"
	"github.com/Hakari-Bibani/OCR/pkg/services/pdf"
)

// fakeEngine records every input and returns canned text per page.
type fakeEngine struct {
	calls []ocr.Input
	texts map[int]string // page -> text; page 0 for image uploads
	err   error
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Recognize(_ context.Context, in ocr.Input) (ocr.Result, error) {
	f.calls = append(f.calls, in)
	if f.err != nil {
		return ocr.Result{}, f.err
	}
	return ocr.Result{Text: f.texts[in.Page]}, nil
}

// fakeRasterizer writes n fake page images into the work dir.
type fakeRasterizer struct {
	pages int
	err   error
}

func (f *fakeRasterizer) Rasterize(_ context.Context, _, workDir string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	paths := make([]string, 0, f.pages)
	for i := 1; i <= f.pages; i++ {
		path := filepath.Join(workDir, fmt.Sprintf("page-%d.jpg", i))
		if err := os.WriteFile(path, []byte(fmt.Sprintf("page-%d", i)), 0o600); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// memStore collects saved records.
type memStore struct {
	records []*models.ScanRecord
	err     error
}

func (m *memStore) SaveScan(rec *models.ScanRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func newService(t *testing.T, engine *fakeEngine, raster *fakeRasterizer, store Store) *Service {
	t.Helper()
	return New(engine, raster, store, Options{UploadDir: t.TempDir(), DPI: 300})
}

func TestScan_UnsupportedExtensionNeverReachesEngine(t *testing.T) {
	engine := &fakeEngine{}
	svc := newService(t, engine, &fakeRasterizer{}, nil)

	for _, name := range []string{"notes.txt", "archive.zip", "noextension"} {
		_, err := svc.Scan(context.Background(), models.Upload{Filename: name, Data: []byte{1}})
		require.ErrorIs(t, err, ErrUnsupportedFormat, name)
	}
	assert.Empty(t, engine.calls, "OCR engine must not be invoked for rejected uploads")
}

func TestScan_EmptyUploadRejected(t *testing.T) {
	engine := &fakeEngine{}
	svc := newService(t, engine, &fakeRasterizer{}, nil)

	_, err := svc.Scan(context.Background(), models.Upload{Filename: "scan.png"})
	require.ErrorIs(t, err, ErrEmptyUpload)
	assert.Empty(t, engine.calls)
}

func TestScan_ImageTextReproducedVerbatim(t *testing.T) {
	const detected = "سڵاو جیهان\nدێڕی دووەم"
	engine := &fakeEngine{texts: map[int]string{0: detected}}
	svc := newService(t, engine, &fakeRasterizer{}, nil)

	res, err := svc.Scan(context.Background(), models.Upload{
		Filename: "doc.png",
		MIME:     "image/png",
		Data:     []byte{1, 2, 3},
	})
	require.NoError(t, err)

	require.Len(t, res.Blocks, 1)
	assert.Equal(t, detected, res.Blocks[0].Text)
	assert.Equal(t, detected, res.Text())
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, "fake", res.Provider)
	assert.False(t, res.Empty())
}

func TestScan_PDFSubmitsOneImagePerPageInOrder(t *testing.T) {
	engine := &fakeEngine{texts: map[int]string{
		1: "پەڕە یەک",
		2: "پەڕە دوو",
		3: "پەڕە سێ",
	}}
	svc := newService(t, engine, &fakeRasterizer{pages: 3}, nil)

	res, err := svc.Scan(context.Background(), models.Upload{
		Filename: "book.pdf",
		MIME:     "application/pdf",
		Data:     []byte("%PDF-1.4"),
	})
	require.NoError(t, err)

	require.Len(t, engine.calls, 3)
	for i, call := range engine.calls {
		assert.Equal(t, i+1, call.Page)
		assert.Equal(t, 300, call.DPI)
	}

	assert.Equal(t, 3, res.Pages)
	require.Len(t, res.Blocks, 3)
	assert.Equal(t, "پەڕە یەک", res.Blocks[0].Text)
	assert.Equal(t, "پەڕە سێ", res.Blocks[2].Text)
}

func TestScan_PDFSkipsEmptyPagesButCountsThem(t *testing.T) {
	engine := &fakeEngine{texts: map[int]string{1: "text", 3: "more"}}
	svc := newService(t, engine, &fakeRasterizer{pages: 3}, nil)

	res, err := svc.Scan(context.Background(), models.Upload{
		Filename: "sparse.pdf",
		Data:     []byte("%PDF-1.4"),
	})
	require.NoError(t, err)

	assert.Len(t, engine.calls, 3)
	assert.Equal(t, 3, res.Pages)
	require.Len(t, res.Blocks, 2)
	assert.Equal(t, 1, res.Blocks[0].Page)
	assert.Equal(t, 3, res.Blocks[1].Page)
}

func TestScan_NoTextIsNotAnError(t *testing.T) {
	engine := &fakeEngine{}
	svc := newService(t, engine, &fakeRasterizer{}, nil)

	res, err := svc.Scan(context.Background(), models.Upload{
		Filename: "blank.jpg",
		Data:     []byte{1},
	})
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Empty(t, res.Text())
}

func TestScan_RasterizationFailureSurfaced(t *testing.T) {
	engine := &fakeEngine{}
	svc := newService(t, engine, &fakeRasterizer{err: errors.New("pdftoppm failed")}, nil)

	_, err := svc.Scan(context.Background(), models.Upload{
		Filename: "broken.pdf",
		Data:     []byte("%PDF-1.4"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftoppm failed")
	assert.Empty(t, engine.calls)
}

func TestScan_MalformedPDFRejectedInProcess(t *testing.T) {
	// With the real rasterizer a PDF that does not parse is rejected by the
	// in-process page count, before pdftoppm runs and before any OCR call.
	engine := &fakeEngine{}
	svc := New(engine, pdf.NewRasterizer(0), nil, Options{UploadDir: t.TempDir()})

	_, err := svc.Scan(context.Background(), models.Upload{
		Filename: "garbage.pdf",
		MIME:     "application/pdf",
		Data:     []byte("not a pdf at all"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse pdf")
	assert.Empty(t, engine.calls)
}

func TestScan_EngineFailureSurfaced(t *testing.T) {
	engine := &fakeEngine{err: errors.New("quota exceeded")}
	svc := newService(t, engine, &fakeRasterizer{}, nil)

	_, err := svc.Scan(context.Background(), models.Upload{
		Filename: "doc.jpg",
		Data:     []byte{1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestScan_KeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	engine := &fakeEngine{texts: map[int]string{0: "text"}}
	svc := New(engine, &fakeRasterizer{}, nil, Options{UploadDir: dir})

	res, err := svc.Scan(context.Background(), models.Upload{
		Filename: "receipt.jpg",
		Data:     []byte{0xff, 0xd8},
	})
	require.NoError(t, err)

	assert.Contains(t, res.StoredName, "_receipt.jpg")
	stored, err := os.ReadFile(filepath.Join(dir, res.StoredName))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8}, stored)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestScan_ImageKeepsDisplayRendition(t *testing.T) {
	dir := t.TempDir()
	engine := &fakeEngine{texts: map[int]string{0: "text"}}
	svc := New(engine, &fakeRasterizer{}, nil, Options{UploadDir: dir})

	res, err := svc.Scan(context.Background(), models.Upload{
		Filename: "photo.png",
		MIME:     "image/png",
		Data:     pngBytes(t, 24, 16),
	})
	require.NoError(t, err)

	require.NotEmpty(t, res.PreviewName)
	assert.Equal(t, res.StoredName+".preview.jpg", res.PreviewName)

	rendition, err := os.ReadFile(filepath.Join(dir, res.PreviewName))
	require.NoError(t, err)
	_, format, err := image.Decode(bytes.NewReader(rendition))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestScan_PreviewFailureDoesNotFailScan(t *testing.T) {
	engine := &fakeEngine{texts: map[int]string{0: "text"}}
	svc := newService(t, engine, &fakeRasterizer{}, nil)

	res, err := svc.Scan(context.Background(), models.Upload{
		Filename: "doc.png",
		Data:     []byte{1, 2, 3}, // not decodable
	})
	require.NoError(t, err)
	assert.Empty(t, res.PreviewName)
	assert.False(t, res.Empty())
}

func TestScan_PDFHasNoPreview(t *testing.T) {
	engine := &fakeEngine{texts: map[int]string{1: "text"}}
	svc := newService(t, engine, &fakeRasterizer{pages: 1}, nil)

	res, err := svc.Scan(context.Background(), models.Upload{
		Filename: "doc.pdf",
		Data:     []byte("%PDF-1.4"),
	})
	require.NoError(t, err)
	assert.Empty(t, res.PreviewName)
}

func TestScan_NormalizeAppliedWhenEnabled(t *testing.T) {
	// Arabic kaf in the engine output becomes a Kurdish kaf.
	engine := &fakeEngine{texts: map[int]string{0: "كوردستان"}}
	svc := New(engine, &fakeRasterizer{}, nil, Options{UploadDir: t.TempDir(), Normalize: true})

	res, err := svc.Scan(context.Background(), models.Upload{
		Filename: "doc.png",
		Data:     []byte{1},
	})
	require.NoError(t, err)
	require.Len(t, res.Blocks, 1)
	assert.Equal(t, "کوردستان", res.Blocks[0].Text)
}

func TestScan_RecordsHistory(t *testing.T) {
	store := &memStore{}
	engine := &fakeEngine{texts: map[int]string{1: "a", 2: "b"}}
	svc := New(engine, &fakeRasterizer{pages: 2}, store, Options{UploadDir: t.TempDir()})

	_, err := svc.Scan(context.Background(), models.Upload{
		Filename: "two.pdf",
		MIME:     "application/pdf",
		Data:     []byte("%PDF-1.4"),
	})
	require.NoError(t, err)

	require.Len(t, store.records, 1)
	rec := store.records[0]
	assert.Equal(t, "two.pdf", rec.Filename)
	assert.Equal(t, "fake", rec.Provider)
	assert.Equal(t, 2, rec.Pages)
	assert.Equal(t, "a\n\nb", rec.Text)
}

func TestScan_StoreFailureDoesNotFailScan(t *testing.T) {
	store := &memStore{err: errors.New("db down")}
	engine := &fakeEngine{texts: map[int]string{0: "text"}}
	svc := New(engine, &fakeRasterizer{}, store, Options{UploadDir: t.TempDir()})

	res, err := svc.Scan(context.Background(), models.Upload{
		Filename: "doc.jpg",
		Data:     []byte{1},
	})
	require.NoError(t, err)
	assert.False(t, res.Empty())
}
