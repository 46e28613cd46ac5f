// Package server is the browser-form front-end: a small gin application
// with an upload form, a result page, a JSON history endpoint and a
// download route for stored originals.
package server

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Hakari-Bibani/OCR/pkg/logger"
	"github.com/Hakari-Bibani/OCR/pkg/models"
	"github.com/Hakari-Bibani/OCR/pkg/services/scanner"
)

//go:embed templates/*.html
var templateFS embed.FS

// History lists persisted scans. Nil disables the /scans endpoint.
type History interface {
	ListScans(limit int) ([]models.ScanRecord, error)
}

// Options configures the web front-end.
type Options struct {
	// UploadDir is where the scanner keeps originals; downloads are served
	// from here.
	UploadDir string
	// MaxUploadBytes caps the accepted upload size.
	MaxUploadBytes int64
}

// Server wires the scan pipeline to HTTP.
type Server struct {
	scanner *scanner.Service
	history History
	opts    Options
	router  *gin.Engine
}

// New builds the router. history may be nil.
func New(svc *scanner.Service, history History, opts Options) *Server {
	if opts.UploadDir == "" {
		opts.UploadDir = "uploads"
	}
	s := &Server{
		scanner: svc,
		history: history,
		opts:    opts,
	}

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20
	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templateFS, "templates/*.html")))

	r.GET("/", s.showForm)
	r.POST("/scan", s.handleScan)
	r.GET("/scans", s.listScans)
	r.GET("/files/:name", s.downloadFile)
	r.GET("/preview/:name", s.servePreview)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.router = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run starts the server on the given address.
func (s *Server) Run(addr string) error { return s.router.Run(addr) }

func allowedFormats() string {
	exts := make([]string, 0, len(scanner.AllowedExtensions))
	for ext := range scanner.AllowedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}

func (s *Server) showForm(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Formats": allowedFormats(),
	})
}

func (s *Server) formError(c *gin.Context, status int, msg string) {
	c.HTML(status, "index.html", gin.H{
		"Formats": allowedFormats(),
		"Error":   msg,
	})
}

func (s *Server) handleScan(c *gin.Context) {
	fileHeader, err := c.FormFile("document")
	if err != nil {
		s.formError(c, http.StatusBadRequest, "Please upload a file before submitting the form.")
		return
	}
	if s.opts.MaxUploadBytes > 0 && fileHeader.Size > s.opts.MaxUploadBytes {
		s.formError(c, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("The uploaded file exceeds the %d MB limit.", s.opts.MaxUploadBytes>>20))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		s.formError(c, http.StatusBadRequest, "The uploaded file could not be read.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.formError(c, http.StatusBadRequest, "The uploaded file could not be read.")
		return
	}

	up := models.Upload{
		Filename: filepath.Base(fileHeader.Filename),
		MIME:     fileHeader.Header.Get("Content-Type"),
		Data:     data,
	}

	res, err := s.scanner.Scan(c.Request.Context(), up)
	switch {
	case errors.Is(err, scanner.ErrUnsupportedFormat):
		s.formError(c, http.StatusBadRequest,
			fmt.Sprintf("Unsupported file format. Allowed formats: %s.", allowedFormats()))
		return
	case errors.Is(err, scanner.ErrEmptyUpload):
		s.formError(c, http.StatusBadRequest, "The uploaded file is empty. Please try again with a different file.")
		return
	case err != nil:
		logger.Warn("scan %s: %v", up.Filename, err)
		s.formError(c, http.StatusBadGateway, fmt.Sprintf("Failed to process the document: %v", err))
		return
	}

	c.HTML(http.StatusOK, "result.html", gin.H{
		"Filename":   up.Filename,
		"StoredName": res.StoredName,
		"Preview":    res.PreviewName,
		"Provider":   res.Provider,
		"Pages":      res.Pages,
		"Blocks":     res.Blocks,
		"NoText":     res.Empty(),
	})
}

func (s *Server) listScans(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "scan history is not configured"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	records, err := s.history.ListScans(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) downloadFile(c *gin.Context) {
	name := filepath.Base(c.Param("name"))
	if name == "." || name == "/" || strings.HasPrefix(name, ".") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file name"})
		return
	}
	path := filepath.Join(s.opts.UploadDir, name)

	// Offer the original under its upload name, without the UUID prefix.
	download := name
	if idx := strings.Index(name, "_"); idx >= 0 && idx < len(name)-1 {
		download = name[idx+1:]
	}
	c.FileAttachment(path, download)
}

// servePreview serves the display rendition inline next to the result page.
func (s *Server) servePreview(c *gin.Context) {
	name := filepath.Base(c.Param("name"))
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".preview.jpg") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file name"})
		return
	}
	c.File(filepath.Join(s.opts.UploadDir, name))
}
