package models

import (
	"strings"

	"gorm.io/gorm"
)

// Upload holds a single uploaded document as received from a front-end.
type Upload struct {
	Filename string
	MIME     string
	Data     []byte
}

// Ext returns the lower-cased filename extension without the leading dot.
func (u Upload) Ext() string {
	idx := strings.LastIndex(u.Filename, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(u.Filename[idx+1:])
}

// IsPDF reports whether the upload is a PDF document.
func (u Upload) IsPDF() bool { return u.Ext() == "pdf" }

// TextBlock is one unit of recognized text. Image uploads produce a single
// block; PDF uploads produce at most one block per page.
type TextBlock struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// TextLine represents a line of text with its position from OCR
type TextLine struct {
	Text   string
	X      int
	Y      int
	Width  int
	Height int
}

// ScanRecord is the persisted history entry for a processed upload.
type ScanRecord struct {
	gorm.Model
	Filename   string
	StoredName string
	MIME       string
	Provider   string
	Pages      int
	Text       string
}
