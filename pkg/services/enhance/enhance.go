// Package enhance applies a pre-OCR enhancement pass to uploaded images so
// low-contrast scans recognize better.
package enhance

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	// Register decoders for the upload formats image.Decode does not know
	// out of the box.
	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// maxDisplayEdge bounds the longest edge of the display rendition.
const maxDisplayEdge = 1000

// Document enhances a scanned document image for OCR: grayscale for
// contrast, then contrast, sharpening, brightness and gamma adjustments.
func Document(src image.Image) image.Image {
	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 30)
	img = imaging.Sharpen(img, 1.5)
	img = imaging.AdjustBrightness(img, 10)
	img = imaging.AdjustGamma(img, 1.2)
	return img
}

// Display produces a lightly enhanced, display-sized rendition of the image.
func Display(src image.Image) image.Image {
	img := imaging.AdjustContrast(src, 20)
	img = imaging.Sharpen(img, 1.0)
	bounds := img.Bounds()
	if bounds.Dx() > maxDisplayEdge || bounds.Dy() > maxDisplayEdge {
		img = imaging.Fit(img, maxDisplayEdge, maxDisplayEdge, imaging.Lanczos)
	}
	return img
}

// Bytes decodes an uploaded image, runs the document enhancement pass and
// re-encodes the result as JPEG.
func Bytes(data []byte) ([]byte, error) {
	return encodePass(data, Document, 92)
}

// DisplayBytes decodes an uploaded image and re-encodes its display
// rendition as JPEG.
func DisplayBytes(data []byte) ([]byte, error) {
	return encodePass(data, Display, 85)
}

func encodePass(data []byte, pass func(image.Image) image.Image, quality int) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, pass(src), imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
