// Package azure provides an OCR engine backed by the Azure Computer Vision
// printed-text recognition endpoint. Azure has no Kurdish model, so Arabic
// script detection is used when the language hints ask for it.
package azure

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/Azure/go-autorest/autorest"

	"github.com/Hakari-Bibani/OCR/pkg/models"
	"github.com/Hakari-Bibani/OCR/pkg/services/ocr"
)

// Ensure Service implements the engine contract.
var _ ocr.Engine = (*Service)(nil)

// Config holds configuration for the Azure engine.
type Config struct {
	// Endpoint is the Computer Vision resource endpoint (required).
	Endpoint string
	// APIKey is the resource key (required).
	APIKey string
	// Languages are hints used to pick the recognition language.
	Languages []string
}

// Service handles OCR operations against Azure Computer Vision.
type Service struct {
	client   *computervision.BaseClient
	language computervision.OcrLanguages
}

// New creates a new Azure OCR engine.
func New(cfg Config) (*Service, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("azure vision: endpoint and API key are required")
	}

	client := computervision.New(cfg.Endpoint)
	client.Authorizer = autorest.NewCognitiveServicesAuthorizer(cfg.APIKey)

	return &Service{
		client:   &client,
		language: languageFor(cfg.Languages),
	}, nil
}

// languageFor maps our hint list onto the closest Azure OCR language.
// Kurdish is not supported, so Sorani hints fall back to Arabic script.
func languageFor(hints []string) computervision.OcrLanguages {
	for _, h := range hints {
		switch strings.ToLower(h) {
		case "ckb", "ku", "ar", "ara":
			return computervision.OcrLanguagesAr
		case "en", "eng":
			return computervision.OcrLanguagesEn
		}
	}
	return computervision.OcrLanguagesUnk
}

func (s *Service) Name() string { return "azure" }

// Recognize performs OCR on an image and returns the extracted text lines.
func (s *Service) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	imageReader := io.NopCloser(bytes.NewReader(in.Data))

	result, err := s.client.RecognizePrintedTextInStream(
		ctx,
		true,
		imageReader,
		s.language,
	)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("azure vision: recognize: %w", err)
	}

	lines := extractTextLines(result)
	texts := make([]string, 0, len(lines))
	for _, line := range lines {
		texts = append(texts, line.Text)
	}
	return ocr.Result{
		Text:  strings.Join(texts, "\n"),
		Lines: lines,
	}, nil
}

// extractTextLines extracts text lines with position information from the
// OCR result. Bounding boxes arrive as "x,y,width,height" strings.
func extractTextLines(result computervision.OcrResult) []models.TextLine {
	var textLines []models.TextLine
	if result.Regions == nil {
		return textLines
	}
	for _, region := range *result.Regions {
		if region.Lines == nil {
			continue
		}
		for _, line := range *region.Lines {
			var lineText strings.Builder
			var boundingBox []int

			if line.BoundingBox != nil {
				parts := strings.Split(*line.BoundingBox, ",")
				for _, part := range parts {
					val, _ := strconv.Atoi(part)
					boundingBox = append(boundingBox, val)
				}
			}

			if line.Words != nil {
				for _, word := range *line.Words {
					if word.Text != nil {
						lineText.WriteString(*word.Text)
						lineText.WriteString(" ")
					}
				}
			}

			tl := models.TextLine{Text: strings.TrimSpace(lineText.String())}
			if len(boundingBox) >= 4 {
				tl.X = boundingBox[0]
				tl.Y = boundingBox[1]
				tl.Width = boundingBox[2]
				tl.Height = boundingBox[3]
			}
			if tl.Text != "" {
				textLines = append(textLines, tl)
			}
		}
	}
	return textLines
}
