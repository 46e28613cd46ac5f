// Package gemini provides an OCR engine backed by the Google Gemini
// generateContent API, submitting the image inline and asking the model to
// transcribe it.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Hakari-Bibani/OCR/pkg/services/ocr"
)

// Ensure Service implements the engine contract.
var _ ocr.Engine = (*Service)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-1.5-flash"
	DefaultTimeout = 120 * time.Second
)

// transcribePrompt steers the model toward a verbatim transcription.
const transcribePrompt = "Extract all text visible in this document image. " +
	"Return only the extracted text, preserving line breaks. " +
	"If the image contains no text, return an empty response."

// Config holds configuration for the Gemini engine.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://generativelanguage.googleapis.com).
	BaseURL string

	// Model is the model to use (default: gemini-1.5-flash).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Service performs OCR through the Gemini API.
type Service struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// generateRequest is the generateContent request format.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// generateResponse is the generateContent response format.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// New creates a new Gemini OCR engine.
func New(cfg Config) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Service{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

func (s *Service) Name() string { return "gemini" }

// Recognize submits one image for transcription.
func (s *Service) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	mimeType := in.MIME
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	reqBody := generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: transcribePrompt},
				{InlineData: &inlineData{
					MIMEType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(in.Data),
				}},
			},
		}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("gemini: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return ocr.Result{}, fmt.Errorf("gemini: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("gemini: send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("gemini: read response: %w", err)
	}

	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return ocr.Result{}, fmt.Errorf("gemini: decode response (status %d): %w", resp.StatusCode, err)
	}
	if gr.Error != nil {
		return ocr.Result{}, fmt.Errorf("gemini: %s (%s)", gr.Error.Message, gr.Error.Status)
	}
	if resp.StatusCode != http.StatusOK {
		return ocr.Result{}, fmt.Errorf("gemini: request failed with status %d", resp.StatusCode)
	}

	var sb strings.Builder
	for _, c := range gr.Candidates {
		for _, p := range c.Content.Parts {
			sb.WriteString(p.Text)
		}
		break // only the first candidate is used
	}
	return ocr.Result{Text: strings.TrimSpace(sb.String())}, nil
}
