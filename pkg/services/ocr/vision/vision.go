// Package vision provides an OCR engine backed by the Google Cloud Vision
// images.annotate endpoint with the TEXT_DETECTION feature.
package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"

	"github.com/Hakari-Bibani/OCR/pkg/services/ocr"
)

// Ensure Service implements the engine contract.
var _ ocr.Engine = (*Service)(nil)

// Vision allows 1800 requests per minute per project; stay well below that.
const (
	defaultRequestsPerSecond = 8.0
	defaultBurst             = 10
)

// Config holds configuration for the Vision engine.
type Config struct {
	// APIKey authenticates requests when no service account is provided.
	APIKey string
	// CredentialsJSON is service-account key material. Takes precedence over
	// APIKey when both are set.
	CredentialsJSON string
	// Languages are language hints forwarded in the image context.
	Languages []string
	// RequestsPerSecond caps the outbound request rate. Zero uses a
	// conservative default.
	RequestsPerSecond float64
}

// Service performs OCR through the Cloud Vision API.
type Service struct {
	svc       *vision.Service
	languages []string
	limiter   *rate.Limiter
}

// New creates a Vision-backed OCR engine. It fails when neither an API key
// nor service-account credentials are configured, and validates credential
// JSON up front so bad key material surfaces at startup.
func New(ctx context.Context, cfg Config) (*Service, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		if _, err := google.CredentialsFromJSON(ctx, []byte(cfg.CredentialsJSON), vision.CloudVisionScope); err != nil {
			return nil, fmt.Errorf("google vision: invalid service account credentials: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, fmt.Errorf("google vision: an API key or service account credentials are required")
	}

	svc, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google vision: create client: %w", err)
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}

	return &Service{
		svc:       svc,
		languages: cfg.Languages,
		limiter:   rate.NewLimiter(rate.Limit(rps), defaultBurst),
	}, nil
}

func (s *Service) Name() string { return "vision" }

// Recognize submits one image and returns the full detected text.
func (s *Service) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return ocr.Result{}, err
	}

	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image:    &vision.Image{Content: base64.StdEncoding.EncodeToString(in.Data)},
			Features: []*vision.Feature{{Type: "TEXT_DETECTION"}},
		}},
	}
	if len(s.languages) > 0 {
		req.Requests[0].ImageContext = &vision.ImageContext{LanguageHints: s.languages}
	}

	resp, err := s.svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("google vision: annotate: %w", err)
	}
	return resultFromResponse(resp)
}

// resultFromResponse extracts the detected text from a batch response. The
// first annotation holds the full text; subsequent entries are word-level.
func resultFromResponse(resp *vision.BatchAnnotateImagesResponse) (ocr.Result, error) {
	if resp == nil || len(resp.Responses) == 0 {
		return ocr.Result{}, fmt.Errorf("google vision: empty response")
	}
	r := resp.Responses[0]
	if r.Error != nil {
		return ocr.Result{}, fmt.Errorf("google vision: %s", r.Error.Message)
	}
	if len(r.TextAnnotations) == 0 {
		return ocr.Result{}, nil
	}
	return ocr.Result{Text: strings.TrimSpace(r.TextAnnotations[0].Description)}, nil
}
