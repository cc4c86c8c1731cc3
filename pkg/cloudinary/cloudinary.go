package cloudinary

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
)

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Service implements the FileUploader interface using Cloudinary.
type Service struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New constructs a Cloudinary service instance.
func New(cfg Config, logger zerolog.Logger) (*Service, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &Service{
		client: cld,
		folder: cfg.Folder,
		logger: logger.With().Str("component", "cloudinary").Logger(),
	}, nil
}

// Upload stores the document under the given path and returns a secure URL.
// Path segments (e.g. "waec-results/42") are preserved so each document kind
// stays namespaced per user.
func (s *Service) Upload(ctx context.Context, path string, reader io.Reader) (string, error) {
	folder := strings.Trim(s.folder, "/")
	publicID := buildPublicID(path)

	params := uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "auto",
	}

	result, err := s.client.Upload.Upload(ctx, reader, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}

	s.logger.Info().Str("public_id", result.PublicID).Msg("document uploaded to cloudinary")

	return result.SecureURL, nil
}

func buildPublicID(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	cleaned := make([]string, 0, len(segments))
	for _, segment := range segments {
		if sanitized := sanitizeSegment(segment); sanitized != "" {
			cleaned = append(cleaned, sanitized)
		}
	}

	if len(cleaned) == 0 {
		return fmt.Sprintf("upload-%d", time.Now().Unix())
	}

	return strings.Join(cleaned, "/")
}

func sanitizeSegment(segment string) string {
	sanitized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, segment)

	return strings.Trim(sanitized, "-")
}
