package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/streck/storefront-api/internal/core/domain"
	"github.com/streck/storefront-api/internal/core/ports"
)

// UploadService validates image files and forwards them to the media host.
type UploadService struct {
	host    ports.MediaHost
	auditor ports.UploadAuditor // optional
	log     zerolog.Logger
}

func NewUploadService(host ports.MediaHost, auditor ports.UploadAuditor, log zerolog.Logger) *UploadService {
	return &UploadService{host: host, auditor: auditor, log: log}
}

// Upload checks every file before forwarding any of them, so a bad file in
// the batch never leaves partial uploads behind.
func (s *UploadService) Upload(ctx context.Context, files []ports.UploadFile) ([]domain.HostedImage, error) {
	if len(files) == 0 {
		return nil, &domain.ValidationError{Message: "No files provided", Cause: domain.ErrNoFiles}
	}
	for _, f := range files {
		if err := checkFile(f); err != nil {
			return nil, err
		}
	}

	hosted := make([]domain.HostedImage, 0, len(files))
	for _, f := range files {
		img, err := s.forward(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrUploadFailed, f.Filename, err)
		}
		hosted = append(hosted, *img)

		if s.auditor != nil {
			s.auditor.Record(domain.UploadRecord{
				Filename:    f.Filename,
				ContentType: f.ContentType,
				Size:        f.Size,
				Image:       *img,
				UploadedAt:  time.Now().UTC(),
			})
		}
	}

	s.log.Info().Int("count", len(hosted)).Msg("images uploaded")
	return hosted, nil
}

func (s *UploadService) forward(ctx context.Context, f ports.UploadFile) (*domain.HostedImage, error) {
	r, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer r.Close()

	return s.host.Upload(ctx, r, f.Filename)
}

func checkFile(f ports.UploadFile) error {
	if !strings.HasPrefix(strings.ToLower(f.ContentType), "image/") {
		return &domain.ValidationError{
			Message: fmt.Sprintf("File %s is not an image", f.Filename),
			Cause:   domain.ErrUnsupportedMedia,
		}
	}
	if f.Size > domain.MaxUploadBytes {
		return &domain.ValidationError{
			Message: fmt.Sprintf("File %s exceeds the 5MB limit", f.Filename),
			Cause:   domain.ErrFileTooLarge,
		}
	}
	return nil
}
