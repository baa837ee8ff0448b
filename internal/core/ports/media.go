package ports

import (
	"context"
	"io"

	"github.com/streck/storefront-api/internal/core/domain"
)

// MediaHost stores one file with the external media-hosting service.
type MediaHost interface {
	Upload(ctx context.Context, r io.Reader, filename string) (*domain.HostedImage, error)
}

// UploadAuditor records hosted files. Implementations must not block callers.
type UploadAuditor interface {
	Record(rec domain.UploadRecord)
}

// UploadFile is one multipart part handed to the upload service.
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

type UploadService interface {
	Upload(ctx context.Context, files []UploadFile) ([]domain.HostedImage, error)
}
