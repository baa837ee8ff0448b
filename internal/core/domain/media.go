package domain

import "time"

// MaxUploadBytes caps each uploaded file.
const MaxUploadBytes = 5 << 20

// HostedImage is what the media host returns for one stored file.
type HostedImage struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Bytes    int    `json:"bytes"`
}

// UploadRecord is one audit entry for a successfully hosted file.
type UploadRecord struct {
	Filename    string
	ContentType string
	Size        int64
	Image       HostedImage
	UploadedAt  time.Time
}
