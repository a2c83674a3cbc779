package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type UploadResult struct {
	Key      string
	Location string // public path or URL stored in the games table
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// NewImageKey builds a collision-free object key that keeps the original
// file extension.
func NewImageKey(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if len(ext) > 10 {
		ext = ""
	}
	return "games/" + uuid.NewString() + ext
}
