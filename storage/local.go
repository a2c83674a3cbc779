package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type LocalUploaderConfig struct {
	Dir        string // directory on disk, e.g. public/uploads
	PublicPath string // URL prefix the directory is served under, e.g. /public/uploads
}

type localUploader struct {
	dir        string
	publicPath string
}

func NewLocalUploader(cfg LocalUploaderConfig) (FileUploader, error) {
	if cfg.Dir == "" || cfg.PublicPath == "" {
		return nil, errors.New("invalid local uploader configuration: dir and public path are required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", cfg.Dir, err)
	}
	return &localUploader{
		dir:        cfg.Dir,
		publicPath: strings.TrimSuffix(cfg.PublicPath, "/"),
	}, nil
}

func (u *localUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := u.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir for key %s: %w", key, err)
	}

	f, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("failed to create file for key %s: %w", key, err)
	}
	if _, err := io.Copy(f, reader); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return nil, fmt.Errorf("failed to write file for key %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close file for key %s: %w", key, err)
	}

	return &UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *localUploader) Delete(ctx context.Context, key string) error {
	target, err := u.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file for key %s: %w", key, err)
	}
	return nil
}

func (u *localUploader) GetPublicURL(key string) string {
	if key == "" {
		return ""
	}
	return u.publicPath + "/" + strings.TrimPrefix(path.Clean("/"+key), "/")
}

// resolve maps a key to a path inside dir, rejecting traversal.
func (u *localUploader) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", errors.New("empty upload key")
	}
	return filepath.Join(u.dir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
