package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewImageKeyKeepsExtension(t *testing.T) {
	a := NewImageKey("Photo.PNG")
	b := NewImageKey("Photo.PNG")

	assert.True(t, strings.HasPrefix(a, "games/"))
	assert.True(t, strings.HasSuffix(a, ".png"))
	assert.NotEqual(t, a, b)
	assert.False(t, strings.Contains(NewImageKey("noext"), "."))
}

func TestLocalUploaderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	u, err := NewLocalUploader(LocalUploaderConfig{Dir: dir, PublicPath: "/public/uploads/"})
	require.NoError(t, err)

	res, err := u.Upload(context.Background(), "games/a.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/public/uploads/games/a.png", res.Location)

	data, err := os.ReadFile(filepath.Join(dir, "games", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, u.Delete(context.Background(), "games/a.png"))
	_, err = os.Stat(filepath.Join(dir, "games", "a.png"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	require.NoError(t, u.Delete(context.Background(), "games/a.png"))
}

func TestLocalUploaderStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	u, err := NewLocalUploader(LocalUploaderConfig{Dir: dir, PublicPath: "/public/uploads"})
	require.NoError(t, err)

	_, err = u.Upload(context.Background(), "../../escape.txt", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	assert.NoError(t, err)

	_, err = u.Upload(context.Background(), "", "text/plain", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestCloudflareR2Config(t *testing.T) {
	_, err := NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{AccountID: "acc"})
	assert.Error(t, err)

	cfg := CloudflareR2UploaderConfig{
		AccountID:       "acc",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "lanoel",
		PublicBaseURL:   "https://cdn.example.com/media",
	}
	require.True(t, cfg.Enabled())

	u, err := NewCloudflareR2Uploader(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/media/games/a.png", u.GetPublicURL("games/a.png"))
	assert.Empty(t, u.GetPublicURL(""))
}
