package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresignProducesSignedUploadAndPublicURL(t *testing.T) {
	p := NewPresigner("https://cdn.example.com/", "https://upload.example.com", "ak", "secret", time.Minute)

	upload, err := p.Presign("videos", "intro.MP4")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(upload.ObjectName, "videos/"))
	assert.True(t, strings.HasSuffix(upload.ObjectName, ".mp4"))
	assert.True(t, strings.HasPrefix(upload.UploadURL, "https://upload.example.com/videos/"))
	assert.Contains(t, upload.UploadURL, "token=")
	assert.Equal(t, "https://cdn.example.com/"+upload.ObjectName, upload.PublicURL)
	assert.Equal(t, AccessKeyHeader, upload.AccessKeyField)
	assert.Equal(t, "ak", upload.AccessKey)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	p := NewPresigner("https://cdn.example.com", "https://upload.example.com", "ak", "secret", time.Minute)

	upload, err := p.Presign("", "clip.webm")
	require.NoError(t, err)

	err = p.Verify(upload.ObjectName+"x", upload.ExpiresAt.Unix(), tokenFrom(t, upload.UploadURL))
	assert.Error(t, err)

	err = p.Verify(upload.ObjectName, upload.ExpiresAt.Unix(), tokenFrom(t, upload.UploadURL))
	assert.NoError(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	p := NewPresigner("https://cdn.example.com", "https://upload.example.com", "ak", "secret", time.Minute)
	p.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	upload, err := p.Presign("", "clip.mp4")
	require.NoError(t, err)

	p.now = func() time.Time { return time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC) }
	err = p.Verify(upload.ObjectName, upload.ExpiresAt.Unix(), tokenFrom(t, upload.UploadURL))
	assert.Error(t, err)
}

func tokenFrom(t *testing.T, uploadURL string) string {
	t.Helper()
	idx := strings.LastIndex(uploadURL, "token=")
	require.GreaterOrEqual(t, idx, 0)
	return uploadURL[idx+len("token="):]
}
