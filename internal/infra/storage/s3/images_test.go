package s3

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImages(t *testing.T, ttl time.Duration) *Images {
	t.Helper()
	img, err := NewImages(Options{
		Endpoint:      "http://localhost:9000",
		AccessKey:     "minio",
		SecretKey:     "minio123",
		Bucket:        "villas",
		PublicBaseURL: "https://cdn.example.com/",
		PresignTTL:    ttl,
	}, nil)
	require.NoError(t, err)
	return img
}

func TestResolvePublic(t *testing.T) {
	img := newTestImages(t, 0)
	ctx := context.Background()

	got, err := img.Resolve(ctx, "villas/kathu/cover.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/villas/villas/kathu/cover.jpg", got)

	got, err = img.Resolve(ctx, "s3://villas/kathu/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/villas/kathu/1.jpg", got)

	got, err = img.Resolve(ctx, "https://images.example.com/x.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://images.example.com/x.jpg", got)

	_, err = img.Resolve(ctx, "s3://other-bucket/x.jpg")
	assert.Error(t, err)
}

func TestResolvePresigned(t *testing.T) {
	img := newTestImages(t, 15*time.Minute)

	got, err := img.Resolve(context.Background(), "kathu/cover.jpg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "http://localhost:9000/villas/kathu/cover.jpg?"), got)
	assert.Contains(t, got, "X-Amz-Signature=")
	assert.Contains(t, got, "X-Amz-Expires=900")
}

func TestNewImagesValidates(t *testing.T) {
	_, err := NewImages(Options{Bucket: "b"}, nil)
	assert.Error(t, err)
	_, err = NewImages(Options{Endpoint: "localhost:9000"}, nil)
	assert.Error(t, err)
}

func TestUploadRequiresReaderAndKey(t *testing.T) {
	img := newTestImages(t, 0)
	_, err := img.Upload(context.Background(), "k", nil, 0, "")
	assert.Error(t, err)
	_, err = img.Upload(context.Background(), " / ", strings.NewReader("x"), 1, "")
	assert.Error(t, err)
}
