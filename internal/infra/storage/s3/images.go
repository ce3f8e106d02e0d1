package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"villafinder/internal/app/policies"
)

const defaultRegion = "us-east-1"

// Options configure the image bucket. With PresignTTL set, Resolve signs GET
// URLs instead of pointing at a publicly readable bucket.
type Options struct {
	Endpoint      string
	UseSSL        bool
	AccessKey     string
	SecretKey     string
	Region        string
	Bucket        string
	PublicBaseURL string
	PresignTTL    time.Duration
}

// Images stores villa photos in an S3-compatible bucket and resolves stored
// object keys into browser URLs.
type Images struct {
	bucket         string
	publicBaseURL  string
	presignTTL     time.Duration
	client         *minio.Client
	logger         *slog.Logger
	bucketInitOnce sync.Once
	bucketInitErr  error
}

func NewImages(opts Options, logger *slog.Logger) (*Images, error) {
	cleanEndpoint := strings.TrimSpace(opts.Endpoint)
	if cleanEndpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	region := strings.TrimSpace(opts.Region)
	if region == "" {
		region = defaultRegion
	}

	minioClient, err := minio.New(parseEndpoint(cleanEndpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(opts.AccessKey), strings.TrimSpace(opts.SecretKey), ""),
		Secure: opts.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}

	base := strings.TrimSpace(opts.PublicBaseURL)
	if base == "" {
		base = cleanEndpoint
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Images{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(base, "/"),
		presignTTL:    opts.PresignTTL,
		client:        minioClient,
		logger:        logger,
	}, nil
}

// Resolve maps an object key, or an s3://bucket/key reference, to a URL.
// http(s) references pass through untouched.
func (c *Images) Resolve(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || isAbsoluteURL(ref) {
		return ref, nil
	}
	key := c.keyFor(ref)
	if key == "" {
		return "", fmt.Errorf("s3: cannot resolve image reference %q", ref)
	}
	if c.presignTTL <= 0 {
		return c.objectURL(key), nil
	}
	signed, err := c.client.PresignedGetObject(ctx, c.bucket, key, c.presignTTL, nil)
	if err != nil {
		return "", fmt.Errorf("s3: presign %s: %w", key, err)
	}
	return signed.String(), nil
}

// Upload stores an image under key and returns the key to persist.
func (c *Images) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if reader == nil {
		return "", errors.New("s3: reader is required")
	}
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errors.New("s3: object key is required")
	}
	if err := c.ensureBucket(ctx); err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if size <= 0 {
		size = -1
	}
	_, err := c.client.PutObject(ctx, c.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		return "", fmt.Errorf("s3: put object: %w", err)
	}
	c.logger.Info("s3 upload completed", "bucket", c.bucket, "key", key)
	return key, nil
}

func (c *Images) ensureBucket(ctx context.Context) error {
	c.bucketInitOnce.Do(func() {
		exists, err := c.client.BucketExists(ctx, c.bucket)
		if err != nil {
			c.bucketInitErr = fmt.Errorf("s3: check bucket: %w", err)
			return
		}
		if exists {
			return
		}
		if err := c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			c.bucketInitErr = fmt.Errorf("s3: create bucket: %w", err)
			return
		}
		if c.presignTTL > 0 {
			return
		}
		if err := c.allowPublicRead(ctx); err != nil {
			c.bucketInitErr = err
		}
	})
	return c.bucketInitErr
}

func (c *Images) allowPublicRead(ctx context.Context) error {
	policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, c.bucket)
	if err := c.client.SetBucketPolicy(ctx, c.bucket, policy); err != nil {
		return fmt.Errorf("s3: set bucket policy: %w", err)
	}
	return nil
}

// keyFor strips an s3:// prefix naming this bucket. Other buckets are not
// resolvable.
func (c *Images) keyFor(ref string) string {
	if rest, ok := strings.CutPrefix(ref, "s3://"); ok {
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket != c.bucket {
			return ""
		}
		ref = key
	}
	return strings.Trim(ref, "/")
}

func (c *Images) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", c.publicBaseURL, c.bucket, key)
}

func isAbsoluteURL(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func parseEndpoint(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}

var _ policies.ImageResolver = (*Images)(nil)
