// Package images stores product photos in an S3-compatible bucket.
package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/electrostore/electrostore/internal/observability"
)

var ErrUnsupportedType = errors.New("unsupported image type")

var extensionsByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

type objectClient interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
}

type Store struct {
	client    objectClient
	bucket    string
	publicURL string
	newID     func() uuid.UUID
}

func NewStore(cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: observability.WrapRoundTripper(http.DefaultTransport),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}
	return newStore(client, cfg.Bucket, cfg.PublicURL), nil
}

func newStore(client objectClient, bucket, publicURL string) *Store {
	return &Store{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		newID:     uuid.New,
	}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", s.bucket, err)
	}
	return nil
}

// Upload writes one product image and returns its public URL.
func (s *Store) Upload(ctx context.Context, productID uuid.UUID, contentType string, size int64, r io.Reader) (string, error) {
	ext, ok := ImageExtension(contentType)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}

	key := ObjectKey(productID, s.newID(), ext)
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  normalizeContentType(contentType),
		CacheControl: "public, max-age=31536000, immutable",
	}); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return s.publicURL + "/" + key, nil
}

// ObjectKey is products/<product-id>/<image-id><ext>.
func ObjectKey(productID, imageID uuid.UUID, ext string) string {
	return path.Join("products", productID.String(), imageID.String()+ext)
}

// ImageExtension maps an accepted image content type to a file extension.
func ImageExtension(contentType string) (string, bool) {
	ext, ok := extensionsByType[normalizeContentType(contentType)]
	return ext, ok
}

func normalizeContentType(contentType string) string {
	mediaType, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}
