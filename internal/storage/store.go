package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gcs "cloud.google.com/go/storage"
)

// ObjectStore moves media between the local working directory and the object
// store. Uploads are unconditional; re-running a row overwrites prior output
// under the same name.
type ObjectStore interface {
	Download(ctx context.Context, bucket, object, dest string) error
	Upload(ctx context.Context, bucket, object, src string) (string, error)
}

// SplitObjectURL splits a row's video_url into bucket and object path: the
// first path segment is the bucket, the remainder the object.
func SplitObjectURL(videoURL string) (bucket, object string, err error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(videoURL), "gs://")
	bucket, object, found := strings.Cut(trimmed, "/")
	if !found || bucket == "" || object == "" {
		return "", "", fmt.Errorf("video url %q must be bucket/path", videoURL)
	}
	return bucket, object, nil
}

// GCSStore implements ObjectStore on Google Cloud Storage.
type GCSStore struct {
	client *gcs.Client
}

// NewGCSStore constructs a storage client using application default
// credentials.
func NewGCSStore(ctx context.Context) (*GCSStore, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSStore{client: client}, nil
}

// Download copies bucket/object to the local path dest.
func (s *GCSStore) Download(ctx context.Context, bucket, object, dest string) error {
	reader, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("open gs://%s/%s: %w", bucket, object, err)
	}
	defer reader.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create download directory: %w", err)
	}
	file, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("download gs://%s/%s: %w", bucket, object, err)
	}
	return nil
}

// Upload copies the local file src to bucket/object and returns the gs://
// path of the uploaded object.
func (s *GCSStore) Upload(ctx context.Context, bucket, object, src string) (string, error) {
	file, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", src, err)
	}
	defer file.Close()

	writer := s.client.Bucket(bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(writer, file); err != nil {
		writer.Close()
		return "", fmt.Errorf("upload gs://%s/%s: %w", bucket, object, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize gs://%s/%s: %w", bucket, object, err)
	}
	return ObjectPath(bucket, object), nil
}

// ObjectPath renders the canonical gs:// path for a stored object.
func ObjectPath(bucket, object string) string {
	return fmt.Sprintf("gs://%s/%s", bucket, object)
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}

var _ ObjectStore = (*GCSStore)(nil)
