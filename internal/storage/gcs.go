package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore keeps documents as objects in a single bucket.
type GCSStore struct {
	bucket objectBucket
}

// objectBucket is the part of a GCS bucket the store uses. Missing objects
// are reported as gcs.ErrObjectNotExist.
type objectBucket interface {
	NewWriter(ctx context.Context, name, contentType string) io.WriteCloser
	NewReader(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

// NewGCSStore connects with credentialsJSON when given, otherwise with
// application default credentials.
func NewGCSStore(ctx context.Context, bucket, credentialsJSON string) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("GCS_BUCKET is required")
	}

	var opts []option.ClientOption
	if strings.TrimSpace(credentialsJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}

	handle := client.Bucket(bucket)
	if _, err := handle.Attrs(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("gcs bucket %q not accessible: %w", bucket, err)
	}
	return &GCSStore{bucket: &gcsBucket{client: client, handle: handle}}, nil
}

func (s *GCSStore) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	name, err := cleanKey(key)
	if err != nil {
		return err
	}
	wc := s.bucket.NewWriter(ctx, name, contentType)
	if _, err := io.Copy(wc, r); err != nil {
		wc.Close()
		return fmt.Errorf("upload %s: %w", key, err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("finish upload %s: %w", key, err)
	}
	return nil
}

func (s *GCSStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	name, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	rc, err := s.bucket.NewReader(ctx, name)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download %s: %w", key, err)
	}
	return rc, nil
}

// Delete removes the object. A missing object is not an error.
func (s *GCSStore) Delete(ctx context.Context, key string) error {
	name, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := s.bucket.Delete(ctx, name); err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *GCSStore) Close() error { return s.bucket.Close() }

type gcsBucket struct {
	client *gcs.Client
	handle *gcs.BucketHandle
}

func (b *gcsBucket) NewWriter(ctx context.Context, name, contentType string) io.WriteCloser {
	w := b.handle.Object(name).NewWriter(ctx)
	w.ContentType = contentType
	return w
}

func (b *gcsBucket) NewReader(ctx context.Context, name string) (io.ReadCloser, error) {
	return b.handle.Object(name).NewReader(ctx)
}

func (b *gcsBucket) Delete(ctx context.Context, name string) error {
	return b.handle.Object(name).Delete(ctx)
}

func (b *gcsBucket) Close() error { return b.client.Close() }
