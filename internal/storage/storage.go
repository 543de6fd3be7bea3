// Package storage keeps voucher PDF documents on local disk or in a Google
// Cloud Storage bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/batchledger/api/internal/config"
)

const (
	ProviderDisk = "disk"
	ProviderGCS  = "gcs"
)

// ErrNotFound is returned by Get when no document is stored under the key.
var ErrNotFound = errors.New("document not found")

// DocumentStore stores opaque documents under slash-separated keys.
type DocumentStore interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open returns the store selected by cfg.StorageProvider.
func Open(ctx context.Context, cfg *config.Config) (DocumentStore, error) {
	switch strings.ToLower(cfg.StorageProvider) {
	case "", ProviderDisk:
		return NewDiskStore(cfg.StorageDir)
	case ProviderGCS:
		return NewGCSStore(ctx, cfg.GCSBucket, cfg.GCSCredentialsJSON)
	}
	return nil, fmt.Errorf("unknown storage provider %q", cfg.StorageProvider)
}

// cleanKey rejects keys that could escape the store's root.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("invalid document key %q", key)
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("invalid document key %q", key)
	}
	return cleaned, nil
}
