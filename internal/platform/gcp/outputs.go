package gcp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/atmohq/atmo-backend/internal/platform/logger"
)

// OutputStore persists rendered documents to object storage.
type OutputStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	Close() error
}

type outputStore struct {
	log           *logger.Logger
	client        *storage.Client
	bucket        string
	prefix        string
	mode          ObjectStorageMode
	emulatorHost  string
	publicBaseURL string
}

// NewOutputStore returns (nil, nil) when no bucket is configured.
func NewOutputStore(ctx context.Context, log *logger.Logger, cfg OutputStoreConfig) (OutputStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, nil
	}
	mode, err := cfg.ResolveMode()
	if err != nil {
		return nil, fmt.Errorf("resolve object storage config: %w", err)
	}

	var opts []option.ClientOption
	host := strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/")
	switch mode {
	case ObjectStorageModeGCSEmulator:
		_ = os.Setenv("STORAGE_EMULATOR_HOST", host)
		opts = append(opts, option.WithoutAuthentication())
	default:
		opts = append(clientOptions(cfg.CredentialsJSON), option.WithScopes(storage.ScopeReadWrite))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	s := &outputStore{
		log:           log.With("service", "OutputStore"),
		client:        client,
		bucket:        bucket,
		prefix:        strings.Trim(strings.TrimSpace(cfg.Prefix), "/"),
		mode:          mode,
		emulatorHost:  host,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/"),
	}
	s.log.Info("Object storage initialized", "mode", mode, "bucket", bucket)
	return s, nil
}

func (s *outputStore) objectKey(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if s.prefix == "" {
		return key
	}
	return path.Join(s.prefix, key)
}

// Upload writes data and returns the object's public URL.
func (s *outputStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	objKey := s.objectKey(key)
	w := s.client.Bucket(s.bucket).Object(objKey).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return publicURL(s.mode, s.publicBaseURL, s.emulatorHost, s.bucket, objKey), nil
}

func (s *outputStore) Close() error { return s.client.Close() }

func publicURL(mode ObjectStorageMode, publicBase, emulatorHost, bucket, key string) string {
	if mode == ObjectStorageModeGCSEmulator {
		base := publicBase
		if base == "" {
			base = emulatorHost
		}
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(bucket), url.PathEscape(key))
	}
	if publicBase != "" {
		return fmt.Sprintf("%s/%s/%s", publicBase, bucket, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key)
}
