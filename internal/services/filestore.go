package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
)

// FileStoreService wraps the GCS bucket holding uploaded answer files, note
// attachments and generated reports. Reads go out as time-limited signed URLs.
type FileStoreService interface {
	Upload(ctx context.Context, key string, file io.Reader) error
	// Delete is idempotent: a missing object is not an error, so retried
	// reassignment cleanups cannot fail on work already done.
	Delete(ctx context.Context, key string) error
	SignedURL(key string) (string, error)
}

type fileStoreService struct {
	log           *logger.Logger
	storageClient *storage.Client
	bucketName    string
	urlTTL        time.Duration
}

func NewFileStoreService(log *logger.Logger) (FileStoreService, error) {
	serviceLog := log.With("service", "FileStoreService")
	bucket := os.Getenv("GCS_BUCKET_NAME")
	if bucket == "" {
		return nil, fmt.Errorf("missing env var GCS_BUCKET_NAME")
	}
	saPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")
	ctx := context.Background()
	var stClient *storage.Client
	var err error
	if saPath != "" {
		stClient, err = storage.NewClient(ctx, option.WithCredentialsFile(saPath), option.WithScopes(storage.ScopeReadWrite))
	} else {
		serviceLog.Warn("GOOGLE_APPLICATION_CREDENTIALS_JSON not set, falling back to ADC")
		stClient, err = storage.NewClient(ctx, option.WithScopes(storage.ScopeReadWrite))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &fileStoreService{
		log:           serviceLog,
		storageClient: stClient,
		bucketName:    bucket,
		urlTTL:        15 * time.Minute,
	}, nil
}

func (fs *fileStoreService) Upload(ctx context.Context, key string, file io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	w := fs.storageClient.Bucket(fs.bucketName).Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close writer for %q: %w", key, err)
	}
	return nil
}

func (fs *fileStoreService) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	o := fs.storageClient.Bucket(fs.bucketName).Object(key)
	if err := o.Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete object %q: %w", key, err)
	}
	return nil
}

func (fs *fileStoreService) SignedURL(key string) (string, error) {
	url, err := fs.storageClient.Bucket(fs.bucketName).SignedURL(key, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(fs.urlTTL),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for %q: %w", key, err)
	}
	return url, nil
}
