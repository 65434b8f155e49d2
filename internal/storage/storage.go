package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Bucket names. Paths passed to Storage are "<bucket>/<object key>".
const (
	BucketUserUploads     = "user-uploads"     // payment slips
	BucketUserAvatars     = "user-avatars"
	BucketPaymentReceipts = "payment-receipts"
)

// ContentBuckets are consumed read-only, for the usage report.
var ContentBuckets = []string{"videos", "pdfs", "images", "audio", "documents"}

// Storage defines the interface for object storage operations.
type Storage interface {
	// Save stores an object at the given path
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error

	// Get retrieves an object from the given path
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at the given path
	Delete(ctx context.Context, path string) error

	// Exists checks if an object exists at the given path
	Exists(ctx context.Context, path string) (bool, error)

	// GetURL returns a public URL for the object
	GetURL(ctx context.Context, path string) (string, error)

	// GetSignedURL returns a temporary signed URL for private objects
	GetSignedURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	// GetSize returns the size of an object in bytes
	GetSize(ctx context.Context, path string) (int64, error)

	// ListUsage returns object count and total size under a prefix (bucket)
	ListUsage(ctx context.Context, prefix string) (count int64, size int64, err error)
}

// Config holds storage configuration.
type Config struct {
	Type       string // local, s3
	BasePath   string // For local storage
	BaseURL    string // Public URL base
	Bucket     string // Root bucket/container for S3-compatible stores
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string // S3-compatible endpoint (Supabase storage, R2, MinIO)
	UseSSL     bool
	PublicRead bool
}

// NewStorage creates a storage instance based on configuration.
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
