package storage

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// Error constants for storage layer
var (
	ErrObjectNotFound = errors.New("object not found in storage")
	ErrObjectTooLarge = errors.New("object exceeds fetch limit")
)

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// GetObject reads an object back into memory together with its content type.
	// Objects above the configured size cap fail with ErrObjectTooLarge.
	GetObject(ctx context.Context, objectKey string) ([]byte, string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

var extensions = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/webp":      "webp",
	"image/heic":      "heic",
	"image/gif":       "gif",
	"video/mp4":       "mp4",
	"video/quicktime": "mov",
	"video/webm":      "webm",
	"video/x-msvideo": "avi",
}

// ObjectKey builds "<prefix>/<owner>/<uuid>.<ext>" for a new upload.
func ObjectKey(prefix string, ownerID primitive.ObjectID, contentType string) string {
	name := uuid.NewString()
	if ext := extensionFor(contentType); ext != "" {
		name += "." + ext
	}
	return path.Join(prefix, ownerID.Hex(), name)
}

func extensionFor(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ext, ok := extensions[ct]; ok {
		return ext
	}
	if _, sub, ok := strings.Cut(ct, "/"); ok && sub != "" && !strings.ContainsAny(sub, "/.+ ") {
		return sub
	}
	return ""
}

// OwnedBy reports whether objectKey was issued to ownerID under prefix.
func OwnedBy(objectKey, prefix string, ownerID primitive.ObjectID) bool {
	return strings.HasPrefix(objectKey, path.Join(prefix, ownerID.Hex())+"/")
}
