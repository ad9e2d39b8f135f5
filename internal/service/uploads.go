package service

import (
	"alcyxob/sportlink/internal/ai"
	"alcyxob/sportlink/internal/domain"
	"alcyxob/sportlink/internal/repository"
	"alcyxob/sportlink/internal/storage"
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// --- Error Definitions ---
var (
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrUploadNotFound         = errors.New("upload not found")
	ErrUploadURLError         = errors.New("failed to generate upload URL")
	ErrUploadFetchFailed      = errors.New("failed to read uploaded file")
	ErrUploadInUse            = errors.New("upload is already attached to another record")
)

// UploadURLResponse structure for returning URL and object key
type UploadURLResponse struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"` // The key the client reports back when the upload is done
	ExpiresAt time.Time `json:"expiresAt"`
}

// uploadPolicy maps a purpose onto its bucket prefix and media family.
var uploadPolicy = map[domain.UploadPurpose]struct {
	prefix string
	family string
}{
	domain.PurposeWorkoutVideo: {"videos", "video/"},
	domain.PurposePhysique:     {"physique", "image/"},
	domain.PurposePostImage:    {"posts", "image/"},
	domain.PurposeAvatar:       {"avatars", "image/"},
}

// uploadManager hands out presigned upload URLs and later resolves the
// returned object keys back to uploads the caller owns.
type uploadManager struct {
	uploadRepo  repository.UploadRepository
	fileStorage storage.FileStorage
	logger      *zap.Logger
}

func newUploadManager(uploadRepo repository.UploadRepository, fileStorage storage.FileStorage, logger *zap.Logger) *uploadManager {
	return &uploadManager{uploadRepo: uploadRepo, fileStorage: fileStorage, logger: logger}
}

func (m *uploadManager) RequestURL(ctx context.Context, ownerID primitive.ObjectID, purpose domain.UploadPurpose, contentType string) (*UploadURLResponse, error) {
	policy, ok := uploadPolicy[purpose]
	if !ok {
		return nil, invalid("unknown upload purpose %q", purpose)
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if !strings.HasPrefix(contentType, policy.family) || len(contentType) == len(policy.family) {
		return nil, ErrUnsupportedContentType
	}

	objectKey := storage.ObjectKey(policy.prefix, ownerID, contentType)
	uploadURL, err := m.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		m.logger.Error("presign upload failed", zap.String("key", objectKey), zap.Error(err))
		return nil, ErrUploadURLError
	}

	upload := &domain.Upload{
		OwnerID:     ownerID,
		Purpose:     purpose,
		S3ObjectKey: objectKey,
		ContentType: contentType,
	}
	if _, err := m.uploadRepo.Create(ctx, upload); err != nil {
		return nil, err
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
		ExpiresAt: time.Now().UTC().Add(storage.DefaultPresignedURLExpiry),
	}, nil
}

// Resolve returns the upload behind objectKey if ownerID requested it for purpose.
func (m *uploadManager) Resolve(ctx context.Context, ownerID primitive.ObjectID, purpose domain.UploadPurpose, objectKey string) (*domain.Upload, error) {
	objectKey = strings.TrimSpace(objectKey)
	if objectKey == "" {
		return nil, invalid("objectKey is required")
	}
	policy := uploadPolicy[purpose]
	if !storage.OwnedBy(objectKey, policy.prefix, ownerID) {
		return nil, ErrUploadNotFound
	}
	upload, err := m.uploadRepo.GetByObjectKey(ctx, objectKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUploadNotFound
		}
		return nil, err
	}
	if upload.OwnerID != ownerID || upload.Purpose != purpose {
		return nil, ErrUploadNotFound
	}
	if upload.AttachedAt != nil {
		return nil, ErrUploadInUse
	}
	return upload, nil
}

// Claim attaches the upload to the record about to be stored. Only one
// caller wins a key; the others get ErrUploadInUse.
func (m *uploadManager) Claim(ctx context.Context, upload *domain.Upload) error {
	err := m.uploadRepo.Attach(ctx, upload.S3ObjectKey, time.Now().UTC())
	switch {
	case errors.Is(err, repository.ErrUpdateFailed):
		return ErrUploadInUse
	case errors.Is(err, repository.ErrNotFound):
		return ErrUploadNotFound
	}
	return err
}

// Release undoes Claim when the record could not be stored.
func (m *uploadManager) Release(ctx context.Context, key string) {
	if err := m.uploadRepo.Detach(ctx, key); err != nil {
		m.logger.Warn("release upload failed", zap.String("key", key), zap.Error(err))
	}
}

// Fetch loads the uploaded bytes as model input.
func (m *uploadManager) Fetch(ctx context.Context, upload *domain.Upload) (ai.Media, error) {
	data, contentType, err := m.fileStorage.GetObject(ctx, upload.S3ObjectKey)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrObjectNotFound):
			return ai.Media{}, ErrUploadNotFound
		case errors.Is(err, storage.ErrObjectTooLarge):
			return ai.Media{}, invalid("file is too large to analyze")
		}
		m.logger.Error("fetch upload failed", zap.String("key", upload.S3ObjectKey), zap.Error(err))
		return ai.Media{}, ErrUploadFetchFailed
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = upload.ContentType
	}
	return ai.Media{MIMEType: contentType, Data: data}, nil
}

// DownloadURL presigns a GET for key; an empty key or a failure yields "".
func (m *uploadManager) DownloadURL(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}
	url, err := m.fileStorage.GeneratePresignedDownloadURL(ctx, key, storage.DefaultPresignedURLExpiry)
	if err != nil {
		m.logger.Warn("presign download failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	return url
}

// Remove deletes the object and its metadata. Failures are logged only.
func (m *uploadManager) Remove(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := m.fileStorage.DeleteObject(ctx, key); err != nil {
		m.logger.Warn("delete object failed", zap.String("key", key), zap.Error(err))
	}
	if err := m.uploadRepo.DeleteByObjectKey(ctx, key); err != nil && !errors.Is(err, repository.ErrNotFound) {
		m.logger.Warn("delete upload metadata failed", zap.String("key", key), zap.Error(err))
	}
}
