package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"memberhub_backend/internal/logger"
	"memberhub_backend/internal/models"
	"memberhub_backend/internal/repositories"
	"memberhub_backend/internal/services/dto"
	"memberhub_backend/internal/storage"
	"memberhub_backend/pkg/apperrors"
)

// Upload purposes, each mapping to a fixed bucket.
const (
	UploadUsagePaymentProof = "payment-proof"
	UploadUsageAvatar       = "avatar"
)

type UploadService interface {
	Upload(ctx context.Context, userID, usage, fileName, contentType string, size int64, reader io.Reader) (*dto.UploadResponse, error)
	GetUpload(userID string, isAdmin bool, id string) (*dto.UploadResponse, error)
	ListMyUploads(userID, usage string) ([]*dto.UploadResponse, error)
	DeleteUpload(ctx context.Context, userID string, isAdmin bool, id string) error
}

type UploadServiceImpl struct {
	uploadRepo   repositories.UploadRepository
	userRepo     repositories.UserRepository
	storage      storage.Storage
	maxSize      int64
	allowedTypes []string
}

func NewUploadService(
	uploadRepo repositories.UploadRepository,
	userRepo repositories.UserRepository,
	store storage.Storage,
	maxSize int64,
	allowedTypes []string,
) UploadService {
	return &UploadServiceImpl{
		uploadRepo:   uploadRepo,
		userRepo:     userRepo,
		storage:      store,
		maxSize:      maxSize,
		allowedTypes: allowedTypes,
	}
}

func (s *UploadServiceImpl) Upload(ctx context.Context, userID, usage, fileName, contentType string, size int64, reader io.Reader) (*dto.UploadResponse, error) {
	if size > s.maxSize {
		return nil, apperrors.ErrFileTooLarge
	}
	if !s.isAllowedType(contentType) {
		return nil, apperrors.ErrInvalidFileType
	}

	bucket := bucketForUsage(usage)
	if bucket == "" {
		return nil, apperrors.ErrInvalidOperation("upload", "unknown upload purpose: "+usage)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	path := fmt.Sprintf("%s/%s/%s%s", bucket, userID, uuid.New().String(), ext)

	if err := s.storage.Save(ctx, path, reader, contentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	upload := &models.Upload{
		UserID:      userID,
		Bucket:      bucket,
		Path:        path,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		Usage:       usage,
	}
	if err := s.uploadRepo.Create(upload); err != nil {
		// The object is already stored; drop it so the bucket does not
		// accumulate orphans.
		if delErr := s.storage.Delete(ctx, path); delErr != nil {
			logger.WithError("failed to clean up orphaned object", delErr, "path", path)
		}
		return nil, apperrors.InternalError(err)
	}

	// An avatar upload replaces the previous one on the profile.
	if usage == UploadUsageAvatar {
		if user, err := s.userRepo.FindByID(userID); err == nil {
			user.AvatarPath = strings.TrimPrefix(path, bucket+"/")
			if err := s.userRepo.Update(user); err != nil {
				logger.WithError("failed to update avatar path", err, "user_id", userID)
			}
		}
	}

	return s.buildUploadResponse(ctx, upload), nil
}

func (s *UploadServiceImpl) GetUpload(userID string, isAdmin bool, id string) (*dto.UploadResponse, error) {
	upload, err := s.uploadRepo.FindByID(id)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if !isAdmin && upload.UserID != userID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return s.buildUploadResponse(context.Background(), upload), nil
}

func (s *UploadServiceImpl) ListMyUploads(userID, usage string) ([]*dto.UploadResponse, error) {
	uploads, err := s.uploadRepo.FindUserUploads(userID, usage)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	responses := make([]*dto.UploadResponse, 0, len(uploads))
	for i := range uploads {
		responses = append(responses, s.buildUploadResponse(context.Background(), &uploads[i]))
	}
	return responses, nil
}

func (s *UploadServiceImpl) DeleteUpload(ctx context.Context, userID string, isAdmin bool, id string) error {
	upload, err := s.uploadRepo.FindByID(id)
	if err != nil {
		return apperrors.ErrNotFound(err)
	}
	if !isAdmin && upload.UserID != userID {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.storage.Delete(ctx, upload.Path); err != nil {
		logger.WithError("failed to delete object", err, "path", upload.Path)
	}
	return s.uploadRepo.Delete(id)
}

// ---------------- Helpers ----------------

func (s *UploadServiceImpl) isAllowedType(contentType string) bool {
	for _, t := range s.allowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

func bucketForUsage(usage string) string {
	switch usage {
	case UploadUsagePaymentProof:
		return storage.BucketUserUploads
	case UploadUsageAvatar:
		return storage.BucketUserAvatars
	default:
		return ""
	}
}

func (s *UploadServiceImpl) buildUploadResponse(ctx context.Context, upload *models.Upload) *dto.UploadResponse {
	resp := &dto.UploadResponse{
		ID:          upload.ID,
		Bucket:      upload.Bucket,
		Path:        upload.Path,
		FileName:    upload.FileName,
		ContentType: upload.ContentType,
		Size:        upload.Size,
		Usage:       upload.Usage,
	}
	if url, err := s.storage.GetSignedURL(ctx, upload.Path, time.Hour); err == nil {
		resp.URL = url
	}
	return resp
}
