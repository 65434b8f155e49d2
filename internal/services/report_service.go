package services

import (
	"context"

	"memberhub_backend/internal/logger"
	"memberhub_backend/internal/services/dto"
	"memberhub_backend/internal/storage"
	"memberhub_backend/pkg/apperrors"
)

type ReportService interface {
	// GetStorageUsage walks the writable buckets and the read-only content
	// buckets and reports object count and byte size per bucket.
	GetStorageUsage(ctx context.Context) (*dto.StorageUsageResponse, error)
}

type ReportServiceImpl struct {
	storage storage.Storage
}

func NewReportService(store storage.Storage) ReportService {
	return &ReportServiceImpl{storage: store}
}

func (s *ReportServiceImpl) GetStorageUsage(ctx context.Context) (*dto.StorageUsageResponse, error) {
	writable := []string{
		storage.BucketUserUploads,
		storage.BucketUserAvatars,
		storage.BucketPaymentReceipts,
	}

	response := &dto.StorageUsageResponse{
		Buckets: make([]dto.BucketUsage, 0, len(writable)+len(storage.ContentBuckets)),
	}

	appendBucket := func(bucket string, readOnly bool) error {
		count, size, err := s.storage.ListUsage(ctx, bucket)
		if err != nil {
			// A missing content bucket is an empty line, not a failed report.
			if readOnly {
				logger.WithError("skipping unreadable content bucket", err, "bucket", bucket)
				response.Buckets = append(response.Buckets, dto.BucketUsage{Bucket: bucket, ReadOnly: true})
				return nil
			}
			return err
		}
		response.Buckets = append(response.Buckets, dto.BucketUsage{
			Bucket:      bucket,
			ObjectCount: count,
			TotalSize:   size,
			ReadOnly:    readOnly,
		})
		response.TotalSize += size
		return nil
	}

	for _, bucket := range writable {
		if err := appendBucket(bucket, false); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}
	for _, bucket := range storage.ContentBuckets {
		if err := appendBucket(bucket, true); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	return response, nil
}
