package repositories

import (
	"errors"

	"gorm.io/gorm"

	"memberhub_backend/internal/models"
)

var ErrUploadNotFound = errors.New("upload not found")

type UploadRepository interface {
	Create(upload *models.Upload) error
	FindByID(id string) (*models.Upload, error)
	FindByPath(path string) (*models.Upload, error)
	FindUserUploads(userID, usage string) ([]models.Upload, error)
	Delete(id string) error
	BucketUsage(bucket string) (count int64, size int64, err error)
}

type UploadRepositoryImpl struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &UploadRepositoryImpl{db: db}
}

func (r *UploadRepositoryImpl) Create(upload *models.Upload) error {
	return r.db.Create(upload).Error
}

func (r *UploadRepositoryImpl) FindByID(id string) (*models.Upload, error) {
	var upload models.Upload
	err := r.db.First(&upload, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUploadNotFound
		}
		return nil, err
	}
	return &upload, nil
}

func (r *UploadRepositoryImpl) FindByPath(path string) (*models.Upload, error) {
	var upload models.Upload
	err := r.db.First(&upload, "path = ?", path).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUploadNotFound
		}
		return nil, err
	}
	return &upload, nil
}

func (r *UploadRepositoryImpl) FindUserUploads(userID, usage string) ([]models.Upload, error) {
	query := r.db.Where("user_id = ?", userID)
	if usage != "" {
		query = query.Where("usage = ?", usage)
	}

	var uploads []models.Upload
	err := query.Order("created_at DESC").Find(&uploads).Error
	return uploads, err
}

func (r *UploadRepositoryImpl) Delete(id string) error {
	result := r.db.Delete(&models.Upload{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUploadNotFound
	}
	return nil
}

func (r *UploadRepositoryImpl) BucketUsage(bucket string) (int64, int64, error) {
	var count int64
	if err := r.db.Model(&models.Upload{}).Where("bucket = ?", bucket).Count(&count).Error; err != nil {
		return 0, 0, err
	}

	var size int64
	err := r.db.Model(&models.Upload{}).
		Where("bucket = ?", bucket).
		Select("COALESCE(SUM(size), 0)").Scan(&size).Error
	return count, size, err
}
