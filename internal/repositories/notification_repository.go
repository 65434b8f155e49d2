package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"memberhub_backend/internal/models"
)

var (
	ErrTemplateNotFound      = errors.New("notification template not found")
	ErrTemplateAlreadyExists = errors.New("notification template already exists")
)

type NotificationRepository interface {
	// Template operations
	CreateTemplate(template *models.NotificationTemplate) error
	FindTemplateByID(id string) (*models.NotificationTemplate, error)
	FindTemplateByName(name string) (*models.NotificationTemplate, error)
	UpdateTemplate(template *models.NotificationTemplate) error
	DeleteTemplate(id string) error
	FindAllTemplates(activeOnly bool) ([]models.NotificationTemplate, error)

	// Delivery log operations (append-only)
	CreateLog(entry *models.NotificationLog) error
	FindLogs(criteria LogCriteria) ([]models.NotificationLog, int64, error)
	GetDeliveryStats() (*DeliveryStats, error)
	CleanOldLogs(days int) (int64, error)
}

type LogCriteria struct {
	RecipientID  string
	TemplateName string
	Status       models.DeliveryStatus
	Channel      models.NotificationChannel
	Page         int
	PageSize     int
}

type DeliveryStats struct {
	Total     int64            `json:"total"`
	Sent      int64            `json:"sent"`
	Failed    int64            `json:"failed"`
	ByChannel map[string]int64 `json:"by_channel"`
	Last24h   int64            `json:"last_24h"`
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

// ---------------- Template operations ----------------

func (r *NotificationRepositoryImpl) CreateTemplate(template *models.NotificationTemplate) error {
	var existing models.NotificationTemplate
	if err := r.db.Where("name = ?", template.Name).First(&existing).Error; err == nil {
		return ErrTemplateAlreadyExists
	}
	return r.db.Create(template).Error
}

func (r *NotificationRepositoryImpl) FindTemplateByID(id string) (*models.NotificationTemplate, error) {
	var template models.NotificationTemplate
	err := r.db.First(&template, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &template, nil
}

func (r *NotificationRepositoryImpl) FindTemplateByName(name string) (*models.NotificationTemplate, error) {
	var template models.NotificationTemplate
	err := r.db.First(&template, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &template, nil
}

func (r *NotificationRepositoryImpl) UpdateTemplate(template *models.NotificationTemplate) error {
	result := r.db.Model(template).Updates(map[string]interface{}{
		"subject":    template.Subject,
		"content":    template.Content,
		"channel":    template.Channel,
		"category":   template.Category,
		"is_active":  template.IsActive,
		"variables":  template.Variables,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) DeleteTemplate(id string) error {
	result := r.db.Delete(&models.NotificationTemplate{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) FindAllTemplates(activeOnly bool) ([]models.NotificationTemplate, error) {
	query := r.db.Model(&models.NotificationTemplate{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var templates []models.NotificationTemplate
	err := query.Order("name ASC").Find(&templates).Error
	return templates, err
}

// ---------------- Delivery log operations ----------------

func (r *NotificationRepositoryImpl) CreateLog(entry *models.NotificationLog) error {
	return r.db.Create(entry).Error
}

func (r *NotificationRepositoryImpl) FindLogs(criteria LogCriteria) ([]models.NotificationLog, int64, error) {
	query := r.db.Model(&models.NotificationLog{})

	if criteria.RecipientID != "" {
		query = query.Where("recipient_id = ?", criteria.RecipientID)
	}
	if criteria.TemplateName != "" {
		query = query.Where("template_name = ?", criteria.TemplateName)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.Channel != "" {
		query = query.Where("channel = ?", criteria.Channel)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if criteria.Page > 0 && criteria.PageSize > 0 {
		offset := (criteria.Page - 1) * criteria.PageSize
		query = query.Offset(offset).Limit(criteria.PageSize)
	}

	var logs []models.NotificationLog
	if err := query.Order("sent_at DESC").Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

func (r *NotificationRepositoryImpl) GetDeliveryStats() (*DeliveryStats, error) {
	stats := &DeliveryStats{ByChannel: make(map[string]int64)}

	if err := r.db.Model(&models.NotificationLog{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.NotificationLog{}).
		Where("status = ?", models.DeliveryStatusSent).Count(&stats.Sent).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.NotificationLog{}).
		Where("status = ?", models.DeliveryStatusFailed).Count(&stats.Failed).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.NotificationLog{}).
		Where("sent_at >= ?", time.Now().Add(-24*time.Hour)).Count(&stats.Last24h).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}
	var byChannel []bucket
	if err := r.db.Model(&models.NotificationLog{}).
		Select("channel as key, count(*) as count").
		Group("channel").Scan(&byChannel).Error; err != nil {
		return nil, err
	}
	for _, b := range byChannel {
		stats.ByChannel[b.Key] = b.Count
	}

	return stats, nil
}

func (r *NotificationRepositoryImpl) CleanOldLogs(days int) (int64, error) {
	result := r.db.Delete(&models.NotificationLog{}, "sent_at < ?", time.Now().AddDate(0, 0, -days))
	return result.RowsAffected, result.Error
}
