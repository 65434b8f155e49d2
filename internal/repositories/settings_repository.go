package repositories

import (
	"errors"

	"gorm.io/gorm"

	"memberhub_backend/internal/models"
)

// Recognized settings keys. Unknown keys are rejected on write so the table
// does not silently accumulate typos.
const (
	SettingSiteName       = "site_name"
	SettingDashboardURL   = "dashboard_url"
	SettingWhatsAppNumber = "whatsapp_number"
	SettingSupportEmail   = "support_email"
)

var KnownSettingKeys = []string{
	SettingSiteName,
	SettingDashboardURL,
	SettingWhatsAppNumber,
	SettingSupportEmail,
}

var ErrUnknownSettingKey = errors.New("unknown setting key")

type SettingsRepository interface {
	Get(key string) (string, error)
	GetAll() (map[string]string, error)
	Set(key, value string) error
}

type SettingsRepositoryImpl struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &SettingsRepositoryImpl{db: db}
}

// Get returns the value or "" when the key has no row yet.
func (r *SettingsRepositoryImpl) Get(key string) (string, error) {
	var setting models.AdminSetting
	err := r.db.First(&setting, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return setting.Value, nil
}

func (r *SettingsRepositoryImpl) GetAll() (map[string]string, error) {
	var settings []models.AdminSetting
	if err := r.db.Find(&settings).Error; err != nil {
		return nil, err
	}

	result := make(map[string]string, len(settings))
	for _, s := range settings {
		result[s.Key] = s.Value
	}
	return result, nil
}

func (r *SettingsRepositoryImpl) Set(key, value string) error {
	known := false
	for _, k := range KnownSettingKeys {
		if k == key {
			known = true
			break
		}
	}
	if !known {
		return ErrUnknownSettingKey
	}

	var setting models.AdminSetting
	err := r.db.First(&setting, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(&models.AdminSetting{Key: key, Value: value}).Error
	}
	if err != nil {
		return err
	}

	return r.db.Model(&setting).Update("value", value).Error
}
