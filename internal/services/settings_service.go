package services

import (
	"memberhub_backend/internal/repositories"
	"memberhub_backend/pkg/apperrors"
)

type SettingsService interface {
	GetAll() (map[string]string, error)
	Update(values map[string]string) (map[string]string, error)
}

type SettingsServiceImpl struct {
	settingsRepo repositories.SettingsRepository
}

func NewSettingsService(settingsRepo repositories.SettingsRepository) SettingsService {
	return &SettingsServiceImpl{settingsRepo: settingsRepo}
}

func (s *SettingsServiceImpl) GetAll() (map[string]string, error) {
	settings, err := s.settingsRepo.GetAll()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return settings, nil
}

// Update applies each key/value pair; unknown keys reject the whole request
// so the admin UI surfaces typos instead of silently dropping them.
func (s *SettingsServiceImpl) Update(values map[string]string) (map[string]string, error) {
	for key := range values {
		known := false
		for _, k := range repositories.KnownSettingKeys {
			if k == key {
				known = true
				break
			}
		}
		if !known {
			return nil, apperrors.ValidationError(map[string]string{key: "unknown setting key"})
		}
	}

	for key, value := range values {
		if err := s.settingsRepo.Set(key, value); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}
	return s.GetAll()
}
