package models

// AdminSetting is a key/value row; recognized keys are listed in the settings
// repository.
type AdminSetting struct {
	BaseModel
	Key   string `gorm:"uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}
