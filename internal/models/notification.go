package models

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationTemplate is referenced by name at send time. Content keeps
// {{variable}} placeholders verbatim; merging happens per recipient.
type NotificationTemplate struct {
	BaseModel
	Name      string              `gorm:"uniqueIndex;not null"`
	Subject   string              `gorm:"not null"`
	Content   string              `gorm:"type:text;not null"`
	Channel   NotificationChannel `gorm:"type:varchar(20);not null;default:'email'"`
	Category  string              `gorm:"type:varchar(50)"`
	IsActive  bool                `gorm:"default:true"`
	Variables datatypes.JSON      `gorm:"type:jsonb"` // documented placeholder keys, e.g. ["full_name","member_id"]
}

// NotificationLog is append-only: one row per recipient per send attempt,
// always carrying a terminal status for that attempt.
type NotificationLog struct {
	BaseModel
	RecipientID    string              `gorm:"not null;index"`
	RecipientEmail string              `gorm:"not null"`
	TemplateName   string              `gorm:"not null;default:'custom'"` // "custom" when free-text
	Channel        NotificationChannel `gorm:"type:varchar(20);not null"`
	Subject        string
	Content        string              `gorm:"type:text"`
	Status         DeliveryStatus      `gorm:"type:varchar(20);not null;index"`
	ErrorDetail    string
	SentAt         time.Time           `gorm:"default:now();index"`
}
