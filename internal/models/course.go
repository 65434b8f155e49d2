package models

import "time"

type Course struct {
	BaseModel
	Title       string         `gorm:"not null"`
	Description string         `gorm:"type:text"`
	RequiredTier MembershipTier `gorm:"type:varchar(20);not null;default:'starter'"`
	ContentPath string         // object key prefix in the content buckets
	IsActive    bool           `gorm:"default:true"`
}

type CourseEnrollment struct {
	BaseModel
	UserID     string     `gorm:"not null;index:idx_enrollment_user_course,unique"`
	CourseID   string     `gorm:"not null;index:idx_enrollment_user_course,unique"`
	EnrolledAt time.Time  `gorm:"default:now()"`
	CompletedAt *time.Time

	// Relations
	Course Course `gorm:"foreignKey:CourseID"`
}
