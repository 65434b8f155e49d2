package models

import "time"

// UserProfile is never deleted, only status-transitioned.
type UserProfile struct {
	BaseModel
	Email            string           `gorm:"uniqueIndex;not null"`
	PasswordHash     string           `gorm:"not null"`
	FullName         string           `gorm:"not null"`
	Phone            string
	Role             UserRole         `gorm:"type:varchar(20);not null;default:'student'"`
	MembershipStatus MembershipStatus `gorm:"type:varchar(20);default:'pending'"`
	MembershipTier   MembershipTier   `gorm:"type:varchar(20);default:'starter'"`
	MemberID         string           `gorm:"uniqueIndex"` // human-readable, e.g. MHB-2026-0042
	AvatarPath       string
	MembershipStart  *time.Time
	MembershipEnd    *time.Time
	IsVerified       bool `gorm:"default:false"`
	VerificationToken string
	ResetToken        string
	ResetTokenExp     *time.Time
	LastActiveAt      *time.Time

	// Relations
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
