package models

import "time"

// SubscriptionRequest is created by a member's payment submission and resolved
// exactly once by an admin. Terminal after approval/rejection.
type SubscriptionRequest struct {
	BaseModel
	UserID           string         `gorm:"not null;index"`
	RequestType      RequestType    `gorm:"type:varchar(20);not null"`
	CurrentTier      MembershipTier `gorm:"type:varchar(20)"`
	RequestedTier    MembershipTier `gorm:"type:varchar(20);not null"`
	Amount           float64        `gorm:"not null"`
	Currency         string         `gorm:"default:'USD'"`
	PaymentProofPath string         // object key in the user-uploads bucket
	Status           ApprovalStatus `gorm:"type:varchar(20);default:'pending';index"`
	AdminNote        string
	ResolvedBy       string
	ResolvedAt       *time.Time

	// Relations
	User UserProfile `gorm:"foreignKey:UserID"`
}

// Payment rows are append-only; one per approved subscription request.
type Payment struct {
	BaseModel
	UserID    string         `gorm:"not null;index"`
	RequestID string         `gorm:"not null;index"`
	Amount    float64        `gorm:"not null"`
	Currency  string         `gorm:"default:'USD'"`
	Status    PaymentStatus  `gorm:"type:varchar(20);default:'pending'"`
	Tier      MembershipTier `gorm:"type:varchar(20)"`
	PaidAt    *time.Time

	// Relations
	Request SubscriptionRequest `gorm:"foreignKey:RequestID"`
}
