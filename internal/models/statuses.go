package models

type UserRole string
type MembershipStatus string
type MembershipTier string
type RequestType string
type ApprovalStatus string
type PaymentStatus string
type DeliveryStatus string
type NotificationChannel string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleStudent UserRole = "student"

	MembershipStatusPending MembershipStatus = "pending"
	MembershipStatusActive  MembershipStatus = "active"
	MembershipStatusExpired MembershipStatus = "expired"

	MembershipTierStarter MembershipTier = "starter"
	MembershipTierPro     MembershipTier = "pro"
	MembershipTierElite   MembershipTier = "elite"

	RequestTypeNew     RequestType = "new"
	RequestTypeRenewal RequestType = "renewal"
	RequestTypeUpgrade RequestType = "upgrade"

	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"

	DeliveryStatusSent    DeliveryStatus = "sent"
	DeliveryStatusFailed  DeliveryStatus = "failed"
	DeliveryStatusPending DeliveryStatus = "pending"

	ChannelEmail    NotificationChannel = "email"
	ChannelWhatsApp NotificationChannel = "whatsapp"
	ChannelBoth     NotificationChannel = "both"
)

// TierRank orders membership tiers for course access checks.
var TierRank = map[MembershipTier]int{
	MembershipTierStarter: 1,
	MembershipTierPro:     2,
	MembershipTierElite:   3,
}
