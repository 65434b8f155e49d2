package dto

import (
	"time"

	"memberhub_backend/internal/models"
)

type UserResponse struct {
	ID               string                  `json:"id"`
	Email            string                  `json:"email"`
	FullName         string                  `json:"full_name"`
	Phone            string                  `json:"phone,omitempty"`
	Role             models.UserRole         `json:"role"`
	MembershipStatus models.MembershipStatus `json:"membership_status"`
	MembershipTier   models.MembershipTier   `json:"membership_tier"`
	MemberID         string                  `json:"member_id"`
	AvatarURL        string                  `json:"avatar_url,omitempty"`
	MembershipStart  *time.Time              `json:"membership_start,omitempty"`
	MembershipEnd    *time.Time              `json:"membership_end,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,min=7,max=20"`
}

type UserListCriteria struct {
	Role     string `form:"role" validate:"omitempty,oneof=admin student"`
	Status   string `form:"status" validate:"omitempty,oneof=pending active expired"`
	Tier     string `form:"tier" validate:"omitempty,is-membership-tier"`
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type UserListResponse struct {
	Users      []*UserResponse `json:"users"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

type UpdateMembershipRequest struct {
	Status       string `json:"status" binding:"required" validate:"required,oneof=pending active expired"`
	Tier         string `json:"tier" validate:"omitempty,is-membership-tier"`
	DurationDays int    `json:"duration_days" validate:"omitempty,min=1,max=3650"`
}
