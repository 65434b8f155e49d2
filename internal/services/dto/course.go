package dto

import (
	"time"

	"memberhub_backend/internal/models"
)

type CreateCourseRequest struct {
	Title        string `json:"title" binding:"required" validate:"required,min=2,max=200"`
	Description  string `json:"description"`
	RequiredTier string `json:"required_tier" binding:"required" validate:"required,is-membership-tier"`
	ContentPath  string `json:"content_path"`
	IsActive     bool   `json:"is_active"`
}

type UpdateCourseRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=2,max=200"`
	Description  *string `json:"description"`
	RequiredTier *string `json:"required_tier" validate:"omitempty,is-membership-tier"`
	ContentPath  *string `json:"content_path"`
	IsActive     *bool   `json:"is_active"`
}

type CourseResponse struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	Description  string                `json:"description,omitempty"`
	RequiredTier models.MembershipTier `json:"required_tier"`
	ContentPath  string                `json:"content_path,omitempty"`
	IsActive     bool                  `json:"is_active"`
	Enrollments  int64                 `json:"enrollments,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

type EnrollmentResponse struct {
	ID         string          `json:"id"`
	CourseID   string          `json:"course_id"`
	Course     *CourseResponse `json:"course,omitempty"`
	EnrolledAt time.Time       `json:"enrolled_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}
