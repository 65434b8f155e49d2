package dto

import (
	"time"

	"memberhub_backend/internal/models"
)

type CreateSubscriptionRequest struct {
	RequestType   string  `json:"request_type" binding:"required" validate:"required,is-request-type"`
	RequestedTier string  `json:"requested_tier" binding:"required" validate:"required,is-membership-tier"`
	Amount        float64 `json:"amount" binding:"required" validate:"required,gt=0"`
	Currency      string  `json:"currency" validate:"omitempty,len=3"`
	PaymentProofID string `json:"payment_proof_id" validate:"omitempty,uuid"`
}

type ResolveSubscriptionRequest struct {
	Note string `json:"note" validate:"omitempty,max=500"`
}

type SubscriptionRequestResponse struct {
	ID               string                `json:"id"`
	UserID           string                `json:"user_id"`
	UserEmail        string                `json:"user_email,omitempty"`
	UserFullName     string                `json:"user_full_name,omitempty"`
	RequestType      models.RequestType    `json:"request_type"`
	CurrentTier      models.MembershipTier `json:"current_tier,omitempty"`
	RequestedTier    models.MembershipTier `json:"requested_tier"`
	Amount           float64               `json:"amount"`
	Currency         string                `json:"currency"`
	PaymentProofURL  string                `json:"payment_proof_url,omitempty"`
	Status           models.ApprovalStatus `json:"status"`
	AdminNote        string                `json:"admin_note,omitempty"`
	ResolvedAt       *time.Time            `json:"resolved_at,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
}

type RequestListCriteria struct {
	Status   string `form:"status" validate:"omitempty,oneof=pending approved rejected"`
	Type     string `form:"type" validate:"omitempty,is-request-type"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type RequestListResponse struct {
	Requests   []*SubscriptionRequestResponse `json:"requests"`
	Total      int64                          `json:"total"`
	Page       int                            `json:"page"`
	PageSize   int                            `json:"page_size"`
	TotalPages int                            `json:"total_pages"`
}

type PaymentResponse struct {
	ID       string                `json:"id"`
	UserID   string                `json:"user_id"`
	RequestID string               `json:"request_id"`
	Amount   float64               `json:"amount"`
	Currency string                `json:"currency"`
	Status   models.PaymentStatus  `json:"status"`
	Tier     models.MembershipTier `json:"tier"`
	PaidAt   *time.Time            `json:"paid_at,omitempty"`
}

type PaymentListResponse struct {
	Payments   []*PaymentResponse `json:"payments"`
	Total      int64              `json:"total"`
	TotalPaid  float64            `json:"total_paid"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}
