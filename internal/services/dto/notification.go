package dto

import (
	"time"

	"memberhub_backend/internal/models"
)

// Send modes.
const (
	SendModeBroadcast  = "broadcast"
	SendModeIndividual = "individual"
)

type CreateTemplateRequest struct {
	Name     string   `json:"name" binding:"required" validate:"required,min=2,max=100"`
	Subject  string   `json:"subject" binding:"required" validate:"required,max=200"`
	Content  string   `json:"content" binding:"required" validate:"required"`
	Channel  string   `json:"channel" binding:"required" validate:"required,is-channel"`
	Category string   `json:"category" validate:"omitempty,max=50"`
	IsActive bool     `json:"is_active"`
	Variables []string `json:"variables"`
}

type UpdateTemplateRequest struct {
	Subject  *string  `json:"subject" validate:"omitempty,max=200"`
	Content  *string  `json:"content"`
	Channel  *string  `json:"channel" validate:"omitempty,is-channel"`
	Category *string  `json:"category" validate:"omitempty,max=50"`
	IsActive *bool    `json:"is_active"`
	Variables []string `json:"variables"`
}

type TemplateResponse struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	Subject   string                     `json:"subject"`
	Content   string                     `json:"content"`
	Channel   models.NotificationChannel `json:"channel"`
	Category  string                     `json:"category,omitempty"`
	IsActive  bool                       `json:"is_active"`
	Variables []string                   `json:"variables,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
}

// SendNotificationRequest drives one bulk send. TemplateName is empty for
// custom content; RecipientIDs is ignored in broadcast mode.
type SendNotificationRequest struct {
	Mode         string   `json:"mode" binding:"required" validate:"required,is-send-mode"`
	RecipientIDs []string `json:"recipient_ids"`
	TemplateName string   `json:"template_name"`
	Subject      string   `json:"subject"`
	Content      string   `json:"content"`
	Channel      string   `json:"channel" binding:"required" validate:"required,is-channel"`
}

// RecipientResult is the per-recipient outcome of the dispatch loop.
type RecipientResult struct {
	RecipientID  string `json:"recipient_id"`
	Email        string `json:"email"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
	WhatsAppLink string `json:"whatsapp_link,omitempty"`
}

// SendNotificationResponse is the aggregate returned to the admin UI.
// Total == Successful + Failed == number of resolved recipients.
type SendNotificationResponse struct {
	Total      int               `json:"total"`
	Successful int               `json:"successful"`
	Failed     int               `json:"failed"`
	Details    []RecipientResult `json:"details"`
}

type LogListCriteria struct {
	RecipientID  string `form:"recipient_id"`
	TemplateName string `form:"template_name"`
	Status       string `form:"status" validate:"omitempty,oneof=sent failed pending"`
	Channel      string `form:"channel" validate:"omitempty,is-channel"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}

type LogEntryResponse struct {
	ID             string                     `json:"id"`
	RecipientID    string                     `json:"recipient_id"`
	RecipientEmail string                     `json:"recipient_email"`
	TemplateName   string                     `json:"template_name"`
	Channel        models.NotificationChannel `json:"channel"`
	Subject        string                     `json:"subject"`
	Status         models.DeliveryStatus      `json:"status"`
	ErrorDetail    string                     `json:"error_detail,omitempty"`
	SentAt         time.Time                  `json:"sent_at"`
}

type LogListResponse struct {
	Logs       []*LogEntryResponse `json:"logs"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	TotalPages int                 `json:"total_pages"`
}
