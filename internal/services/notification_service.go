package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"memberhub_backend/internal/email"
	"memberhub_backend/internal/logger"
	"memberhub_backend/internal/models"
	"memberhub_backend/internal/notify"
	"memberhub_backend/internal/repositories"
	"memberhub_backend/internal/services/dto"
	"memberhub_backend/pkg/apperrors"
)

// Built-in template names used by the membership flows. When an admin has
// created an active template under the same name it takes precedence.
const (
	TemplateMembershipApproved = "membership_approved"
	TemplateMembershipRejected = "membership_rejected"
	TemplateMembershipExpiring = "membership_expiring"
	TemplateMembershipExpired  = "membership_expired"

	customTemplateName = "custom"
)

type NotificationService interface {
	// Templates
	CreateTemplate(req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error)
	GetTemplate(id string) (*dto.TemplateResponse, error)
	UpdateTemplate(id string, req *dto.UpdateTemplateRequest) (*dto.TemplateResponse, error)
	DeleteTemplate(id string) error
	ListTemplates(activeOnly bool) ([]*dto.TemplateResponse, error)

	// Bulk dispatch
	SendBulk(req *dto.SendNotificationRequest) (*dto.SendNotificationResponse, error)

	// Delivery log
	ListLogs(criteria dto.LogListCriteria) (*dto.LogListResponse, error)
	GetDeliveryStats() (*repositories.DeliveryStats, error)
	CleanOldLogs(days int) (int64, error)

	// Single-recipient sends used by the membership flows and the worker.
	SendMembershipApproved(user *models.UserProfile) error
	SendMembershipRejected(user *models.UserProfile, reason string) error
	SendMembershipExpiring(user *models.UserProfile, daysLeft int) error
	SendMembershipExpired(user *models.UserProfile) error
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	settingsRepo     repositories.SettingsRepository
	emailProvider    email.Provider
	limiter          *notify.RateLimiter
	dashboardURL     string // fallback when the admin setting is unset
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	settingsRepo repositories.SettingsRepository,
	emailProvider email.Provider,
	limiter *notify.RateLimiter,
	dashboardURL string,
) NotificationService {
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		settingsRepo:     settingsRepo,
		emailProvider:    emailProvider,
		limiter:          limiter,
		dashboardURL:     dashboardURL,
	}
}

// ---------------- Templates ----------------

func (s *NotificationServiceImpl) CreateTemplate(req *dto.CreateTemplateRequest) (*dto.TemplateResponse, error) {
	if existing, err := s.notificationRepo.FindTemplateByName(req.Name); err == nil && existing != nil {
		return nil, apperrors.ErrAlreadyExists(fmt.Errorf("template %q already exists", req.Name))
	}

	template := &models.NotificationTemplate{
		Name:     req.Name,
		Subject:  req.Subject,
		Content:  req.Content,
		Channel:  models.NotificationChannel(req.Channel),
		Category: req.Category,
		IsActive: req.IsActive,
	}
	if len(req.Variables) > 0 {
		raw, err := json.Marshal(req.Variables)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		template.Variables = raw
	}

	if err := s.notificationRepo.CreateTemplate(template); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildTemplateResponse(template), nil
}

func (s *NotificationServiceImpl) GetTemplate(id string) (*dto.TemplateResponse, error) {
	template, err := s.notificationRepo.FindTemplateByID(id)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	return buildTemplateResponse(template), nil
}

func (s *NotificationServiceImpl) UpdateTemplate(id string, req *dto.UpdateTemplateRequest) (*dto.TemplateResponse, error) {
	template, err := s.notificationRepo.FindTemplateByID(id)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	if req.Subject != nil {
		template.Subject = *req.Subject
	}
	if req.Content != nil {
		template.Content = *req.Content
	}
	if req.Channel != nil {
		template.Channel = models.NotificationChannel(*req.Channel)
	}
	if req.Category != nil {
		template.Category = *req.Category
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}
	if req.Variables != nil {
		raw, err := json.Marshal(req.Variables)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		template.Variables = raw
	}

	if err := s.notificationRepo.UpdateTemplate(template); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildTemplateResponse(template), nil
}

func (s *NotificationServiceImpl) DeleteTemplate(id string) error {
	if _, err := s.notificationRepo.FindTemplateByID(id); err != nil {
		return apperrors.ErrNotFound(err)
	}
	return s.notificationRepo.DeleteTemplate(id)
}

func (s *NotificationServiceImpl) ListTemplates(activeOnly bool) ([]*dto.TemplateResponse, error) {
	templates, err := s.notificationRepo.FindAllTemplates(activeOnly)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	responses := make([]*dto.TemplateResponse, 0, len(templates))
	for i := range templates {
		responses = append(responses, buildTemplateResponse(&templates[i]))
	}
	return responses, nil
}

// ---------------- Bulk dispatch ----------------

// SendBulk runs one bulk send: validate, consult the rate limiter, resolve
// the message and the recipient set, then dispatch sequentially. One failed
// recipient never aborts the loop; every outcome is logged and counted.
func (s *NotificationServiceImpl) SendBulk(req *dto.SendNotificationRequest) (*dto.SendNotificationResponse, error) {
	// Validation happens before the limiter so a rejected request does not
	// consume a send slot.
	if req.Mode == dto.SendModeIndividual && len(req.RecipientIDs) == 0 {
		return nil, apperrors.ErrEmptyRecipients
	}
	if req.TemplateName == "" &&
		(strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Content) == "") {
		return nil, apperrors.ErrEmptyMessage
	}

	if !s.limiter.IsAllowed() {
		wait := s.limiter.TimeUntilNextRequest()
		return nil, apperrors.NewRateLimitedError(
			"bulk send limit reached, please wait before sending again",
			wait.Milliseconds(),
		)
	}

	message, templateName, err := s.resolveMessage(req)
	if err != nil {
		return nil, err
	}

	recipients, err := s.resolveRecipients(req)
	if err != nil {
		return nil, err
	}

	channel := models.NotificationChannel(req.Channel)
	dashboardURL := s.resolveDashboardURL()

	response := &dto.SendNotificationResponse{
		Details: make([]dto.RecipientResult, 0, len(recipients)),
	}
	logs := make([]*models.NotificationLog, 0, len(recipients))

	for _, recipient := range recipients {
		result, entry := s.dispatchOne(recipient, message, channel, templateName, dashboardURL)
		response.Details = append(response.Details, result)
		response.Total++
		if result.Success {
			response.Successful++
		} else {
			response.Failed++
		}
		logs = append(logs, entry)
	}

	// Log rows are persisted in dispatch order. A failed insert is reported
	// but never changes the delivery outcome already achieved.
	for _, entry := range logs {
		if err := s.notificationRepo.CreateLog(entry); err != nil {
			logger.WithError("failed to persist notification log entry", err,
				"recipient_id", entry.RecipientID,
				"status", entry.Status,
			)
		}
	}

	logger.Info("bulk send completed",
		"mode", req.Mode,
		"template", templateName,
		"channel", channel,
		"total", response.Total,
		"successful", response.Successful,
		"failed", response.Failed,
	)

	return response, nil
}

// dispatchOne delivers to a single recipient and builds the matching log row.
// recipient may carry only an ID when the selection referenced an unknown user.
func (s *NotificationServiceImpl) dispatchOne(
	recipient resolvedRecipient,
	message notify.Message,
	channel models.NotificationChannel,
	templateName string,
	dashboardURL string,
) (dto.RecipientResult, *models.NotificationLog) {
	result := dto.RecipientResult{RecipientID: recipient.ID}
	entry := &models.NotificationLog{
		RecipientID:  recipient.ID,
		TemplateName: templateName,
		Channel:      channel,
	}

	if recipient.User == nil {
		result.Error = "recipient not found"
		entry.Status = models.DeliveryStatusFailed
		entry.ErrorDetail = result.Error
		return result, entry
	}

	user := recipient.User
	result.Email = user.Email
	entry.RecipientEmail = user.Email

	merged := message.Merge(notify.RecipientVars(user.FullName, user.Email, user.MemberID, dashboardURL))
	entry.Subject = merged.Subject
	entry.Content = merged.Content

	var failures []string

	if channel == models.ChannelEmail || channel == models.ChannelBoth {
		if err := s.emailProvider.SendNotification(user.Email, merged.Subject, merged.Content); err != nil {
			failures = append(failures, "email: "+err.Error())
		}
	}

	if channel == models.ChannelWhatsApp || channel == models.ChannelBoth {
		// wa.me links are recorded, not opened: the admin UI decides when to
		// launch the conversation.
		link, err := notify.BuildWhatsAppLink(user.Phone, merged.Content)
		if err != nil {
			failures = append(failures, "whatsapp: "+err.Error())
		} else {
			result.WhatsAppLink = link
		}
	}

	if len(failures) > 0 {
		result.Error = strings.Join(failures, "; ")
		entry.Status = models.DeliveryStatusFailed
		entry.ErrorDetail = result.Error
	} else {
		result.Success = true
		entry.Status = models.DeliveryStatusSent
	}

	return result, entry
}

type resolvedRecipient struct {
	ID   string
	User *models.UserProfile // nil when the ID did not resolve
}

// resolveRecipients materializes the recipient set. Broadcast re-fetches at
// send time so membership changes between preview and send are reflected;
// individual selections keep the caller's ordering.
func (s *NotificationServiceImpl) resolveRecipients(req *dto.SendNotificationRequest) ([]resolvedRecipient, error) {
	if req.Mode == dto.SendModeBroadcast {
		users, err := s.userRepo.FindAllActive()
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		recipients := make([]resolvedRecipient, 0, len(users))
		for i := range users {
			recipients = append(recipients, resolvedRecipient{ID: users[i].ID, User: &users[i]})
		}
		return recipients, nil
	}

	users, err := s.userRepo.FindByIDs(req.RecipientIDs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	byID := make(map[string]*models.UserProfile, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	recipients := make([]resolvedRecipient, 0, len(req.RecipientIDs))
	for _, id := range req.RecipientIDs {
		recipients = append(recipients, resolvedRecipient{ID: id, User: byID[id]})
	}
	return recipients, nil
}

// resolveMessage picks the template or the custom subject/content. Returns
// the unmerged message and the template name used for logging.
func (s *NotificationServiceImpl) resolveMessage(req *dto.SendNotificationRequest) (notify.Message, string, error) {
	if req.TemplateName == "" {
		return notify.Message{Subject: req.Subject, Content: req.Content}, customTemplateName, nil
	}

	template, err := s.notificationRepo.FindTemplateByName(req.TemplateName)
	if err != nil {
		return notify.Message{}, "", apperrors.ErrNotFound(err)
	}
	if !template.IsActive {
		return notify.Message{}, "", apperrors.ErrTemplateInactive
	}
	return notify.Message{Subject: template.Subject, Content: template.Content}, template.Name, nil
}

func (s *NotificationServiceImpl) resolveDashboardURL() string {
	if value, err := s.settingsRepo.Get(repositories.SettingDashboardURL); err == nil && value != "" {
		return value
	}
	return s.dashboardURL
}

// ---------------- Delivery log ----------------

func (s *NotificationServiceImpl) ListLogs(criteria dto.LogListCriteria) (*dto.LogListResponse, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}

	entries, total, err := s.notificationRepo.FindLogs(repositories.LogCriteria{
		RecipientID:  criteria.RecipientID,
		TemplateName: criteria.TemplateName,
		Status:       models.DeliveryStatus(criteria.Status),
		Channel:      models.NotificationChannel(criteria.Channel),
		Page:         criteria.Page,
		PageSize:     criteria.PageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logs := make([]*dto.LogEntryResponse, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		logs = append(logs, &dto.LogEntryResponse{
			ID:             entry.ID,
			RecipientID:    entry.RecipientID,
			RecipientEmail: entry.RecipientEmail,
			TemplateName:   entry.TemplateName,
			Channel:        entry.Channel,
			Subject:        entry.Subject,
			Status:         entry.Status,
			ErrorDetail:    entry.ErrorDetail,
			SentAt:         entry.SentAt,
		})
	}

	return &dto.LogListResponse{
		Logs:       logs,
		Total:      total,
		Page:       criteria.Page,
		PageSize:   criteria.PageSize,
		TotalPages: calculateTotalPages(total, criteria.PageSize),
	}, nil
}

func (s *NotificationServiceImpl) GetDeliveryStats() (*repositories.DeliveryStats, error) {
	stats, err := s.notificationRepo.GetDeliveryStats()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return stats, nil
}

func (s *NotificationServiceImpl) CleanOldLogs(days int) (int64, error) {
	if days < 1 {
		days = 90
	}
	return s.notificationRepo.CleanOldLogs(days)
}

// ---------------- Membership flow sends ----------------

func (s *NotificationServiceImpl) SendMembershipApproved(user *models.UserProfile) error {
	return s.sendSystem(user, TemplateMembershipApproved,
		"Your membership is active",
		"Hi {{full_name}},\n\nYour membership has been approved and is now active. "+
			"Log in to your dashboard to access your content: {{dashboard_url}}",
		nil)
}

func (s *NotificationServiceImpl) SendMembershipRejected(user *models.UserProfile, reason string) error {
	return s.sendSystem(user, TemplateMembershipRejected,
		"Your membership request was declined",
		"Hi {{full_name}},\n\nUnfortunately your membership request could not be approved."+
			"\n\nReason: {{reason}}\n\nYou can submit a new request from your dashboard: {{dashboard_url}}",
		map[string]string{"reason": reason})
}

func (s *NotificationServiceImpl) SendMembershipExpiring(user *models.UserProfile, daysLeft int) error {
	return s.sendSystem(user, TemplateMembershipExpiring,
		"Your membership expires soon",
		"Hi {{full_name}},\n\nYour membership expires in {{days_left}} day(s). "+
			"Renew from your dashboard to keep access: {{dashboard_url}}",
		map[string]string{"days_left": fmt.Sprintf("%d", daysLeft)})
}

func (s *NotificationServiceImpl) SendMembershipExpired(user *models.UserProfile) error {
	return s.sendSystem(user, TemplateMembershipExpired,
		"Your membership has expired",
		"Hi {{full_name}},\n\nYour membership has expired and your access has been paused. "+
			"Renew from your dashboard to restore it: {{dashboard_url}}",
		nil)
}

// sendSystem delivers one system email, preferring an admin-managed template
// over the built-in default, and appends a log row either way.
func (s *NotificationServiceImpl) sendSystem(
	user *models.UserProfile,
	templateName, defaultSubject, defaultContent string,
	extraVars map[string]string,
) error {
	message := notify.Message{Subject: defaultSubject, Content: defaultContent}
	if template, err := s.notificationRepo.FindTemplateByName(templateName); err == nil && template.IsActive {
		message = notify.Message{Subject: template.Subject, Content: template.Content}
	}

	vars := notify.RecipientVars(user.FullName, user.Email, user.MemberID, s.resolveDashboardURL())
	for k, v := range extraVars {
		vars[k] = v
	}
	merged := message.Merge(vars)

	sendErr := s.emailProvider.SendNotification(user.Email, merged.Subject, merged.Content)

	entry := &models.NotificationLog{
		RecipientID:    user.ID,
		RecipientEmail: user.Email,
		TemplateName:   templateName,
		Channel:        models.ChannelEmail,
		Subject:        merged.Subject,
		Content:        merged.Content,
		Status:         models.DeliveryStatusSent,
	}
	if sendErr != nil {
		entry.Status = models.DeliveryStatusFailed
		entry.ErrorDetail = sendErr.Error()
	}
	if err := s.notificationRepo.CreateLog(entry); err != nil {
		logger.WithError("failed to persist notification log entry", err, "recipient_id", user.ID)
	}

	return sendErr
}

// ---------------- Helpers ----------------

func buildTemplateResponse(template *models.NotificationTemplate) *dto.TemplateResponse {
	resp := &dto.TemplateResponse{
		ID:        template.ID,
		Name:      template.Name,
		Subject:   template.Subject,
		Content:   template.Content,
		Channel:   template.Channel,
		Category:  template.Category,
		IsActive:  template.IsActive,
		CreatedAt: template.CreatedAt,
		UpdatedAt: template.UpdatedAt,
	}
	if len(template.Variables) > 0 {
		var vars []string
		if err := json.Unmarshal(template.Variables, &vars); err == nil {
			resp.Variables = vars
		}
	}
	return resp
}
