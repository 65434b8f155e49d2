package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memberhub_backend/internal/models"
	"memberhub_backend/internal/notify"
	"memberhub_backend/internal/repositories"
	"memberhub_backend/internal/services/dto"
	"memberhub_backend/pkg/apperrors"
)

func activeStudent(id, email, name, memberID, phone string) models.UserProfile {
	u := models.UserProfile{
		Email:            email,
		FullName:         name,
		Phone:            phone,
		Role:             models.UserRoleStudent,
		MembershipStatus: models.MembershipStatusActive,
		MembershipTier:   models.MembershipTierPro,
		MemberID:         memberID,
	}
	u.ID = id
	return u
}

type notificationTestEnv struct {
	service          NotificationService
	notificationRepo *mockNotificationRepo
	userRepo         *mockUserRepo
	settingsRepo     *mockSettingsRepo
	emailProvider    *mockEmailProvider
	limiter          *notify.RateLimiter
}

func newNotificationTestEnv(maxRequests int) *notificationTestEnv {
	env := &notificationTestEnv{
		notificationRepo: &mockNotificationRepo{},
		userRepo:         &mockUserRepo{},
		settingsRepo:     &mockSettingsRepo{},
		emailProvider:    &mockEmailProvider{},
		limiter:          notify.NewRateLimiter(maxRequests, time.Minute),
	}
	env.service = NewNotificationService(
		env.notificationRepo,
		env.userRepo,
		env.settingsRepo,
		env.emailProvider,
		env.limiter,
		"https://app.memberhub.test/dashboard",
	)
	return env
}

func TestSendBulkMixedOutcome(t *testing.T) {
	env := newNotificationTestEnv(3)

	users := []models.UserProfile{
		activeStudent("u1", "a@test.io", "Aisha", "MHB-2025-0001", ""),
		activeStudent("u2", "b@test.io", "Bekzat", "MHB-2025-0002", ""),
		activeStudent("u3", "c@test.io", "Camila", "MHB-2025-0003", ""),
	}
	env.userRepo.FindAllActiveFn = func() ([]models.UserProfile, error) { return users, nil }
	env.emailProvider.FailTo = map[string]error{"b@test.io": errors.New("mailbox full")}

	resp, err := env.service.SendBulk(&dto.SendNotificationRequest{
		Mode:    dto.SendModeBroadcast,
		Subject: "Hello",
		Content: "Hi {{full_name}}",
		Channel: "email",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.Successful)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, resp.Total, resp.Successful+resp.Failed)
	require.Len(t, resp.Details, 3)

	// One failure never aborts the remaining recipients.
	assert.True(t, resp.Details[0].Success)
	assert.False(t, resp.Details[1].Success)
	assert.Contains(t, resp.Details[1].Error, "mailbox full")
	assert.True(t, resp.Details[2].Success)

	// One log row per recipient, in dispatch order, terminal statuses.
	require.Len(t, env.notificationRepo.CreatedLogs, 3)
	assert.Equal(t, "u1", env.notificationRepo.CreatedLogs[0].RecipientID)
	assert.Equal(t, models.DeliveryStatusSent, env.notificationRepo.CreatedLogs[0].Status)
	assert.Equal(t, "u2", env.notificationRepo.CreatedLogs[1].RecipientID)
	assert.Equal(t, models.DeliveryStatusFailed, env.notificationRepo.CreatedLogs[1].Status)
	assert.Contains(t, env.notificationRepo.CreatedLogs[1].ErrorDetail, "mailbox full")
	assert.Equal(t, "u3", env.notificationRepo.CreatedLogs[2].RecipientID)
	assert.Equal(t, models.DeliveryStatusSent, env.notificationRepo.CreatedLogs[2].Status)

	// Per-recipient merge happened.
	require.Len(t, env.emailProvider.Sent, 2)
	assert.Equal(t, "Hi Aisha", env.emailProvider.Sent[0].Message)
	assert.Equal(t, "Hi Camila", env.emailProvider.Sent[1].Message)
}

func TestSendBulkIndividualEmptySelection(t *testing.T) {
	env := newNotificationTestEnv(1)

	_, err := env.service.SendBulk(&dto.SendNotificationRequest{
		Mode:    dto.SendModeIndividual,
		Subject: "Hello",
		Content: "Hi",
		Channel: "email",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmptyRecipients)

	// Nothing was dispatched or logged.
	assert.Empty(t, env.emailProvider.Sent)
	assert.Empty(t, env.notificationRepo.CreatedLogs)

	// The rejected request did not consume the limiter slot.
	env.userRepo.FindAllActiveFn = func() ([]models.UserProfile, error) { return nil, nil }
	_, err = env.service.SendBulk(&dto.SendNotificationRequest{
		Mode:    dto.SendModeBroadcast,
		Subject: "Hello",
		Content: "Hi",
		Channel: "email",
	})
	assert.NoError(t, err)
}

func TestSendBulkEmptyCustomMessage(t *testing.T) {
	env := newNotificationTestEnv(3)

	_, err := env.service.SendBulk(&dto.SendNotificationRequest{
		Mode:    dto.SendModeBroadcast,
		Subject: "   ",
		Content: "",
		Channel: "email",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmptyMessage)
	assert.Empty(t, env.notificationRepo.CreatedLogs)
}

func TestSendBulkRateLimited(t *testing.T) {
	env := newNotificationTestEnv(1)
	env.userRepo.FindAllActiveFn = func() ([]models.UserProfile, error) { return nil, nil }

	req := &dto.SendNotificationRequest{
		Mode:    dto.SendModeBroadcast,
		Subject: "Hello",
		Content: "Hi",
		Channel: "email",
	}

	_, err := env.service.SendBulk(req)
	require.NoError(t, err)

	_, err = env.service.SendBulk(req)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeRateLimited, appErr.Code)

	details, ok := appErr.Details.(map[string]interface{})
	require.True(t, ok)
	retryAfter, ok := details["retry_after_ms"].(int64)
	require.True(t, ok)
	assert.Greater(t, retryAfter, int64(0))
}

func TestSendBulkIndividualKeepsOrderAndReportsUnknownIDs(t *testing.T) {
	env := newNotificationTestEnv(3)

	u1 := activeStudent("u1", "a@test.io", "Aisha", "MHB-2025-0001", "")
	u2 := activeStudent("u2", "b@test.io", "Bekzat", "MHB-2025-0002", "")
	env.userRepo.FindByIDsFn = func(ids []string) ([]models.UserProfile, error) {
		return []models.UserProfile{u1, u2}, nil
	}

	resp, err := env.service.SendBulk(&dto.SendNotificationRequest{
		Mode:         dto.SendModeIndividual,
		RecipientIDs: []string{"u2", "ghost", "u1"},
		Subject:      "Hello",
		Content:      "Hi",
		Channel:      "email",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 2, resp.Successful)
	assert.Equal(t, 1, resp.Failed)

	// Caller's ordering is preserved; the unknown ID fails in place.
	require.Len(t, resp.Details, 3)
	assert.Equal(t, "u2", resp.Details[0].RecipientID)
	assert.True(t, resp.Details[0].Success)
	assert.Equal(t, "ghost", resp.Details[1].RecipientID)
	assert.False(t, resp.Details[1].Success)
	assert.Equal(t, "recipient not found", resp.Details[1].Error)
	assert.Equal(t, "u1", resp.Details[2].RecipientID)
	assert.True(t, resp.Details[2].Success)

	require.Len(t, env.notificationRepo.CreatedLogs, 3)
	assert.Equal(t, "ghost", env.notificationRepo.CreatedLogs[1].RecipientID)
	assert.Empty(t, env.notificationRepo.CreatedLogs[1].RecipientEmail)
	assert.Equal(t, models.DeliveryStatusFailed, env.notificationRepo.CreatedLogs[1].Status)
}

func TestSendBulkTemplateResolution(t *testing.T) {
	env := newNotificationTestEnv(3)

	template := &models.NotificationTemplate{
		Name:     "renewal_push",
		Subject:  "Renew, {{full_name}}",
		Content:  "Visit {{dashboard_url}} before {{deadline}}",
		Channel:  models.ChannelEmail,
		IsActive: true,
	}
	env.notificationRepo.FindTemplateByNameFn = func(name string) (*models.NotificationTemplate, error) {
		if name == template.Name {
			return template, nil
		}
		return nil, repositories.ErrTemplateNotFound
	}
	env.settingsRepo.Values = map[string]string{
		repositories.SettingDashboardURL: "https://portal.example.com",
	}
	env.userRepo.FindAllActiveFn = func() ([]models.UserProfile, error) {
		return []models.UserProfile{activeStudent("u1", "a@test.io", "Aisha", "MHB-2025-0001", "")}, nil
	}

	resp, err := env.service.SendBulk(&dto.SendNotificationRequest{
		Mode:         dto.SendModeBroadcast,
		TemplateName: "renewal_push",
		Channel:      "email",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Successful)

	require.Len(t, env.emailProvider.Sent, 1)
	assert.Equal(t, "Renew, Aisha", env.emailProvider.Sent[0].Subject)
	// Settings override the configured dashboard URL; unresolved placeholders
	// stay verbatim.
	assert.Equal(t, "Visit https://portal.example.com before {{deadline}}", env.emailProvider.Sent[0].Message)

	require.Len(t, env.notificationRepo.CreatedLogs, 1)
	assert.Equal(t, "renewal_push", env.notificationRepo.CreatedLogs[0].TemplateName)
}

func TestSendBulkInactiveTemplate(t *testing.T) {
	env := newNotificationTestEnv(3)

	env.notificationRepo.FindTemplateByNameFn = func(string) (*models.NotificationTemplate, error) {
		return &models.NotificationTemplate{Name: "old", IsActive: false}, nil
	}

	_, err := env.service.SendBulk(&dto.SendNotificationRequest{
		Mode:         dto.SendModeBroadcast,
		TemplateName: "old",
		Channel:      "email",
	})
	assert.ErrorIs(t, err, apperrors.ErrTemplateInactive)
}

func TestSendBulkWhatsAppChannel(t *testing.T) {
	env := newNotificationTestEnv(3)

	env.userRepo.FindAllActiveFn = func() ([]models.UserProfile, error) {
		return []models.UserProfile{
			activeStudent("u1", "a@test.io", "Aisha", "MHB-2025-0001", "+7 701 555 1234"),
			activeStudent("u2", "b@test.io", "Bekzat", "MHB-2025-0002", ""),
		}, nil
	}

	resp, err := env.service.SendBulk(&dto.SendNotificationRequest{
		Mode:    dto.SendModeBroadcast,
		Subject: "Promo",
		Content: "Hi {{full_name}}",
		Channel: "whatsapp",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Successful)
	assert.Equal(t, 1, resp.Failed)

	// Links are recorded for the admin UI, never auto-opened, and no email
	// goes out on the whatsapp channel.
	assert.Contains(t, resp.Details[0].WhatsAppLink, "https://wa.me/77015551234?text=")
	assert.Empty(t, env.emailProvider.Sent)

	assert.False(t, resp.Details[1].Success)
	assert.Contains(t, resp.Details[1].Error, "no phone number")
}

func TestSendBulkLogFailureDoesNotChangeOutcome(t *testing.T) {
	env := newNotificationTestEnv(3)

	env.userRepo.FindAllActiveFn = func() ([]models.UserProfile, error) {
		return []models.UserProfile{activeStudent("u1", "a@test.io", "Aisha", "MHB-2025-0001", "")}, nil
	}
	env.notificationRepo.CreateLogErr = errors.New("disk full")

	resp, err := env.service.SendBulk(&dto.SendNotificationRequest{
		Mode:    dto.SendModeBroadcast,
		Subject: "Hello",
		Content: "Hi",
		Channel: "email",
	})

	// A failed log write is reported, not propagated: the delivery already
	// happened.
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Successful)
	require.Len(t, env.emailProvider.Sent, 1)
}
