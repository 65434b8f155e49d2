package services

import (
	"errors"
	"time"

	"memberhub_backend/internal/email"
	"memberhub_backend/internal/models"
	"memberhub_backend/internal/repositories"
	"memberhub_backend/internal/services/dto"
)

// Function-field mocks: tests override only the calls they care about; the
// rest return zero values or a "not implemented" error to surface accidental
// calls.

var errNotImplemented = errors.New("not implemented in mock")

// ---------------- UserRepository ----------------

type mockUserRepo struct {
	FindByIDFn      func(id string) (*models.UserProfile, error)
	FindByEmailFn   func(email string) (*models.UserProfile, error)
	FindAllActiveFn func() ([]models.UserProfile, error)
	FindByIDsFn     func(ids []string) ([]models.UserProfile, error)
	UpdateFn        func(user *models.UserProfile) error

	UpdateMembershipFn func(userID string, status models.MembershipStatus, tier models.MembershipTier, start, end *time.Time) error
}

func (m *mockUserRepo) FindByID(id string) (*models.UserProfile, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(id)
	}
	return nil, errNotImplemented
}

func (m *mockUserRepo) FindByEmail(email string) (*models.UserProfile, error) {
	if m.FindByEmailFn != nil {
		return m.FindByEmailFn(email)
	}
	return nil, errNotImplemented
}

func (m *mockUserRepo) FindByMemberID(string) (*models.UserProfile, error) {
	return nil, errNotImplemented
}

func (m *mockUserRepo) Create(*models.UserProfile) error { return errNotImplemented }

func (m *mockUserRepo) Update(user *models.UserProfile) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(user)
	}
	return errNotImplemented
}

func (m *mockUserRepo) UpdateMembership(userID string, status models.MembershipStatus, tier models.MembershipTier, start, end *time.Time) error {
	if m.UpdateMembershipFn != nil {
		return m.UpdateMembershipFn(userID, status, tier, start, end)
	}
	return errNotImplemented
}
func (m *mockUserRepo) UpdateStatus(string, models.MembershipStatus) error { return errNotImplemented }
func (m *mockUserRepo) VerifyUser(string) error                            { return errNotImplemented }
func (m *mockUserRepo) UpdateLastActive(string) error                      { return nil }

func (m *mockUserRepo) FindAllActive() ([]models.UserProfile, error) {
	if m.FindAllActiveFn != nil {
		return m.FindAllActiveFn()
	}
	return nil, errNotImplemented
}

func (m *mockUserRepo) FindByIDs(ids []string) ([]models.UserProfile, error) {
	if m.FindByIDsFn != nil {
		return m.FindByIDsFn(ids)
	}
	return nil, errNotImplemented
}

func (m *mockUserRepo) FindWithFilter(repositories.UserFilter) ([]models.UserProfile, int64, error) {
	return nil, 0, errNotImplemented
}
func (m *mockUserRepo) CountByStatus(models.MembershipStatus) (int64, error) {
	return 0, errNotImplemented
}
func (m *mockUserRepo) GetRegistrationStats(int) (*repositories.RegistrationStats, error) {
	return nil, errNotImplemented
}
func (m *mockUserRepo) NextMemberSequence(int) (int64, error) { return 1, nil }
func (m *mockUserRepo) FindByVerificationToken(string) (*models.UserProfile, error) {
	return nil, errNotImplemented
}
func (m *mockUserRepo) FindByResetToken(string) (*models.UserProfile, error) {
	return nil, errNotImplemented
}
func (m *mockUserRepo) CreateRefreshToken(*models.RefreshToken) error { return nil }
func (m *mockUserRepo) FindRefreshToken(string) (*models.RefreshToken, error) {
	return nil, errNotImplemented
}
func (m *mockUserRepo) DeleteRefreshToken(string) error      { return nil }
func (m *mockUserRepo) DeleteUserRefreshTokens(string) error { return nil }
func (m *mockUserRepo) CleanExpiredRefreshTokens() error     { return nil }

// ---------------- NotificationRepository ----------------

type mockNotificationRepo struct {
	FindTemplateByNameFn func(name string) (*models.NotificationTemplate, error)
	CreatedLogs          []*models.NotificationLog
	CreateLogErr         error
}

func (m *mockNotificationRepo) CreateTemplate(*models.NotificationTemplate) error {
	return errNotImplemented
}
func (m *mockNotificationRepo) FindTemplateByID(string) (*models.NotificationTemplate, error) {
	return nil, errNotImplemented
}

func (m *mockNotificationRepo) FindTemplateByName(name string) (*models.NotificationTemplate, error) {
	if m.FindTemplateByNameFn != nil {
		return m.FindTemplateByNameFn(name)
	}
	return nil, repositories.ErrTemplateNotFound
}

func (m *mockNotificationRepo) UpdateTemplate(*models.NotificationTemplate) error {
	return errNotImplemented
}
func (m *mockNotificationRepo) DeleteTemplate(string) error { return errNotImplemented }
func (m *mockNotificationRepo) FindAllTemplates(bool) ([]models.NotificationTemplate, error) {
	return nil, errNotImplemented
}

func (m *mockNotificationRepo) CreateLog(entry *models.NotificationLog) error {
	if m.CreateLogErr != nil {
		return m.CreateLogErr
	}
	m.CreatedLogs = append(m.CreatedLogs, entry)
	return nil
}

func (m *mockNotificationRepo) FindLogs(repositories.LogCriteria) ([]models.NotificationLog, int64, error) {
	return nil, 0, errNotImplemented
}
func (m *mockNotificationRepo) GetDeliveryStats() (*repositories.DeliveryStats, error) {
	return nil, errNotImplemented
}
func (m *mockNotificationRepo) CleanOldLogs(int) (int64, error) { return 0, errNotImplemented }

// ---------------- SettingsRepository ----------------

type mockSettingsRepo struct {
	Values map[string]string
}

func (m *mockSettingsRepo) Get(key string) (string, error) {
	return m.Values[key], nil
}

func (m *mockSettingsRepo) GetAll() (map[string]string, error) {
	return m.Values, nil
}

func (m *mockSettingsRepo) Set(key, value string) error {
	if m.Values == nil {
		m.Values = make(map[string]string)
	}
	m.Values[key] = value
	return nil
}

// ---------------- email.Provider ----------------

type sentEmail struct {
	To      string
	Subject string
	Message string
}

type mockEmailProvider struct {
	Sent   []sentEmail
	FailTo map[string]error // per-address failures
}

func (m *mockEmailProvider) Send(e *email.Email) error {
	for _, to := range e.To {
		if err := m.FailTo[to]; err != nil {
			return err
		}
		m.Sent = append(m.Sent, sentEmail{To: to, Subject: e.Subject, Message: e.Body})
	}
	return nil
}

func (m *mockEmailProvider) SendNotification(to, subject, message string) error {
	if err := m.FailTo[to]; err != nil {
		return err
	}
	m.Sent = append(m.Sent, sentEmail{To: to, Subject: subject, Message: message})
	return nil
}

func (m *mockEmailProvider) Close() error { return nil }

// ---------------- SubscriptionRepository ----------------

type mockSubscriptionRepo struct {
	FindRequestByIDFn           func(id string) (*models.SubscriptionRequest, error)
	FindPendingRequestForUserFn func(userID string) (*models.SubscriptionRequest, error)
	ResolveRequestFn            func(id string, status models.ApprovalStatus, adminID, note string) error
	CreatedRequests             []*models.SubscriptionRequest
	CreatedPayments             []*models.Payment
}

func (m *mockSubscriptionRepo) CreateRequest(request *models.SubscriptionRequest) error {
	m.CreatedRequests = append(m.CreatedRequests, request)
	return nil
}

func (m *mockSubscriptionRepo) FindRequestByID(id string) (*models.SubscriptionRequest, error) {
	if m.FindRequestByIDFn != nil {
		return m.FindRequestByIDFn(id)
	}
	return nil, repositories.ErrRequestNotFound
}

func (m *mockSubscriptionRepo) FindUserRequests(string) ([]models.SubscriptionRequest, error) {
	return nil, errNotImplemented
}

func (m *mockSubscriptionRepo) FindPendingRequestForUser(userID string) (*models.SubscriptionRequest, error) {
	if m.FindPendingRequestForUserFn != nil {
		return m.FindPendingRequestForUserFn(userID)
	}
	return nil, repositories.ErrRequestNotFound
}

func (m *mockSubscriptionRepo) FindRequests(repositories.RequestCriteria) ([]models.SubscriptionRequest, int64, error) {
	return nil, 0, errNotImplemented
}

func (m *mockSubscriptionRepo) ResolveRequest(id string, status models.ApprovalStatus, adminID, note string) error {
	if m.ResolveRequestFn != nil {
		return m.ResolveRequestFn(id, status, adminID, note)
	}
	return errNotImplemented
}

func (m *mockSubscriptionRepo) CreatePayment(payment *models.Payment) error {
	m.CreatedPayments = append(m.CreatedPayments, payment)
	return nil
}

func (m *mockSubscriptionRepo) FindPayments(repositories.PaymentCriteria) ([]models.Payment, int64, error) {
	return nil, 0, errNotImplemented
}

func (m *mockSubscriptionRepo) SumPaid() (float64, error) { return 0, nil }

// ---------------- UploadRepository ----------------

type mockUploadRepo struct {
	FindByIDFn func(id string) (*models.Upload, error)
}

func (m *mockUploadRepo) Create(*models.Upload) error { return nil }

func (m *mockUploadRepo) FindByID(id string) (*models.Upload, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(id)
	}
	return nil, repositories.ErrUploadNotFound
}

func (m *mockUploadRepo) FindByPath(string) (*models.Upload, error) {
	return nil, repositories.ErrUploadNotFound
}

func (m *mockUploadRepo) FindUserUploads(string, string) ([]models.Upload, error) {
	return nil, errNotImplemented
}

func (m *mockUploadRepo) Delete(string) error { return nil }

func (m *mockUploadRepo) BucketUsage(string) (int64, int64, error) { return 0, 0, nil }

// ---------------- NotificationService stub ----------------

type stubNotifier struct {
	Approved []string // user IDs
	Rejected []string
	Expiring []string
	Expired  []string
}

func (s *stubNotifier) CreateTemplate(*dto.CreateTemplateRequest) (*dto.TemplateResponse, error) {
	return nil, errNotImplemented
}
func (s *stubNotifier) GetTemplate(string) (*dto.TemplateResponse, error) {
	return nil, errNotImplemented
}
func (s *stubNotifier) UpdateTemplate(string, *dto.UpdateTemplateRequest) (*dto.TemplateResponse, error) {
	return nil, errNotImplemented
}
func (s *stubNotifier) DeleteTemplate(string) error { return errNotImplemented }
func (s *stubNotifier) ListTemplates(bool) ([]*dto.TemplateResponse, error) {
	return nil, errNotImplemented
}
func (s *stubNotifier) SendBulk(*dto.SendNotificationRequest) (*dto.SendNotificationResponse, error) {
	return nil, errNotImplemented
}
func (s *stubNotifier) ListLogs(dto.LogListCriteria) (*dto.LogListResponse, error) {
	return nil, errNotImplemented
}
func (s *stubNotifier) GetDeliveryStats() (*repositories.DeliveryStats, error) {
	return nil, errNotImplemented
}
func (s *stubNotifier) CleanOldLogs(int) (int64, error) { return 0, errNotImplemented }

func (s *stubNotifier) SendMembershipApproved(user *models.UserProfile) error {
	s.Approved = append(s.Approved, user.ID)
	return nil
}

func (s *stubNotifier) SendMembershipRejected(user *models.UserProfile, _ string) error {
	s.Rejected = append(s.Rejected, user.ID)
	return nil
}

func (s *stubNotifier) SendMembershipExpiring(user *models.UserProfile, _ int) error {
	s.Expiring = append(s.Expiring, user.ID)
	return nil
}

func (s *stubNotifier) SendMembershipExpired(user *models.UserProfile) error {
	s.Expired = append(s.Expired, user.ID)
	return nil
}
