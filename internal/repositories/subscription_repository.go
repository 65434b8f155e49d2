package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"memberhub_backend/internal/models"
)

var (
	ErrRequestNotFound = errors.New("subscription request not found")
	ErrPaymentNotFound = errors.New("payment not found")
)

type SubscriptionRepository interface {
	// Request operations
	CreateRequest(request *models.SubscriptionRequest) error
	FindRequestByID(id string) (*models.SubscriptionRequest, error)
	FindUserRequests(userID string) ([]models.SubscriptionRequest, error)
	FindPendingRequestForUser(userID string) (*models.SubscriptionRequest, error)
	FindRequests(criteria RequestCriteria) ([]models.SubscriptionRequest, int64, error)
	ResolveRequest(id string, status models.ApprovalStatus, adminID, note string) error

	// Payment operations (append-only)
	CreatePayment(payment *models.Payment) error
	FindPayments(criteria PaymentCriteria) ([]models.Payment, int64, error)
	SumPaid() (float64, error)
}

type RequestCriteria struct {
	UserID   string
	Status   models.ApprovalStatus
	Type     models.RequestType
	Page     int
	PageSize int
}

type PaymentCriteria struct {
	UserID   string
	Status   models.PaymentStatus
	Page     int
	PageSize int
}

type SubscriptionRepositoryImpl struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &SubscriptionRepositoryImpl{db: db}
}

// ---------------- Request operations ----------------

func (r *SubscriptionRepositoryImpl) CreateRequest(request *models.SubscriptionRequest) error {
	return r.db.Create(request).Error
}

func (r *SubscriptionRepositoryImpl) FindRequestByID(id string) (*models.SubscriptionRequest, error) {
	var request models.SubscriptionRequest
	err := r.db.Preload("User").First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *SubscriptionRepositoryImpl) FindUserRequests(userID string) ([]models.SubscriptionRequest, error) {
	var requests []models.SubscriptionRequest
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&requests).Error
	return requests, err
}

func (r *SubscriptionRepositoryImpl) FindPendingRequestForUser(userID string) (*models.SubscriptionRequest, error) {
	var request models.SubscriptionRequest
	err := r.db.Where("user_id = ? AND status = ?", userID, models.ApprovalStatusPending).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *SubscriptionRepositoryImpl) FindRequests(criteria RequestCriteria) ([]models.SubscriptionRequest, int64, error) {
	query := r.db.Model(&models.SubscriptionRequest{}).Preload("User")

	if criteria.UserID != "" {
		query = query.Where("user_id = ?", criteria.UserID)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.Type != "" {
		query = query.Where("request_type = ?", criteria.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if criteria.Page > 0 && criteria.PageSize > 0 {
		offset := (criteria.Page - 1) * criteria.PageSize
		query = query.Offset(offset).Limit(criteria.PageSize)
	}

	var requests []models.SubscriptionRequest
	if err := query.Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// ResolveRequest flips a pending request to its terminal status. The status
// guard in the WHERE clause makes the transition single-shot even under
// concurrent admin clicks.
func (r *SubscriptionRepositoryImpl) ResolveRequest(id string, status models.ApprovalStatus, adminID, note string) error {
	now := time.Now()
	result := r.db.Model(&models.SubscriptionRequest{}).
		Where("id = ? AND status = ?", id, models.ApprovalStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_by": adminID,
			"admin_note":  note,
			"resolved_at": &now,
			"updated_at":  now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

// ---------------- Payment operations ----------------

func (r *SubscriptionRepositoryImpl) CreatePayment(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

func (r *SubscriptionRepositoryImpl) FindPayments(criteria PaymentCriteria) ([]models.Payment, int64, error) {
	query := r.db.Model(&models.Payment{})

	if criteria.UserID != "" {
		query = query.Where("user_id = ?", criteria.UserID)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if criteria.Page > 0 && criteria.PageSize > 0 {
		offset := (criteria.Page - 1) * criteria.PageSize
		query = query.Offset(offset).Limit(criteria.PageSize)
	}

	var payments []models.Payment
	if err := query.Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

func (r *SubscriptionRepositoryImpl) SumPaid() (float64, error) {
	var sum float64
	err := r.db.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error
	return sum, err
}
