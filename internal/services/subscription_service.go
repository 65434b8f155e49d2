package services

import (
	"context"
	"time"

	"memberhub_backend/internal/logger"
	"memberhub_backend/internal/models"
	"memberhub_backend/internal/repositories"
	"memberhub_backend/internal/services/dto"
	"memberhub_backend/internal/storage"
	"memberhub_backend/pkg/apperrors"
)

// membershipDuration is how long one approved request keeps the membership
// active. Renewals extend from the current end date when it is in the future.
const membershipDuration = 30 * 24 * time.Hour

type SubscriptionService interface {
	// Member side
	SubmitRequest(userID string, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionRequestResponse, error)
	GetMyRequests(userID string) ([]*dto.SubscriptionRequestResponse, error)

	// Admin side
	ListRequests(criteria dto.RequestListCriteria) (*dto.RequestListResponse, error)
	GetRequest(id string) (*dto.SubscriptionRequestResponse, error)
	ApproveRequest(id, adminID string, req *dto.ResolveSubscriptionRequest) (*dto.SubscriptionRequestResponse, error)
	RejectRequest(id, adminID string, req *dto.ResolveSubscriptionRequest) (*dto.SubscriptionRequestResponse, error)

	// Payments
	ListPayments(userID string, page, pageSize int) (*dto.PaymentListResponse, error)
}

type SubscriptionServiceImpl struct {
	subscriptionRepo    repositories.SubscriptionRepository
	userRepo            repositories.UserRepository
	uploadRepo          repositories.UploadRepository
	notificationService NotificationService
	storage             storage.Storage
}

func NewSubscriptionService(
	subscriptionRepo repositories.SubscriptionRepository,
	userRepo repositories.UserRepository,
	uploadRepo repositories.UploadRepository,
	notificationService NotificationService,
	store storage.Storage,
) SubscriptionService {
	return &SubscriptionServiceImpl{
		subscriptionRepo:    subscriptionRepo,
		userRepo:            userRepo,
		uploadRepo:          uploadRepo,
		notificationService: notificationService,
		storage:             store,
	}
}

// ---------------- Member side ----------------

// SubmitRequest records a payment claim. The member uploads the proof first
// (upload service) and references it here by ID.
func (s *SubscriptionServiceImpl) SubmitRequest(userID string, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionRequestResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	// One pending request at a time keeps the admin queue unambiguous.
	if existing, err := s.subscriptionRepo.FindPendingRequestForUser(userID); err == nil && existing != nil {
		return nil, apperrors.ErrInvalidOperation("subscription",
			"You already have a pending request. Wait for it to be reviewed.")
	}

	requestedTier := models.MembershipTier(req.RequestedTier)
	requestType := models.RequestType(req.RequestType)

	if requestType == models.RequestTypeUpgrade &&
		models.TierRank[requestedTier] <= models.TierRank[user.MembershipTier] {
		return nil, apperrors.ErrInvalidOperation("subscription",
			"An upgrade must target a higher tier than the current one.")
	}

	request := &models.SubscriptionRequest{
		UserID:        userID,
		RequestType:   requestType,
		CurrentTier:   user.MembershipTier,
		RequestedTier: requestedTier,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Status:        models.ApprovalStatusPending,
	}
	if request.Currency == "" {
		request.Currency = "USD"
	}

	if req.PaymentProofID != "" {
		upload, err := s.uploadRepo.FindByID(req.PaymentProofID)
		if err != nil {
			return nil, apperrors.ErrNotFound(err)
		}
		if upload.UserID != userID {
			return nil, apperrors.ErrInsufficientPermissions
		}
		request.PaymentProofPath = upload.Path
	}

	if err := s.subscriptionRepo.CreateRequest(request); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("subscription request submitted",
		"request_id", request.ID,
		"user_id", userID,
		"type", request.RequestType,
		"tier", request.RequestedTier,
	)

	request.User = *user
	return s.buildRequestResponse(request), nil
}

func (s *SubscriptionServiceImpl) GetMyRequests(userID string) ([]*dto.SubscriptionRequestResponse, error) {
	requests, err := s.subscriptionRepo.FindUserRequests(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	responses := make([]*dto.SubscriptionRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, s.buildRequestResponse(&requests[i]))
	}
	return responses, nil
}

// ---------------- Admin side ----------------

func (s *SubscriptionServiceImpl) ListRequests(criteria dto.RequestListCriteria) (*dto.RequestListResponse, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}

	requests, total, err := s.subscriptionRepo.FindRequests(repositories.RequestCriteria{
		Status:   models.ApprovalStatus(criteria.Status),
		Type:     models.RequestType(criteria.Type),
		Page:     criteria.Page,
		PageSize: criteria.PageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.SubscriptionRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, s.buildRequestResponse(&requests[i]))
	}

	return &dto.RequestListResponse{
		Requests:   responses,
		Total:      total,
		Page:       criteria.Page,
		PageSize:   criteria.PageSize,
		TotalPages: calculateTotalPages(total, criteria.PageSize),
	}, nil
}

func (s *SubscriptionServiceImpl) GetRequest(id string) (*dto.SubscriptionRequestResponse, error) {
	request, err := s.subscriptionRepo.FindRequestByID(id)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	return s.buildRequestResponse(request), nil
}

// ApproveRequest resolves a pending request, activates the membership,
// records the payment, and notifies the member. The status flip is the
// commit point: everything after it is best-effort follow-up.
func (s *SubscriptionServiceImpl) ApproveRequest(id, adminID string, req *dto.ResolveSubscriptionRequest) (*dto.SubscriptionRequestResponse, error) {
	request, err := s.subscriptionRepo.FindRequestByID(id)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if request.Status != models.ApprovalStatusPending {
		return nil, apperrors.ErrRequestAlreadyResolved
	}

	if err := s.subscriptionRepo.ResolveRequest(id, models.ApprovalStatusApproved, adminID, req.Note); err != nil {
		if err == repositories.ErrRequestNotFound {
			// Lost the race with another admin.
			return nil, apperrors.ErrRequestAlreadyResolved
		}
		return nil, apperrors.InternalError(err)
	}

	user, err := s.userRepo.FindByID(request.UserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	start := time.Now()
	end := start.Add(membershipDuration)
	if request.RequestType == models.RequestTypeRenewal &&
		user.MembershipEnd != nil && user.MembershipEnd.After(start) {
		end = user.MembershipEnd.Add(membershipDuration)
	}

	if err := s.userRepo.UpdateMembership(user.ID,
		models.MembershipStatusActive, request.RequestedTier, &start, &end); err != nil {
		return nil, apperrors.InternalError(err)
	}

	now := time.Now()
	if err := s.subscriptionRepo.CreatePayment(&models.Payment{
		UserID:    user.ID,
		RequestID: request.ID,
		Amount:    request.Amount,
		Currency:  request.Currency,
		Status:    models.PaymentStatusPaid,
		Tier:      request.RequestedTier,
		PaidAt:    &now,
	}); err != nil {
		logger.WithError("failed to record payment for approved request", err,
			"request_id", request.ID)
	}

	if err := s.notificationService.SendMembershipApproved(user); err != nil {
		logger.WithError("failed to send approval notification", err, "user_id", user.ID)
	}

	return s.GetRequest(id)
}

func (s *SubscriptionServiceImpl) RejectRequest(id, adminID string, req *dto.ResolveSubscriptionRequest) (*dto.SubscriptionRequestResponse, error) {
	request, err := s.subscriptionRepo.FindRequestByID(id)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if request.Status != models.ApprovalStatusPending {
		return nil, apperrors.ErrRequestAlreadyResolved
	}

	if err := s.subscriptionRepo.ResolveRequest(id, models.ApprovalStatusRejected, adminID, req.Note); err != nil {
		if err == repositories.ErrRequestNotFound {
			return nil, apperrors.ErrRequestAlreadyResolved
		}
		return nil, apperrors.InternalError(err)
	}

	if user, err := s.userRepo.FindByID(request.UserID); err == nil {
		if err := s.notificationService.SendMembershipRejected(user, req.Note); err != nil {
			logger.WithError("failed to send rejection notification", err, "user_id", user.ID)
		}
	}

	return s.GetRequest(id)
}

// ---------------- Payments ----------------

// ListPayments returns payment history; userID narrows to one member and is
// empty for the admin-wide view.
func (s *SubscriptionServiceImpl) ListPayments(userID string, page, pageSize int) (*dto.PaymentListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	payments, total, err := s.subscriptionRepo.FindPayments(repositories.PaymentCriteria{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	totalPaid, err := s.subscriptionRepo.SumPaid()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		p := &payments[i]
		responses = append(responses, &dto.PaymentResponse{
			ID:        p.ID,
			UserID:    p.UserID,
			RequestID: p.RequestID,
			Amount:    p.Amount,
			Currency:  p.Currency,
			Status:    p.Status,
			Tier:      p.Tier,
			PaidAt:    p.PaidAt,
		})
	}

	return &dto.PaymentListResponse{
		Payments:   responses,
		Total:      total,
		TotalPaid:  totalPaid,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: calculateTotalPages(total, pageSize),
	}, nil
}

// ---------------- Helpers ----------------

func (s *SubscriptionServiceImpl) buildRequestResponse(request *models.SubscriptionRequest) *dto.SubscriptionRequestResponse {
	resp := &dto.SubscriptionRequestResponse{
		ID:            request.ID,
		UserID:        request.UserID,
		RequestType:   request.RequestType,
		CurrentTier:   request.CurrentTier,
		RequestedTier: request.RequestedTier,
		Amount:        request.Amount,
		Currency:      request.Currency,
		Status:        request.Status,
		AdminNote:     request.AdminNote,
		ResolvedAt:    request.ResolvedAt,
		CreatedAt:     request.CreatedAt,
	}
	if request.User.ID != "" {
		resp.UserEmail = request.User.Email
		resp.UserFullName = request.User.FullName
	}
	if request.PaymentProofPath != "" && s.storage != nil {
		if url, err := s.storage.GetSignedURL(context.Background(), request.PaymentProofPath, time.Hour); err == nil {
			resp.PaymentProofURL = url
		}
	}
	return resp
}
