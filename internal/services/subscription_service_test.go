package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memberhub_backend/internal/models"
	"memberhub_backend/internal/repositories"
	"memberhub_backend/internal/services/dto"
	"memberhub_backend/pkg/apperrors"
)

type subscriptionTestEnv struct {
	service          SubscriptionService
	subscriptionRepo *mockSubscriptionRepo
	userRepo         *mockUserRepo
	uploadRepo       *mockUploadRepo
	notifier         *stubNotifier
}

func newSubscriptionTestEnv() *subscriptionTestEnv {
	env := &subscriptionTestEnv{
		subscriptionRepo: &mockSubscriptionRepo{},
		userRepo:         &mockUserRepo{},
		uploadRepo:       &mockUploadRepo{},
		notifier:         &stubNotifier{},
	}
	env.service = NewSubscriptionService(
		env.subscriptionRepo,
		env.userRepo,
		env.uploadRepo,
		env.notifier,
		nil, // no storage: payment proof URLs stay empty
	)
	return env
}

func pendingRequest(id, userID string, tier models.MembershipTier) *models.SubscriptionRequest {
	req := &models.SubscriptionRequest{
		UserID:        userID,
		RequestType:   models.RequestTypeNew,
		RequestedTier: tier,
		Amount:        49.0,
		Currency:      "USD",
		Status:        models.ApprovalStatusPending,
	}
	req.ID = id
	return req
}

func TestApproveRequestActivatesMembership(t *testing.T) {
	env := newSubscriptionTestEnv()

	student := activeStudent("u1", "a@test.io", "Aisha", "MHB-2025-0001", "")
	student.MembershipStatus = models.MembershipStatusPending

	request := pendingRequest("r1", "u1", models.MembershipTierPro)
	env.subscriptionRepo.FindRequestByIDFn = func(id string) (*models.SubscriptionRequest, error) {
		if request.Status == models.ApprovalStatusApproved {
			approved := *request
			return &approved, nil
		}
		return request, nil
	}
	env.subscriptionRepo.ResolveRequestFn = func(id string, status models.ApprovalStatus, adminID, note string) error {
		request.Status = status
		request.ResolvedBy = adminID
		request.AdminNote = note
		return nil
	}
	env.userRepo.FindByIDFn = func(string) (*models.UserProfile, error) { return &student, nil }

	var gotStatus models.MembershipStatus
	var gotTier models.MembershipTier
	var gotEnd *time.Time
	env.userRepo.UpdateMembershipFn = func(userID string, status models.MembershipStatus, tier models.MembershipTier, start, end *time.Time) error {
		gotStatus, gotTier, gotEnd = status, tier, end
		return nil
	}

	resp, err := env.service.ApproveRequest("r1", "admin-1", &dto.ResolveSubscriptionRequest{Note: "receipt checked"})
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusApproved, resp.Status)

	assert.Equal(t, models.MembershipStatusActive, gotStatus)
	assert.Equal(t, models.MembershipTierPro, gotTier)
	require.NotNil(t, gotEnd)
	assert.True(t, gotEnd.After(time.Now().Add(29*24*time.Hour)))

	// Payment row recorded, member notified.
	require.Len(t, env.subscriptionRepo.CreatedPayments, 1)
	assert.Equal(t, models.PaymentStatusPaid, env.subscriptionRepo.CreatedPayments[0].Status)
	assert.Equal(t, "r1", env.subscriptionRepo.CreatedPayments[0].RequestID)
	assert.Equal(t, []string{"u1"}, env.notifier.Approved)
}

func TestApproveRequestIsSingleShot(t *testing.T) {
	env := newSubscriptionTestEnv()

	resolved := pendingRequest("r1", "u1", models.MembershipTierPro)
	resolved.Status = models.ApprovalStatusApproved
	env.subscriptionRepo.FindRequestByIDFn = func(string) (*models.SubscriptionRequest, error) {
		return resolved, nil
	}

	_, err := env.service.ApproveRequest("r1", "admin-1", &dto.ResolveSubscriptionRequest{})
	assert.ErrorIs(t, err, apperrors.ErrRequestAlreadyResolved)
	assert.Empty(t, env.subscriptionRepo.CreatedPayments)
	assert.Empty(t, env.notifier.Approved)
}

func TestApproveRequestLosingTheRace(t *testing.T) {
	env := newSubscriptionTestEnv()

	// The read sees pending but the guarded update hits zero rows: another
	// admin resolved it in between.
	env.subscriptionRepo.FindRequestByIDFn = func(string) (*models.SubscriptionRequest, error) {
		return pendingRequest("r1", "u1", models.MembershipTierPro), nil
	}
	env.subscriptionRepo.ResolveRequestFn = func(string, models.ApprovalStatus, string, string) error {
		return repositories.ErrRequestNotFound
	}

	_, err := env.service.ApproveRequest("r1", "admin-1", &dto.ResolveSubscriptionRequest{})
	assert.ErrorIs(t, err, apperrors.ErrRequestAlreadyResolved)
	assert.Empty(t, env.subscriptionRepo.CreatedPayments)
}

func TestRejectRequestNotifiesMember(t *testing.T) {
	env := newSubscriptionTestEnv()

	request := pendingRequest("r1", "u1", models.MembershipTierElite)
	env.subscriptionRepo.FindRequestByIDFn = func(string) (*models.SubscriptionRequest, error) {
		return request, nil
	}
	env.subscriptionRepo.ResolveRequestFn = func(id string, status models.ApprovalStatus, adminID, note string) error {
		request.Status = status
		request.AdminNote = note
		return nil
	}
	student := activeStudent("u1", "a@test.io", "Aisha", "MHB-2025-0001", "")
	env.userRepo.FindByIDFn = func(string) (*models.UserProfile, error) { return &student, nil }

	resp, err := env.service.RejectRequest("r1", "admin-1", &dto.ResolveSubscriptionRequest{Note: "proof unreadable"})
	require.NoError(t, err)

	assert.Equal(t, models.ApprovalStatusRejected, resp.Status)
	assert.Equal(t, "proof unreadable", resp.AdminNote)
	assert.Equal(t, []string{"u1"}, env.notifier.Rejected)
	// Rejection never creates a payment or touches the membership.
	assert.Empty(t, env.subscriptionRepo.CreatedPayments)
}

func TestSubmitRequestRejectsSecondPending(t *testing.T) {
	env := newSubscriptionTestEnv()

	student := activeStudent("u1", "a@test.io", "Aisha", "MHB-2025-0001", "")
	env.userRepo.FindByIDFn = func(string) (*models.UserProfile, error) { return &student, nil }
	env.subscriptionRepo.FindPendingRequestForUserFn = func(string) (*models.SubscriptionRequest, error) {
		return pendingRequest("r0", "u1", models.MembershipTierPro), nil
	}

	_, err := env.service.SubmitRequest("u1", &dto.CreateSubscriptionRequest{
		RequestType:   "renewal",
		RequestedTier: "pro",
		Amount:        49,
	})
	require.Error(t, err)
	assert.Empty(t, env.subscriptionRepo.CreatedRequests)
}

func TestSubmitRequestUpgradeMustRaiseTier(t *testing.T) {
	env := newSubscriptionTestEnv()

	student := activeStudent("u1", "a@test.io", "Aisha", "MHB-2025-0001", "")
	student.MembershipTier = models.MembershipTierPro
	env.userRepo.FindByIDFn = func(string) (*models.UserProfile, error) { return &student, nil }

	_, err := env.service.SubmitRequest("u1", &dto.CreateSubscriptionRequest{
		RequestType:   "upgrade",
		RequestedTier: "starter",
		Amount:        10,
	})
	require.Error(t, err)

	resp, err := env.service.SubmitRequest("u1", &dto.CreateSubscriptionRequest{
		RequestType:   "upgrade",
		RequestedTier: "elite",
		Amount:        99,
	})
	require.NoError(t, err)
	assert.Equal(t, models.MembershipTierElite, resp.RequestedTier)
	assert.Equal(t, models.MembershipTierPro, resp.CurrentTier)
	assert.Equal(t, "USD", resp.Currency)
}
