package services

import (
	"context"
	"time"

	"memberhub_backend/internal/models"
	"memberhub_backend/internal/repositories"
	"memberhub_backend/internal/services/dto"
	"memberhub_backend/internal/storage"
	"memberhub_backend/pkg/apperrors"
)

type UserService interface {
	GetProfile(userID string) (*dto.UserResponse, error)
	UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)

	// Admin operations
	ListUsers(criteria dto.UserListCriteria) (*dto.UserListResponse, error)
	GetUser(id string) (*dto.UserResponse, error)
	UpdateMembership(userID string, req *dto.UpdateMembershipRequest) (*dto.UserResponse, error)
	GetRegistrationStats(days int) (*repositories.RegistrationStats, error)
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
	storage  storage.Storage
}

func NewUserService(userRepo repositories.UserRepository, store storage.Storage) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
		storage:  store,
	}
}

func (s *UserServiceImpl) GetProfile(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	return s.withAvatarURL(user), nil
}

func (s *UserServiceImpl) UpdateProfile(userID string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.withAvatarURL(user), nil
}

// ---------------- Admin ----------------

func (s *UserServiceImpl) ListUsers(criteria dto.UserListCriteria) (*dto.UserListResponse, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}

	users, total, err := s.userRepo.FindWithFilter(repositories.UserFilter{
		Role:     models.UserRole(criteria.Role),
		Status:   models.MembershipStatus(criteria.Status),
		Tier:     models.MembershipTier(criteria.Tier),
		Search:   criteria.Search,
		Page:     criteria.Page,
		PageSize: criteria.PageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, s.withAvatarURL(&users[i]))
	}

	return &dto.UserListResponse{
		Users:      responses,
		Total:      total,
		Page:       criteria.Page,
		PageSize:   criteria.PageSize,
		TotalPages: calculateTotalPages(total, criteria.PageSize),
	}, nil
}

func (s *UserServiceImpl) GetUser(id string) (*dto.UserResponse, error) {
	return s.GetProfile(id)
}

// UpdateMembership lets an admin set membership status and tier directly,
// outside the subscription request flow.
func (s *UserServiceImpl) UpdateMembership(userID string, req *dto.UpdateMembershipRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	status := models.MembershipStatus(req.Status)
	tier := user.MembershipTier
	if req.Tier != "" {
		tier = models.MembershipTier(req.Tier)
	}

	var start, end *time.Time
	if status == models.MembershipStatusActive {
		now := time.Now()
		days := req.DurationDays
		if days == 0 {
			days = 30
		}
		until := now.AddDate(0, 0, days)
		start, end = &now, &until
	}

	if err := s.userRepo.UpdateMembership(user.ID, status, tier, start, end); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.GetProfile(user.ID)
}

func (s *UserServiceImpl) GetRegistrationStats(days int) (*repositories.RegistrationStats, error) {
	if days < 1 || days > 365 {
		days = 30
	}
	stats, err := s.userRepo.GetRegistrationStats(days)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return stats, nil
}

// ---------------- Helpers ----------------

func (s *UserServiceImpl) withAvatarURL(user *models.UserProfile) *dto.UserResponse {
	resp := buildUserResponse(user)
	if user.AvatarPath != "" && s.storage != nil {
		path := storage.BucketUserAvatars + "/" + user.AvatarPath
		if url, err := s.storage.GetSignedURL(context.Background(), path, 24*time.Hour); err == nil {
			resp.AvatarURL = url
		}
	}
	return resp
}

func buildUserResponse(user *models.UserProfile) *dto.UserResponse {
	return &dto.UserResponse{
		ID:               user.ID,
		Email:            user.Email,
		FullName:         user.FullName,
		Phone:            user.Phone,
		Role:             user.Role,
		MembershipStatus: user.MembershipStatus,
		MembershipTier:   user.MembershipTier,
		MemberID:         user.MemberID,
		MembershipStart:  user.MembershipStart,
		MembershipEnd:    user.MembershipEnd,
		CreatedAt:        user.CreatedAt,
	}
}

func calculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
