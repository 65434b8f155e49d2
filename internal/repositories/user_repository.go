package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"memberhub_backend/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	// User operations
	FindByID(id string) (*models.UserProfile, error)
	FindByEmail(email string) (*models.UserProfile, error)
	FindByMemberID(memberID string) (*models.UserProfile, error)
	Create(user *models.UserProfile) error
	Update(user *models.UserProfile) error
	UpdateMembership(userID string, status models.MembershipStatus, tier models.MembershipTier, start, end *time.Time) error
	UpdateStatus(userID string, status models.MembershipStatus) error
	VerifyUser(userID string) error
	UpdateLastActive(userID string) error

	// Recipient resolution: broadcast re-fetches the full current list.
	FindAllActive() ([]models.UserProfile, error)
	FindByIDs(ids []string) ([]models.UserProfile, error)

	// Admin operations
	FindWithFilter(criteria UserFilter) ([]models.UserProfile, int64, error)
	CountByStatus(status models.MembershipStatus) (int64, error)
	GetRegistrationStats(days int) (*RegistrationStats, error)
	NextMemberSequence(year int) (int64, error)

	// Token lookups
	FindByVerificationToken(token string) (*models.UserProfile, error)
	FindByResetToken(token string) (*models.UserProfile, error)

	// RefreshToken operations
	CreateRefreshToken(token *models.RefreshToken) error
	FindRefreshToken(token string) (*models.RefreshToken, error)
	DeleteRefreshToken(token string) error
	DeleteUserRefreshTokens(userID string) error
	CleanExpiredRefreshTokens() error
}

type UserFilter struct {
	Role     models.UserRole
	Status   models.MembershipStatus
	Tier     models.MembershipTier
	Search   string
	Page     int
	PageSize int
}

type RegistrationStats struct {
	Total     int64            `json:"total"`
	Today     int64            `json:"today"`
	ThisWeek  int64            `json:"this_week"`
	ThisMonth int64            `json:"this_month"`
	ByStatus  map[string]int64 `json:"by_status"`
	ByTier    map[string]int64 `json:"by_tier"`
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

// User operations

func (r *UserRepositoryImpl) FindByID(id string) (*models.UserProfile, error) {
	var user models.UserProfile
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.UserProfile, error) {
	var user models.UserProfile
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByMemberID(memberID string) (*models.UserProfile, error) {
	var user models.UserProfile
	err := r.db.First(&user, "member_id = ?", memberID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(user *models.UserProfile) error {
	var existing models.UserProfile
	if err := r.db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	}

	return r.db.Create(user).Error
}

func (r *UserRepositoryImpl) Update(user *models.UserProfile) error {
	result := r.db.Model(user).Updates(map[string]interface{}{
		"email":              user.Email,
		"full_name":          user.FullName,
		"phone":              user.Phone,
		"role":               user.Role,
		"membership_status":  user.MembershipStatus,
		"membership_tier":    user.MembershipTier,
		"avatar_path":        user.AvatarPath,
		"is_verified":        user.IsVerified,
		"verification_token": user.VerificationToken,
		"reset_token":        user.ResetToken,
		"reset_token_exp":    user.ResetTokenExp,
		"updated_at":         time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateMembership(userID string, status models.MembershipStatus, tier models.MembershipTier, start, end *time.Time) error {
	result := r.db.Model(&models.UserProfile{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"membership_status": status,
		"membership_tier":   tier,
		"membership_start":  start,
		"membership_end":    end,
		"updated_at":        time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateStatus(userID string, status models.MembershipStatus) error {
	result := r.db.Model(&models.UserProfile{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"membership_status": status,
		"updated_at":        time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) VerifyUser(userID string) error {
	return r.db.Model(&models.UserProfile{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"is_verified":        true,
		"verification_token": "",
		"updated_at":         time.Now(),
	}).Error
}

func (r *UserRepositoryImpl) UpdateLastActive(userID string) error {
	now := time.Now()
	return r.db.Model(&models.UserProfile{}).Where("id = ?", userID).
		Update("last_active_at", &now).Error
}

// Recipient resolution

func (r *UserRepositoryImpl) FindAllActive() ([]models.UserProfile, error) {
	var users []models.UserProfile
	err := r.db.Where("role = ?", models.UserRoleStudent).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *UserRepositoryImpl) FindByIDs(ids []string) ([]models.UserProfile, error) {
	var users []models.UserProfile
	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// Admin operations

func (r *UserRepositoryImpl) FindWithFilter(criteria UserFilter) ([]models.UserProfile, int64, error) {
	query := r.db.Model(&models.UserProfile{})

	if criteria.Role != "" {
		query = query.Where("role = ?", criteria.Role)
	}
	if criteria.Status != "" {
		query = query.Where("membership_status = ?", criteria.Status)
	}
	if criteria.Tier != "" {
		query = query.Where("membership_tier = ?", criteria.Tier)
	}
	if criteria.Search != "" {
		pattern := "%" + criteria.Search + "%"
		query = query.Where("email ILIKE ? OR full_name ILIKE ? OR member_id ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if criteria.Page > 0 && criteria.PageSize > 0 {
		offset := (criteria.Page - 1) * criteria.PageSize
		query = query.Offset(offset).Limit(criteria.PageSize)
	}

	var users []models.UserProfile
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *UserRepositoryImpl) CountByStatus(status models.MembershipStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserProfile{}).
		Where("membership_status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) GetRegistrationStats(days int) (*RegistrationStats, error) {
	stats := &RegistrationStats{
		ByStatus: make(map[string]int64),
		ByTier:   make(map[string]int64),
	}

	if err := r.db.Model(&models.UserProfile{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if err := r.db.Model(&models.UserProfile{}).Where("created_at >= ?", today).Count(&stats.Today).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.UserProfile{}).Where("created_at >= ?", today.AddDate(0, 0, -7)).Count(&stats.ThisWeek).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.UserProfile{}).Where("created_at >= ?", today.AddDate(0, -1, 0)).Count(&stats.ThisMonth).Error; err != nil {
		return nil, err
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var byStatus []bucket
	if err := r.db.Model(&models.UserProfile{}).
		Select("membership_status as key, count(*) as count").
		Group("membership_status").Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, b := range byStatus {
		stats.ByStatus[b.Key] = b.Count
	}

	var byTier []bucket
	if err := r.db.Model(&models.UserProfile{}).
		Select("membership_tier as key, count(*) as count").
		Group("membership_tier").Scan(&byTier).Error; err != nil {
		return nil, err
	}
	for _, b := range byTier {
		stats.ByTier[b.Key] = b.Count
	}

	return stats, nil
}

// NextMemberSequence issues the next per-year counter for member IDs.
func (r *UserRepositoryImpl) NextMemberSequence(year int) (int64, error) {
	var count int64
	prefix := fmt.Sprintf("MHB-%d-%%", year)
	err := r.db.Model(&models.UserProfile{}).
		Where("member_id LIKE ?", prefix).
		Count(&count).Error
	return count + 1, err
}

// Token lookups

func (r *UserRepositoryImpl) FindByVerificationToken(token string) (*models.UserProfile, error) {
	var user models.UserProfile
	err := r.db.First(&user, "verification_token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByResetToken(token string) (*models.UserProfile, error) {
	var user models.UserProfile
	err := r.db.First(&user, "reset_token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// RefreshToken operations

func (r *UserRepositoryImpl) CreateRefreshToken(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

func (r *UserRepositoryImpl) FindRefreshToken(token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := r.db.First(&rt, "token = ?", token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &rt, nil
}

func (r *UserRepositoryImpl) DeleteRefreshToken(token string) error {
	return r.db.Delete(&models.RefreshToken{}, "token = ?", token).Error
}

func (r *UserRepositoryImpl) DeleteUserRefreshTokens(userID string) error {
	return r.db.Delete(&models.RefreshToken{}, "user_id = ?", userID).Error
}

func (r *UserRepositoryImpl) CleanExpiredRefreshTokens() error {
	return r.db.Delete(&models.RefreshToken{}, "expires_at < ?", time.Now()).Error
}
