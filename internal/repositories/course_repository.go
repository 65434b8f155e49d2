package repositories

import (
	"errors"

	"gorm.io/gorm"

	"memberhub_backend/internal/models"
)

var (
	ErrCourseNotFound   = errors.New("course not found")
	ErrAlreadyEnrolled  = errors.New("already enrolled in course")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

type CourseRepository interface {
	// Course operations
	Create(course *models.Course) error
	FindByID(id string) (*models.Course, error)
	Update(course *models.Course) error
	Delete(id string) error
	FindAll(activeOnly bool) ([]models.Course, error)
	FindAccessibleByTier(tier models.MembershipTier) ([]models.Course, error)

	// Enrollment operations
	Enroll(enrollment *models.CourseEnrollment) error
	FindUserEnrollments(userID string) ([]models.CourseEnrollment, error)
	CountEnrollments(courseID string) (int64, error)
}

type CourseRepositoryImpl struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &CourseRepositoryImpl{db: db}
}

// ---------------- Course operations ----------------

func (r *CourseRepositoryImpl) Create(course *models.Course) error {
	return r.db.Create(course).Error
}

func (r *CourseRepositoryImpl) FindByID(id string) (*models.Course, error) {
	var course models.Course
	err := r.db.First(&course, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepositoryImpl) Update(course *models.Course) error {
	result := r.db.Model(course).Updates(map[string]interface{}{
		"title":         course.Title,
		"description":   course.Description,
		"required_tier": course.RequiredTier,
		"content_path":  course.ContentPath,
		"is_active":     course.IsActive,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepositoryImpl) Delete(id string) error {
	result := r.db.Delete(&models.Course{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepositoryImpl) FindAll(activeOnly bool) ([]models.Course, error) {
	query := r.db.Model(&models.Course{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var courses []models.Course
	err := query.Order("title ASC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepositoryImpl) FindAccessibleByTier(tier models.MembershipTier) ([]models.Course, error) {
	rank, ok := models.TierRank[tier]
	if !ok {
		rank = 0
	}

	// Tier gating is a rank comparison; courses requiring a higher tier are
	// filtered out here rather than in the handler.
	accessible := make([]models.MembershipTier, 0, 3)
	for t, r := range models.TierRank {
		if r <= rank {
			accessible = append(accessible, t)
		}
	}

	var courses []models.Course
	err := r.db.Where("is_active = ? AND required_tier IN ?", true, accessible).
		Order("title ASC").Find(&courses).Error
	return courses, err
}

// ---------------- Enrollment operations ----------------

func (r *CourseRepositoryImpl) Enroll(enrollment *models.CourseEnrollment) error {
	var existing models.CourseEnrollment
	err := r.db.Where("user_id = ? AND course_id = ?", enrollment.UserID, enrollment.CourseID).
		First(&existing).Error
	if err == nil {
		return ErrAlreadyEnrolled
	}
	return r.db.Create(enrollment).Error
}

func (r *CourseRepositoryImpl) FindUserEnrollments(userID string) ([]models.CourseEnrollment, error) {
	var enrollments []models.CourseEnrollment
	err := r.db.Preload("Course").
		Where("user_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *CourseRepositoryImpl) CountEnrollments(courseID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.CourseEnrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}
