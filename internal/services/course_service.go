package services

import (
	"memberhub_backend/internal/models"
	"memberhub_backend/internal/repositories"
	"memberhub_backend/internal/services/dto"
	"memberhub_backend/pkg/apperrors"
)

type CourseService interface {
	// Admin operations
	CreateCourse(req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	UpdateCourse(id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	DeleteCourse(id string) error
	ListCourses(activeOnly bool) ([]*dto.CourseResponse, error)
	GetCourse(id string) (*dto.CourseResponse, error)

	// Member operations, gated by membership status and tier
	ListAccessibleCourses(userID string) ([]*dto.CourseResponse, error)
	Enroll(userID, courseID string) (*dto.EnrollmentResponse, error)
	ListMyEnrollments(userID string) ([]*dto.EnrollmentResponse, error)
}

type CourseServiceImpl struct {
	courseRepo repositories.CourseRepository
	userRepo   repositories.UserRepository
}

func NewCourseService(courseRepo repositories.CourseRepository, userRepo repositories.UserRepository) CourseService {
	return &CourseServiceImpl{
		courseRepo: courseRepo,
		userRepo:   userRepo,
	}
}

// ---------------- Admin operations ----------------

func (s *CourseServiceImpl) CreateCourse(req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	course := &models.Course{
		Title:        req.Title,
		Description:  req.Description,
		RequiredTier: models.MembershipTier(req.RequiredTier),
		ContentPath:  req.ContentPath,
		IsActive:     req.IsActive,
	}
	if err := s.courseRepo.Create(course); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildCourseResponse(course, 0), nil
}

func (s *CourseServiceImpl) UpdateCourse(id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.FindByID(id)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.RequiredTier != nil {
		course.RequiredTier = models.MembershipTier(*req.RequiredTier)
	}
	if req.ContentPath != nil {
		course.ContentPath = *req.ContentPath
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}

	if err := s.courseRepo.Update(course); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.GetCourse(id)
}

func (s *CourseServiceImpl) DeleteCourse(id string) error {
	if _, err := s.courseRepo.FindByID(id); err != nil {
		return apperrors.ErrNotFound(err)
	}
	return s.courseRepo.Delete(id)
}

func (s *CourseServiceImpl) ListCourses(activeOnly bool) ([]*dto.CourseResponse, error) {
	courses, err := s.courseRepo.FindAll(activeOnly)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	responses := make([]*dto.CourseResponse, 0, len(courses))
	for i := range courses {
		count, _ := s.courseRepo.CountEnrollments(courses[i].ID)
		responses = append(responses, buildCourseResponse(&courses[i], count))
	}
	return responses, nil
}

func (s *CourseServiceImpl) GetCourse(id string) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.FindByID(id)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	count, _ := s.courseRepo.CountEnrollments(course.ID)
	return buildCourseResponse(course, count), nil
}

// ---------------- Member operations ----------------

func (s *CourseServiceImpl) ListAccessibleCourses(userID string) ([]*dto.CourseResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if user.MembershipStatus != models.MembershipStatusActive {
		return nil, apperrors.ErrMembershipNotActive
	}

	courses, err := s.courseRepo.FindAccessibleByTier(user.MembershipTier)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	responses := make([]*dto.CourseResponse, 0, len(courses))
	for i := range courses {
		responses = append(responses, buildCourseResponse(&courses[i], 0))
	}
	return responses, nil
}

func (s *CourseServiceImpl) Enroll(userID, courseID string) (*dto.EnrollmentResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if user.MembershipStatus != models.MembershipStatusActive {
		return nil, apperrors.ErrMembershipNotActive
	}

	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err)
	}
	if !course.IsActive {
		return nil, apperrors.ErrNotFound(repositories.ErrCourseNotFound)
	}
	if models.TierRank[user.MembershipTier] < models.TierRank[course.RequiredTier] {
		return nil, apperrors.ErrTierNotSufficient
	}

	enrollment := &models.CourseEnrollment{
		UserID:   userID,
		CourseID: courseID,
	}
	if err := s.courseRepo.Enroll(enrollment); err != nil {
		if err == repositories.ErrAlreadyEnrolled {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, apperrors.InternalError(err)
	}

	return &dto.EnrollmentResponse{
		ID:         enrollment.ID,
		CourseID:   courseID,
		Course:     buildCourseResponse(course, 0),
		EnrolledAt: enrollment.EnrolledAt,
	}, nil
}

func (s *CourseServiceImpl) ListMyEnrollments(userID string) ([]*dto.EnrollmentResponse, error) {
	enrollments, err := s.courseRepo.FindUserEnrollments(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	responses := make([]*dto.EnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		e := &enrollments[i]
		responses = append(responses, &dto.EnrollmentResponse{
			ID:          e.ID,
			CourseID:    e.CourseID,
			Course:      buildCourseResponse(&e.Course, 0),
			EnrolledAt:  e.EnrolledAt,
			CompletedAt: e.CompletedAt,
		})
	}
	return responses, nil
}

// ---------------- Helpers ----------------

func buildCourseResponse(course *models.Course, enrollments int64) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:           course.ID,
		Title:        course.Title,
		Description:  course.Description,
		RequiredTier: course.RequiredTier,
		ContentPath:  course.ContentPath,
		IsActive:     course.IsActive,
		Enrollments:  enrollments,
		CreatedAt:    course.CreatedAt,
	}
}
