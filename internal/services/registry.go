package services

import (
	"memberhub_backend/internal/email"
	"memberhub_backend/internal/storage"
)

// ServiceContainer holds every service the handlers depend on.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	NotificationService NotificationService
	SubscriptionService SubscriptionService
	CourseService       CourseService
	UploadService       UploadService
	ReportService       ReportService
	SettingsService     SettingsService
	EmailService        email.Provider
	Storage             storage.Storage
}
