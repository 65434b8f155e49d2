package handlers

// AppHandlers holds every handler the router wires up.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	NotificationHandler *NotificationHandler
	SubscriptionHandler *SubscriptionHandler
	CourseHandler       *CourseHandler
	UploadHandler       *UploadHandler
	AdminHandler        *AdminHandler
	HealthHandler       *HealthHandler
}
