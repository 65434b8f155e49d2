package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"memberhub_backend/internal/services"
	"memberhub_backend/internal/services/dto"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

// RegisterAdminRoutes wires the notification center. The whole surface is
// admin-only: members receive messages, they never browse this API.
func (h *NotificationHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications")
	{
		notifications.POST("/send", h.SendBulk)
		notifications.GET("/logs", h.ListLogs)
		notifications.GET("/stats", h.GetDeliveryStats)
		notifications.DELETE("/logs", h.CleanOldLogs)

		templates := notifications.Group("/templates")
		{
			templates.POST("", h.CreateTemplate)
			templates.GET("", h.ListTemplates)
			templates.GET("/:id", h.GetTemplate)
			templates.PUT("/:id", h.UpdateTemplate)
			templates.DELETE("/:id", h.DeleteTemplate)
		}
	}
}

// SendBulk triggers one bulk dispatch and returns the per-recipient outcome
// aggregate. Partial failure is a 200: the response details say who failed.
func (h *NotificationHandler) SendBulk(c *gin.Context) {
	var req dto.SendNotificationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.notificationService.SendBulk(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *NotificationHandler) ListLogs(c *gin.Context) {
	var criteria dto.LogListCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	response, err := h.notificationService.ListLogs(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *NotificationHandler) GetDeliveryStats(c *gin.Context) {
	stats, err := h.notificationService.GetDeliveryStats()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *NotificationHandler) CleanOldLogs(c *gin.Context) {
	days := ParseQueryInt(c, "older_than_days", 90)

	deleted, err := h.notificationService.CleanOldLogs(days)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// ---------------- Templates ----------------

func (h *NotificationHandler) CreateTemplate(c *gin.Context) {
	var req dto.CreateTemplateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	template, err := h.notificationService.CreateTemplate(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, template)
}

func (h *NotificationHandler) ListTemplates(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	templates, err := h.notificationService.ListTemplates(activeOnly)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

func (h *NotificationHandler) GetTemplate(c *gin.Context) {
	template, err := h.notificationService.GetTemplate(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

func (h *NotificationHandler) UpdateTemplate(c *gin.Context) {
	var req dto.UpdateTemplateRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	template, err := h.notificationService.UpdateTemplate(c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, template)
}

func (h *NotificationHandler) DeleteTemplate(c *gin.Context) {
	if err := h.notificationService.DeleteTemplate(c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Template deleted"})
}
