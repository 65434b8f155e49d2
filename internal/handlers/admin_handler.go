package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"memberhub_backend/internal/services"
	"memberhub_backend/pkg/apperrors"
)

// AdminHandler covers the small admin surfaces that do not warrant their own
// handler: platform settings and the storage usage report.
type AdminHandler struct {
	*BaseHandler
	settingsService services.SettingsService
	reportService   services.ReportService
}

func NewAdminHandler(base *BaseHandler, settingsService services.SettingsService, reportService services.ReportService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:     base,
		settingsService: settingsService,
		reportService:   reportService,
	}
}

func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/settings", h.GetSettings)
	rg.PUT("/settings", h.UpdateSettings)
	rg.GET("/reports/storage", h.GetStorageUsage)
}

func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetAll()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBind(&values); err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return
	}

	settings, err := h.settingsService.Update(values)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *AdminHandler) GetStorageUsage(c *gin.Context) {
	report, err := h.reportService.GetStorageUsage(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
