package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"memberhub_backend/internal/services"
	"memberhub_backend/internal/services/dto"
)

type SubscriptionHandler struct {
	*BaseHandler
	subscriptionService services.SubscriptionService
}

func NewSubscriptionHandler(base *BaseHandler, subscriptionService services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		BaseHandler:         base,
		subscriptionService: subscriptionService,
	}
}

// RegisterRoutes wires the member-side subscription endpoints.
func (h *SubscriptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	subscriptions := rg.Group("/subscriptions")
	{
		subscriptions.POST("/requests", h.SubmitRequest)
		subscriptions.GET("/requests", h.GetMyRequests)
		subscriptions.GET("/payments", h.GetMyPayments)
	}
}

// RegisterAdminRoutes wires the admin review queue.
func (h *SubscriptionHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	subscriptions := rg.Group("/subscriptions")
	{
		subscriptions.GET("/requests", h.ListRequests)
		subscriptions.GET("/requests/:id", h.GetRequest)
		subscriptions.POST("/requests/:id/approve", h.ApproveRequest)
		subscriptions.POST("/requests/:id/reject", h.RejectRequest)
		subscriptions.GET("/payments", h.ListAllPayments)
	}
}

// ---------------- Member side ----------------

func (h *SubscriptionHandler) SubmitRequest(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSubscriptionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.subscriptionService.SubmitRequest(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *SubscriptionHandler) GetMyRequests(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	requests, err := h.subscriptionService.GetMyRequests(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h *SubscriptionHandler) GetMyPayments(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	response, err := h.subscriptionService.ListPayments(userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ---------------- Admin side ----------------

func (h *SubscriptionHandler) ListRequests(c *gin.Context) {
	var criteria dto.RequestListCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	response, err := h.subscriptionService.ListRequests(criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *SubscriptionHandler) GetRequest(c *gin.Context) {
	request, err := h.subscriptionService.GetRequest(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *SubscriptionHandler) ApproveRequest(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ResolveSubscriptionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.subscriptionService.ApproveRequest(c.Param("id"), adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *SubscriptionHandler) RejectRequest(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ResolveSubscriptionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.subscriptionService.RejectRequest(c.Param("id"), adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *SubscriptionHandler) ListAllPayments(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	// Empty userID widens the query to all members.
	response, err := h.subscriptionService.ListPayments("", page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
