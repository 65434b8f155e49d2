package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"memberhub_backend/internal/services"
	"memberhub_backend/internal/services/dto"
)

type CourseHandler struct {
	*BaseHandler
	courseService services.CourseService
}

func NewCourseHandler(base *BaseHandler, courseService services.CourseService) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   base,
		courseService: courseService,
	}
}

// RegisterRoutes wires the member-side course endpoints.
func (h *CourseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	courses := rg.Group("/courses")
	{
		courses.GET("", h.ListAccessible)
		courses.POST("/:id/enroll", h.Enroll)
		courses.GET("/enrollments", h.MyEnrollments)
	}
}

// RegisterAdminRoutes wires course management.
func (h *CourseHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	courses := rg.Group("/courses")
	{
		courses.POST("", h.Create)
		courses.GET("", h.ListAll)
		courses.GET("/:id", h.Get)
		courses.PUT("/:id", h.Update)
		courses.DELETE("/:id", h.Delete)
	}
}

// ---------------- Member side ----------------

func (h *CourseHandler) ListAccessible(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	courses, err := h.courseService.ListAccessibleCourses(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

func (h *CourseHandler) Enroll(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	enrollment, err := h.courseService.Enroll(userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, enrollment)
}

func (h *CourseHandler) MyEnrollments(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	enrollments, err := h.courseService.ListMyEnrollments(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"enrollments": enrollments})
}

// ---------------- Admin side ----------------

func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	course, err := h.courseService.CreateCourse(&req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) ListAll(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	courses, err := h.courseService.ListCourses(activeOnly)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courseService.GetCourse(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Update(c *gin.Context) {
	var req dto.UpdateCourseRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	course, err := h.courseService.UpdateCourse(c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courseService.DeleteCourse(c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Course deleted"})
}
