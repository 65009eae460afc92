package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/coursehub/course-service/internal/app/models"
	"github.com/coursehub/course-service/internal/app/models/dto"
	"github.com/coursehub/course-service/internal/app/services"
	"github.com/coursehub/course-service/internal/middleware"
)

// CourseController handles course catalog requests
type CourseController struct {
	courseService services.CourseService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService) *CourseController {
	return &CourseController{
		courseService: courseService,
	}
}

// parseCourseID resolves the :id path parameter. An unparseable id can
// never name a course, so it answers 404 like any other unknown id.
func parseCourseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse("Course not found"))
		return 0, false
	}
	return id, true
}

// GetAllCourses handles GET /courses
func (c *CourseController) GetAllCourses(ctx *gin.Context) {
	courses, err := c.courseService.ListCourses(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, courses)
}

// GetCourseByID handles GET /courses/:id. The response carries the base
// course fields plus the live enrolled_count and available_seats, which
// degrade to "unavailable" when the enrollment service cannot answer.
func (c *CourseController) GetCourseByID(ctx *gin.Context) {
	id, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	view, err := c.courseService.GetCourseWithAvailability(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, view)
}

// CreateCourse handles POST /courses (admin only)
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("name, capacity, and credits are required"))
		} else {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body"))
		}
		return
	}

	course := &models.Course{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		Credits:     req.Credits,
	}

	created, err := c.courseService.CreateCourse(ctx.Request.Context(), course)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// UpdateCourse handles PUT /courses/:id (admin only). Fields absent from
// the body are left unchanged; a present field is written even when it
// is empty, so a description can be cleared.
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid request body"))
		return
	}

	update := models.CourseUpdate{
		Name:        req.Name,
		Description: req.Description,
		Credits:     req.Credits,
	}

	course, err := c.courseService.UpdateCourse(ctx.Request.Context(), id, update)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, course)
}

// UpdateCapacity handles PUT /courses/:id/capacity. The caller is the
// enrollment service, trusted by network reachability alone; there is
// deliberately no credential check on this route.
func (c *CourseController) UpdateCapacity(ctx *gin.Context) {
	id, ok := parseCourseID(ctx)
	if !ok {
		return
	}

	var req dto.CapacityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("action must be 'increment' or 'decrement'"))
		return
	}

	course, err := c.courseService.AdjustCapacity(ctx.Request.Context(), id, req.Action)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, course)
}
