package controller

import (
	"context"
	"strconv"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// @Summary Enroll in a course
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Success 201 {object} util.Response
// @Router /api/courses/{id}/enroll [post]
func (c *ProgressController) Enroll(ctx *gin.Context) {
	user, courseID, ok := c.userAndCourse(ctx)
	if !ok {
		return
	}

	record, err := c.ProgressService.Enroll(ctx.Request.Context(), user.UserID, courseID)
	if err != nil {
		switch err {
		case util.ErrCourseNotFound:
			util.NotFound(ctx)
		case util.ErrAlreadyEnrolled:
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, record)
}

// @Summary Unenroll from a course
// @Description Drops the enrollment and the whole progress record with it
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/enroll [delete]
func (c *ProgressController) Unenroll(ctx *gin.Context) {
	user, courseID, ok := c.userAndCourse(ctx)
	if !ok {
		return
	}

	if err := c.ProgressService.Unenroll(ctx.Request.Context(), user.UserID, courseID); err != nil {
		if err == util.ErrNotEnrolled {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Enrollment removed"})
}

// @Summary List own enrollments
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/my/courses [get]
func (c *ProgressController) ListMyCourses(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	records, err := c.ProgressService.ListForUser(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, records)
}

// @Summary Get course progress
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	user, courseID, ok := c.userAndCourse(ctx)
	if !ok {
		return
	}

	record, err := c.ProgressService.Get(user.UserID, courseID)
	if err != nil {
		if err == util.ErrNotEnrolled {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, record)
}

// @Summary Mark a lesson completed
// @Tags progress
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Param body body service.LessonProgressRequest true "Time spent and watched percentage"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/complete [post]
func (c *ProgressController) CompleteLesson(ctx *gin.Context) {
	c.lessonEvent(ctx, c.ProgressService.CompleteLesson)
}

// @Summary Report lesson watch progress
// @Description Watching 80% or more completes the lesson automatically
// @Tags progress
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Param body body service.LessonProgressRequest true "Time spent and watched percentage"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/watch [post]
func (c *ProgressController) WatchLesson(ctx *gin.Context) {
	c.lessonEvent(ctx, c.ProgressService.WatchLesson)
}

// @Summary Request a completion certificate
// @Description Issued once, only after the course reaches 100%
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/certificate [post]
func (c *ProgressController) IssueCertificate(ctx *gin.Context) {
	user, courseID, ok := c.userAndCourse(ctx)
	if !ok {
		return
	}

	record, err := c.ProgressService.IssueCertificate(ctx.Request.Context(), user.UserID, courseID)
	if err != nil {
		switch err {
		case util.ErrNotEnrolled:
			util.NotFound(ctx)
		case util.ErrNotEligible:
			util.BadRequest(ctx, err.Error())
		case util.ErrCertificateIssued:
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"certificateSerial":   record.CertificateSerial,
		"certificateIssuedAt": record.CertificateIssuedAt,
	})
}

// @Summary Get the issued certificate
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/certificate [get]
func (c *ProgressController) GetCertificate(ctx *gin.Context) {
	user, courseID, ok := c.userAndCourse(ctx)
	if !ok {
		return
	}

	record, err := c.ProgressService.Get(user.UserID, courseID)
	if err != nil {
		if err == util.ErrNotEnrolled {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	if !record.CertificateIssued {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, gin.H{
		"certificateSerial":   record.CertificateSerial,
		"certificateIssuedAt": record.CertificateIssuedAt,
	})
}

func (c *ProgressController) lessonEvent(
	ctx *gin.Context,
	apply func(context.Context, uint, uint, service.LessonProgressRequest) (*model.CourseProgress, error),
) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	lessonID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid lesson ID")
		return
	}

	var req service.LessonProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, err := apply(ctx.Request.Context(), user.UserID, uint(lessonID), req)
	if err != nil {
		if err == util.ErrNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, record)
}

func (c *ProgressController) userAndCourse(ctx *gin.Context) (*util.Claims, uint, bool) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return nil, 0, false
	}

	courseID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid course ID")
		return nil, 0, false
	}

	return user, uint(courseID), true
}
