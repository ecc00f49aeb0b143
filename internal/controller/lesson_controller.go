package controller

import (
	"strconv"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
	CourseService *service.CourseService
}

func NewLessonController(lessonService *service.LessonService, courseService *service.CourseService) *LessonController {
	return &LessonController{
		LessonService: lessonService,
		CourseService: courseService,
	}
}

// @Summary List lessons of a course
// @Tags lessons
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/lessons [get]
func (c *LessonController) ListLessons(ctx *gin.Context) {
	courseID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid course ID")
		return
	}

	lessons, err := c.LessonService.ListByCourse(uint(courseID))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, lessons)
}

// @Summary Get a lesson
// @Tags lessons
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id} [get]
func (c *LessonController) GetLesson(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid lesson ID")
		return
	}

	lesson, err := c.LessonService.Get(uint(id))
	if err != nil {
		if err == util.ErrNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, lesson)
}

// @Summary Add a lesson to a course
// @Tags lessons
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Param lesson body service.LessonRequest true "Lesson fields"
// @Success 201 {object} util.Response
// @Router /api/courses/{id}/lessons [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	courseID, ok := c.requireCourseAccess(ctx, "id")
	if !ok {
		return
	}

	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.Create(courseID, req)
	if err != nil {
		if err == util.ErrCourseNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, lesson)
}

// @Summary Update a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Param lesson body service.LessonRequest true "Lesson fields"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	lessonID, ok := c.requireLessonAccess(ctx)
	if !ok {
		return
	}

	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.Update(lessonID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, lesson)
}

// @Summary Delete a lesson
// @Description Removes the lesson and prunes it from every learner's progress
// @Tags lessons
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	lessonID, ok := c.requireLessonAccess(ctx)
	if !ok {
		return
	}

	if err := c.LessonService.Delete(ctx.Request.Context(), lessonID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Lesson deleted"})
}

// @Summary Upload a lesson video
// @Tags lessons
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Lesson ID"
// @Param file formData file true "Video file"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/video [post]
func (c *LessonController) UploadVideo(ctx *gin.Context) {
	lessonID, ok := c.requireLessonAccess(ctx)
	if !ok {
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}

	lesson, err := c.LessonService.UploadVideo(ctx.Request.Context(), lessonID, file)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, lesson)
}

func (c *LessonController) requireCourseAccess(ctx *gin.Context, param string) (uint, bool) {
	courseID, err := strconv.Atoi(ctx.Param(param))
	if err != nil {
		util.BadRequest(ctx, "Invalid course ID")
		return 0, false
	}

	course, err := c.CourseService.Get(uint(courseID))
	if err != nil {
		if err == util.ErrCourseNotFound {
			util.NotFound(ctx)
			return 0, false
		}
		util.LogInternalError(ctx, err)
		return 0, false
	}

	if !c.CourseService.CanManage(course, util.GetUserFromContext(ctx)) {
		util.Forbidden(ctx)
		return 0, false
	}

	return uint(courseID), true
}

func (c *LessonController) requireLessonAccess(ctx *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid lesson ID")
		return 0, false
	}

	lesson, err := c.LessonService.Get(uint(id))
	if err != nil {
		if err == util.ErrNotFound {
			util.NotFound(ctx)
			return 0, false
		}
		util.LogInternalError(ctx, err)
		return 0, false
	}

	course, err := c.CourseService.Get(lesson.CourseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return 0, false
	}

	if !c.CourseService.CanManage(course, util.GetUserFromContext(ctx)) {
		util.Forbidden(ctx)
		return 0, false
	}

	return uint(id), true
}
