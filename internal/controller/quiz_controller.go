package controller

import (
	"strconv"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService     *service.QuizService
	CourseService   *service.CourseService
	ProgressService *service.ProgressService
}

func NewQuizController(
	quizService *service.QuizService,
	courseService *service.CourseService,
	progressService *service.ProgressService,
) *QuizController {
	return &QuizController{
		QuizService:     quizService,
		CourseService:   courseService,
		ProgressService: progressService,
	}
}

// @Summary List quizzes of a course
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	courseID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid course ID")
		return
	}

	quizzes, err := c.QuizService.ListByCourse(uint(courseID))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, quizzes)
}

// @Summary Get a quiz for taking
// @Description Learner-facing view without the correct answer flags
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid quiz ID")
		return
	}

	view, err := c.QuizService.StudentView(uint(id))
	if err != nil {
		switch err {
		case util.ErrNotFound:
			util.NotFound(ctx)
		case util.ErrQuizNotActive:
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, view)
}

// @Summary Get a quiz with answers
// @Description Full quiz including correct flags, for course managers
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id}/full [get]
func (c *QuizController) GetQuizFull(ctx *gin.Context) {
	quiz, ok := c.requireQuizAccess(ctx)
	if !ok {
		return
	}

	util.Success(ctx, quiz)
}

// @Summary Create a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Param quiz body service.QuizRequest true "Quiz fields"
// @Success 201 {object} util.Response
// @Router /api/courses/{id}/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	courseID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid course ID")
		return
	}

	course, err := c.CourseService.Get(uint(courseID))
	if err != nil {
		if err == util.ErrCourseNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	if !c.CourseService.CanManage(course, util.GetUserFromContext(ctx)) {
		util.Forbidden(ctx)
		return
	}

	var req service.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.Create(uint(courseID), req)
	if err != nil {
		if err == util.ErrInvalidInput {
			util.BadRequest(ctx, "every question needs at least one correct option")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, quiz)
}

// @Summary Update a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Param quiz body service.QuizRequest true "Quiz fields"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id} [put]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	quiz, ok := c.requireQuizAccess(ctx)
	if !ok {
		return
	}

	var req service.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.QuizService.Update(quiz.ID, req)
	if err != nil {
		if err == util.ErrInvalidInput {
			util.BadRequest(ctx, "every question needs at least one correct option")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, updated)
}

type QuizActiveRequest struct {
	Active bool `json:"active"`
}

// @Summary Activate or deactivate a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Param body body QuizActiveRequest true "Active flag"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id}/active [patch]
func (c *QuizController) SetQuizActive(ctx *gin.Context) {
	quiz, ok := c.requireQuizAccess(ctx)
	if !ok {
		return
	}

	var req QuizActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.QuizService.SetActive(quiz.ID, req.Active)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, updated)
}

// @Summary Delete a quiz
// @Description Removes the quiz and its attempts from every learner's record
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	quiz, ok := c.requireQuizAccess(ctx)
	if !ok {
		return
	}

	if err := c.QuizService.Delete(ctx.Request.Context(), quiz.ID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Quiz deleted"})
}

// @Summary Submit a quiz attempt
// @Description Grades the submission and appends it to the learner's record
// @Tags quizzes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Param submission body service.QuizSubmissionRequest true "Selected options per question"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid quiz ID")
		return
	}

	var req service.QuizSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.Submit(ctx.Request.Context(), user.UserID, uint(id), req)
	if err != nil {
		switch err {
		case util.ErrNotFound, util.ErrQuizNotActive:
			util.NotFound(ctx)
		case util.ErrInvalidInput:
			util.BadRequest(ctx, "submission must answer every question exactly once")
		case util.ErrAttemptLimit:
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// @Summary Best score for a quiz
// @Tags quizzes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id}/best [get]
func (c *QuizController) BestScore(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid quiz ID")
		return
	}

	quiz, err := c.QuizService.Get(uint(id))
	if err != nil {
		if err == util.ErrNotFound {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	best, err := c.ProgressService.BestScore(user.UserID, quiz.CourseID, quiz.ID)
	if err != nil {
		switch err {
		case util.ErrNotEnrolled, util.ErrNotFound:
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, best)
}

// requireQuizAccess loads the quiz from the :id param and enforces
// ownership of its course. Writes the error response itself on failure.
func (c *QuizController) requireQuizAccess(ctx *gin.Context) (*model.Quiz, bool) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "Invalid quiz ID")
		return nil, false
	}

	quiz, err := c.QuizService.Get(uint(id))
	if err != nil {
		if err == util.ErrNotFound {
			util.NotFound(ctx)
			return nil, false
		}
		util.LogInternalError(ctx, err)
		return nil, false
	}

	course, err := c.CourseService.Get(quiz.CourseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return nil, false
	}

	if !c.CourseService.CanManage(course, util.GetUserFromContext(ctx)) {
		util.Forbidden(ctx)
		return nil, false
	}

	return quiz, true
}
