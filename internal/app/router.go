package app

import (
	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c, cfg)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerLearnerRoutes(authGroup, c)
		a.registerInstructorRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// catalog browsing works for guests; a token widens what is visible
		public.GET("/courses", middleware.TryAuthMiddleware(cfg), c.course.ListCourses)
		public.GET("/courses/:id", middleware.TryAuthMiddleware(cfg), c.course.GetCourse)
		public.GET("/courses/:id/lessons", middleware.TryAuthMiddleware(cfg), c.lesson.ListLessons)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/user/profile", c.user.UpdateProfile)
	rg.POST("/user/avatar/upload", c.user.UploadAvatar)

	rg.GET("/my/courses", c.progress.ListMyCourses)

	rg.POST("/courses/:id/enroll", c.progress.Enroll)
	rg.DELETE("/courses/:id/enroll", c.progress.Unenroll)
	rg.GET("/courses/:id/progress", c.progress.GetProgress)
	rg.POST("/courses/:id/certificate", c.progress.IssueCertificate)
	rg.GET("/courses/:id/certificate", c.progress.GetCertificate)

	rg.GET("/lessons/:id", c.lesson.GetLesson)
	rg.POST("/lessons/:id/complete", c.progress.CompleteLesson)
	rg.POST("/lessons/:id/watch", c.progress.WatchLesson)

	rg.GET("/courses/:id/quizzes", c.quiz.ListQuizzes)
	rg.GET("/quizzes/:id", c.quiz.GetQuiz)
	rg.POST("/quizzes/:id/submit", c.quiz.SubmitQuiz)
	rg.GET("/quizzes/:id/best", c.quiz.BestScore)
}

func (a *App) registerInstructorRoutes(rg *gin.RouterGroup, c *controllers) {
	manage := rg.Group("/")
	manage.Use(middleware.RoleMiddleware(model.Instructor))
	{
		manage.GET("/instructor/courses", c.course.ListOwnCourses)
		manage.POST("/courses", c.course.CreateCourse)
		manage.PUT("/courses/:id", c.course.UpdateCourse)
		manage.PATCH("/courses/:id/publish", c.course.PublishCourse)
		manage.DELETE("/courses/:id", c.course.DeleteCourse)

		manage.POST("/courses/:id/lessons", c.lesson.CreateLesson)
		manage.PUT("/lessons/:id", c.lesson.UpdateLesson)
		manage.DELETE("/lessons/:id", c.lesson.DeleteLesson)
		manage.POST("/lessons/:id/video", c.lesson.UploadVideo)

		manage.POST("/courses/:id/quizzes", c.quiz.CreateQuiz)
		manage.GET("/quizzes/:id/full", c.quiz.GetQuizFull)
		manage.PUT("/quizzes/:id", c.quiz.UpdateQuiz)
		manage.PATCH("/quizzes/:id/active", c.quiz.SetQuizActive)
		manage.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)
	}
}
