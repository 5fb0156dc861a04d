package app

import (
	"time"

	"training_exam_backend/internal/middleware"
	"training_exam_backend/internal/model"
	"training_exam_backend/pkg/monitoring"
	"training_exam_backend/pkg/security"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories) {
	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	window := time.Duration(a.Config.RateLimit.WindowMinutes) * time.Minute

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(
		middleware.AuthMiddleware(a.Config.JWT.Secret),
		middleware.ActivityMiddleware(repos.user),
		security.RateLimiter(a.ctx, a.Config.RateLimit.MaxRequests, window),
	)
	{
		a.registerLearnerRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	exams := rg.Group("/exams")
	{
		exams.GET("/mine", c.attempt.ListMyExams)
		exams.POST("/:id/attempts", c.attempt.StartAttempt)
	}

	attempts := rg.Group("/attempts")
	{
		attempts.GET("/:id", c.attempt.GetAttempt)
		attempts.PUT("/:id/answers", c.attempt.SaveAnswer)
		attempts.POST("/:id/submit", c.attempt.SubmitAttempt)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Manager))
	{
		admin.GET("/exams/:id/attempts", c.attempt.ListExamAttempts)
		admin.PATCH("/attempts/:id/override", c.attempt.OverrideAttempt)
	}
}
