package app

import (
	"algoquiz_backend/internal/config"
	"algoquiz_backend/internal/middleware"
	"algoquiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		// 测验目录与提交
		authGroup.GET("/quizzes", c.quiz.ListQuizzes)
		authGroup.GET("/quizzes/:id", c.quiz.GetQuiz)
		authGroup.POST("/quizzes/:id/submit", c.quiz.SubmitAttempt)

		// 进度与成就
		authGroup.GET("/progress/summary", c.progress.GetSummary)
		authGroup.GET("/progress/weekly", c.progress.GetWeekly)
		authGroup.GET("/achievements", c.achievement.GetUserAchievements)
		authGroup.POST("/achievements/evaluate", c.achievement.Reevaluate)
	}
}
