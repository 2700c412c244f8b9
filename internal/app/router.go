package app

import (
	"study_session_gateway/internal/config"
	"study_session_gateway/internal/middleware"
	"study_session_gateway/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 读接口：容忍缺token，匿名也能看缓存快照
	readGroup := router.Group("/api")
	readGroup.Use(middleware.TryAuthMiddleware(cfg))
	{
		readGroup.GET("/session", c.session.GetState)
		readGroup.GET("/content", c.content.GetStates)
		readGroup.GET("/quiz", c.quiz.GetState)
		readGroup.GET("/goals", c.goal.List)
		readGroup.GET("/dashboard/summary", c.dashboard.Summary)
		readGroup.GET("/dashboard/snapshot", c.dashboard.Snapshot)
		readGroup.GET("/study-plan/progress", c.studyPlan.GetProgress)
	}

	// 写接口：强制认证
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.POST("/session/module", c.session.StartModule)
		authGroup.DELETE("/session/module", c.session.ClearModule)
		authGroup.PATCH("/session", c.session.Patch)
		authGroup.POST("/session/chat", c.session.Chat)

		authGroup.POST("/content/article", c.content.FetchArticle)
		authGroup.POST("/content/video", c.content.FetchVideo)

		authGroup.POST("/quiz/generate", c.quiz.Generate)
		authGroup.POST("/quiz/answer", c.quiz.Answer)
		authGroup.POST("/quiz/submit", c.quiz.Submit)

		authGroup.POST("/study-plan/generate", c.studyPlan.Generate)
		authGroup.POST("/study-plan/complete", c.studyPlan.Complete)

		authGroup.POST("/goals", c.goal.Create)
		authGroup.DELETE("/goals/:id", c.goal.Delete)
	}
}
