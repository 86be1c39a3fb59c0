package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/studypath/studypath-backend/internal/handlers"
	"github.com/studypath/studypath-backend/internal/middleware"
)

type RouterConfig struct {
	CORSOrigins    []string
	AuthMiddleware *middleware.AuthMiddleware
	SyncHandler    *handlers.SyncHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.LearnerContext())

	// Course state is readable anonymously; progress is simply zero.
	api.GET("/courses/:courseID/progress", cfg.SyncHandler.GetCourseState)
	api.POST("/courses/:courseID/progress/refresh", cfg.SyncHandler.RefreshCourseState)
	api.POST("/courses/:courseID/progress/error/clear", cfg.SyncHandler.ClearError)
	api.POST("/courses/:courseID/progress/undo-success/clear", cfg.SyncHandler.ClearUndoSuccess)
	api.DELETE("/courses/:courseID/progress", cfg.SyncHandler.CloseSession)

	protected := api.Group("")
	protected.Use(cfg.AuthMiddleware.RequireLearner())
	protected.POST("/courses/:courseID/lessons/:lessonID/complete", cfg.SyncHandler.CompleteLesson)
	protected.POST("/courses/:courseID/lessons/:lessonID/complete/undo", cfg.SyncHandler.UndoLesson)

	return router
}
