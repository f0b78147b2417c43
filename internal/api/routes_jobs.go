package api

import (
	"github.com/gin-gonic/gin"

	"github.com/hirementis/hirementis/internal/handlers"
)

type jobRouteDeps struct {
	Handler      *handlers.JobHandler
	RequireAdmin gin.HandlerFunc
}

func registerJobRoutes(engine *gin.Engine, deps jobRouteDeps) {
	jobs := engine.Group("/job")
	{
		jobs.GET("/all-jobs", deps.Handler.List)
		jobs.GET("/:id", deps.Handler.GetByID)

		jobs.POST("/add-job", deps.RequireAdmin, deps.Handler.Create)
		jobs.PUT("/:jobId", deps.RequireAdmin, deps.Handler.Update)
		jobs.DELETE("/:jobId", deps.RequireAdmin, deps.Handler.Delete)
	}
}
