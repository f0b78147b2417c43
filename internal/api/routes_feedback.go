package api

import (
	"github.com/gin-gonic/gin"

	"github.com/hirementis/hirementis/internal/handlers"
)

type feedbackRouteDeps struct {
	Handler     *handlers.FeedbackHandler
	RequireAuth gin.HandlerFunc
}

func registerFeedbackRoutes(engine *gin.Engine, deps feedbackRouteDeps) {
	feedback := engine.Group("/feedback")
	feedback.Use(deps.RequireAuth)
	{
		feedback.POST("/save", deps.Handler.Save)
		feedback.GET("/user-feedbacks", deps.Handler.ListByUser)
		feedback.GET("/:id", deps.Handler.GetByID)
	}
}
