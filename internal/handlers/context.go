package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/hirementis/hirementis/internal/middleware"
	"github.com/hirementis/hirementis/internal/models"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// currentUser returns the account attached by the auth middleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(middleware.CtxUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
