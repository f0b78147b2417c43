package middleware

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	iauth "github.com/hirementis/hirementis/internal/auth"
	"github.com/hirementis/hirementis/internal/models"
	"github.com/hirementis/hirementis/pkg/errors"
	"github.com/hirementis/hirementis/pkg/response"
)

const (
	CtxUserKey   = "currentUser"
	CtxUserIDKey = "userID"
)

// Auth enforces cookie-based session authentication. The token subject is
// resolved against the user table on every request so a deleted account is
// rejected immediately.
func Auth(sessions *iauth.SessionService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(iauth.CookieName)
		if err != nil || token == "" {
			response.Error(c, errors.ErrNoToken)
			c.Abort()
			return
		}

		claims, err := sessions.Verify(token)
		if err != nil {
			response.Error(c, errors.ErrInvalidToken)
			c.Abort()
			return
		}

		var user models.User
		err = db.WithContext(c.Request.Context()).First(&user, "id = ?", claims.UserID).Error
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, errors.NewNotFound("User not found"))
			c.Abort()
			return
		}
		if err != nil {
			response.Error(c, errors.ErrInternalServer.WithInternal(err))
			c.Abort()
			return
		}

		c.Set(CtxUserKey, &user)
		c.Set(CtxUserIDKey, user.ID)

		c.Next()
	}
}

// Admin allows only administrator accounts through. The admin flag is read
// from the user record, never from the token.
func Admin(sessions *iauth.SessionService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(iauth.CookieName)
		if err != nil || token == "" {
			response.Error(c, errors.ErrLoginRequired)
			c.Abort()
			return
		}

		claims, err := sessions.Verify(token)
		if err != nil {
			response.Error(c, errors.ErrLoginRequired)
			c.Abort()
			return
		}

		var user models.User
		err = db.WithContext(c.Request.Context()).First(&user, "id = ?", claims.UserID).Error
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, errors.ErrAccessDenied)
			c.Abort()
			return
		}
		if err != nil {
			response.Error(c, errors.ErrInternalServer.WithInternal(err))
			c.Abort()
			return
		}

		if !user.IsAdmin {
			response.Error(c, errors.ErrAccessDenied)
			c.Abort()
			return
		}

		c.Set(CtxUserKey, &user)
		c.Set(CtxUserIDKey, user.ID)

		c.Next()
	}
}
