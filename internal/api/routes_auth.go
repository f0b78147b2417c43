package api

import (
	"github.com/gin-gonic/gin"

	"github.com/hirementis/hirementis/internal/handlers"
)

type authRouteDeps struct {
	Handler     *handlers.AuthHandler
	RequireAuth gin.HandlerFunc
	OTPLimit    gin.HandlerFunc
	LoginLimit  gin.HandlerFunc
}

func registerAuthRoutes(engine *gin.Engine, deps authRouteDeps) {
	auth := engine.Group("/auth")
	{
		auth.POST("/signup", deps.OTPLimit, deps.Handler.Signup)
		auth.POST("/send-otp", deps.OTPLimit, deps.Handler.Signup)
		auth.POST("/verify-otp", deps.Handler.VerifyOTP)
		auth.POST("/resend-otp", deps.OTPLimit, deps.Handler.ResendOTP)
		auth.POST("/forgot-password", deps.OTPLimit, deps.Handler.ForgotPassword)
		auth.POST("/login", deps.LoginLimit, deps.Handler.Login)
		auth.GET("/logout", deps.Handler.Logout)

		auth.GET("/checkAuth", deps.RequireAuth, deps.Handler.CheckAuth)
		auth.PUT("/update-profile", deps.RequireAuth, deps.Handler.UpdateProfile)
		auth.POST("/reset-password", deps.RequireAuth, deps.Handler.ResetPassword)
	}
}
