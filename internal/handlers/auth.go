package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	iauth "github.com/hirementis/hirementis/internal/auth"
	"github.com/hirementis/hirementis/internal/services"
	"github.com/hirementis/hirementis/pkg/errors"
	"github.com/hirementis/hirementis/pkg/response"
)

// AuthHandler manages the OTP signup flow, login/logout, session
// introspection, and profile updates.
type AuthHandler struct {
	sessions *iauth.SessionService
	users    *services.UserService
	otp      *services.OTPService
}

func NewAuthHandler(sessions *iauth.SessionService, users *services.UserService, otp *services.OTPService) *AuthHandler {
	return &AuthHandler{sessions: sessions, users: users, otp: otp}
}

type signupRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// POST /auth/signup and /auth/send-otp
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if !bindAndValidate(c, &req) {
		return
	}

	err := h.otp.RequestSignup(requestContext(c), services.SignupInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "OTP sent successfully")
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// POST /auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, created, err := h.otp.Verify(requestContext(c), req.Email, req.OTP)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.sessions.Issue(user.ID)
	if err != nil {
		response.Error(c, errors.ErrInternalServer.WithInternal(err))
		return
	}
	h.sessions.SetCookie(c, token)

	message := "OTP verified successfully"
	if created {
		message = "Signup successful"
	}
	response.MessageWith(c, http.StatusOK, message, response.H{"user": user})
}

type emailRequest struct {
	Email string `json:"email"`
}

// POST /auth/resend-otp
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req emailRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.otp.Resend(requestContext(c), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "OTP sent successfully")
}

// POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.otp.RequestReset(requestContext(c), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "OTP sent successfully")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.Login(requestContext(c), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.sessions.Issue(user.ID)
	if err != nil {
		response.Error(c, errors.ErrInternalServer.WithInternal(err))
		return
	}
	h.sessions.SetCookie(c, token)

	response.MessageWith(c, http.StatusOK, "Login successful", response.H{"user": user})
}

// GET /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.ClearCookie(c)
	response.Message(c, http.StatusOK, "logout successfull")
}

// GET /auth/checkAuth
func (h *AuthHandler) CheckAuth(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, errors.ErrNoToken)
		return
	}

	refreshed, err := h.users.CheckAuth(requestContext(c), user.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, response.H{"user": refreshed})
}

// PUT /auth/update-profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, errors.ErrNoToken)
		return
	}

	input := services.ProfileInput{
		FirstName:   c.PostForm("firstName"),
		LastName:    c.PostForm("lastName"),
		PhoneNumber: c.PostForm("phoneNumber"),
		DOB:         c.PostForm("dob"),
		Experience:  c.PostForm("experience"),
		Role:        c.PostForm("role"),
		Address:     c.PostForm("address"),
		Resume:      c.PostForm("resume"),
		Github:      c.PostForm("github"),
		LinkedIn:    c.PostForm("linkedIn"),
		Twitter:     c.PostForm("twitter"),
		Leetcode:    c.PostForm("leetcode"),
	}

	avatar, err := c.FormFile("image")
	if err != nil {
		avatar = nil
	}

	updated, err := h.users.UpdateProfile(requestContext(c), user.ID, input, avatar)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.MessageWith(c, http.StatusOK, "Profile updated successfully", response.H{"user": updated})
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// POST /auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		response.Error(c, errors.ErrNoToken)
		return
	}

	var req resetPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.users.ResetPassword(requestContext(c), user.ID, req.Password); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Password reset successfully")
}
