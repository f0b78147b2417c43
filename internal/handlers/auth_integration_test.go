package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hirementis/hirementis/internal/handlers/testutil"
	"github.com/hirementis/hirementis/internal/models"
)

func signupPayload(email string) map[string]string {
	return map[string]string{
		"firstName":       "Asha",
		"lastName":        "Rao",
		"email":           email,
		"password":        "secret1",
		"confirmPassword": "secret1",
	}
}

func TestSignupVerifyFlow(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodPost, "/auth/signup", signupPayload("asha@example.com"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "OTP sent successfully", testutil.MessageOf(t, w))

	// no account exists until the code is verified
	var count int64
	require.NoError(t, env.DB.Model(&models.User{}).Count(&count).Error)
	require.EqualValues(t, 0, count)

	code := env.Mailer.LastCode(t)
	w = env.Request(http.MethodPost, "/auth/verify-otp", map[string]string{
		"email": "asha@example.com",
		"otp":   code,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "Signup successful", testutil.MessageOf(t, w))

	cookie := testutil.SessionCookieFrom(w)
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)

	var user models.User
	testutil.DecodeInto(t, testutil.DecodeBody(t, w)["user"], &user)
	require.Equal(t, "asha@example.com", user.Email)
	require.Equal(t, 3, user.Tokens)

	check := env.Request(http.MethodGet, "/auth/checkAuth", nil, cookie)
	require.Equal(t, http.StatusOK, check.Code, check.Body.String())
	var authed models.User
	testutil.DecodeInto(t, testutil.DecodeBody(t, check)["user"], &authed)
	require.Equal(t, user.ID, authed.ID)
}

func TestSignupValidation(t *testing.T) {
	env := testutil.NewEnv(t)
	env.CreateUser("taken@example.com", "secret1")

	cases := []struct {
		name    string
		mutate  func(map[string]string)
		message string
	}{
		{"missing email", func(p map[string]string) { p["email"] = "" }, "Email is required"},
		{"duplicate email", func(p map[string]string) { p["email"] = "taken@example.com" }, "Email already exists!"},
		{"short password", func(p map[string]string) { p["password"] = "abc"; p["confirmPassword"] = "abc" }, "Password must contain at least 6 characters"},
		{"mismatch", func(p map[string]string) { p["confirmPassword"] = "different" }, "Password & confirm password must match"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := signupPayload("fresh@example.com")
			tc.mutate(payload)

			w := env.Request(http.MethodPost, "/auth/signup", payload)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			require.Equal(t, tc.message, testutil.MessageOf(t, w))
		})
	}
}

func TestVerifyOTPRejectsBadCodes(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodPost, "/auth/verify-otp", map[string]string{"email": "", "otp": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Email and OTP are required", testutil.MessageOf(t, w))

	require.Equal(t, http.StatusOK, env.Request(http.MethodPost, "/auth/signup", signupPayload("bad@example.com")).Code)

	w = env.Request(http.MethodPost, "/auth/verify-otp", map[string]string{
		"email": "bad@example.com",
		"otp":   "0000",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Invalid or expired OTP", testutil.MessageOf(t, w))
}

func TestResendOTP(t *testing.T) {
	env := testutil.NewEnv(t)

	require.Equal(t, http.StatusOK, env.Request(http.MethodPost, "/auth/signup", signupPayload("resend@example.com")).Code)

	w := env.Request(http.MethodPost, "/auth/resend-otp", map[string]string{"email": "resend@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "OTP sent successfully", testutil.MessageOf(t, w))

	code := env.Mailer.LastCode(t)
	w = env.Request(http.MethodPost, "/auth/verify-otp", map[string]string{
		"email": "resend@example.com",
		"otp":   code,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// resending without a pending request fails
	w = env.Request(http.MethodPost, "/auth/resend-otp", map[string]string{"email": "nobody@example.com"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "OTP session expired, please sign up again", testutil.MessageOf(t, w))
}

func TestLoginAndLogout(t *testing.T) {
	env := testutil.NewEnv(t)
	env.CreateUser("login@example.com", "secret1")

	w := env.Request(http.MethodPost, "/auth/login", map[string]string{
		"email":    "missing@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "User not found", testutil.MessageOf(t, w))

	w = env.Request(http.MethodPost, "/auth/login", map[string]string{
		"email":    "login@example.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Invalid password", testutil.MessageOf(t, w))

	w = env.Request(http.MethodPost, "/auth/login", map[string]string{
		"email":    "login@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "Login successful", testutil.MessageOf(t, w))
	require.NotNil(t, testutil.SessionCookieFrom(w))

	logout := env.Request(http.MethodGet, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, logout.Code)
	require.Equal(t, "logout successfull", testutil.MessageOf(t, logout))

	cleared := testutil.SessionCookieFrom(logout)
	require.NotNil(t, cleared)
	require.Empty(t, cleared.Value)
}

func TestCheckAuthGuards(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodGet, "/auth/checkAuth", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Unauthorized - No Token Provided", testutil.MessageOf(t, w))

	w = env.Request(http.MethodGet, "/auth/checkAuth", nil, &http.Cookie{Name: "token", Value: "garbage"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Unauthorized - Invalid Token", testutil.MessageOf(t, w))
}

func TestForgotAndResetPassword(t *testing.T) {
	env := testutil.NewEnv(t)
	env.CreateUser("reset@example.com", "secret1")

	w := env.Request(http.MethodPost, "/auth/forgot-password", map[string]string{"email": "reset@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	code := env.Mailer.LastCode(t)
	w = env.Request(http.MethodPost, "/auth/verify-otp", map[string]string{
		"email": "reset@example.com",
		"otp":   code,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "OTP verified successfully", testutil.MessageOf(t, w))

	cookie := testutil.SessionCookieFrom(w)
	require.NotNil(t, cookie)

	w = env.Request(http.MethodPost, "/auth/reset-password", map[string]string{"password": "brandnew1"}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "Password reset successfully", testutil.MessageOf(t, w))

	w = env.Request(http.MethodPost, "/auth/login", map[string]string{
		"email":    "reset@example.com",
		"password": "brandnew1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestForgotPasswordUnknownAccount(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodPost, "/auth/forgot-password", map[string]string{"email": "ghost@example.com"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "User not found", testutil.MessageOf(t, w))
}

func TestUpdateProfile(t *testing.T) {
	env := testutil.NewEnv(t)
	user := env.CreateUser("profile@example.com", "secret1")
	cookie := env.SessionCookie(user.ID)

	w := updateProfile(t, env, cookie, map[string]string{
		"firstName":   "Priya",
		"lastName":    "Sharma",
		"phoneNumber": "9876543210",
		"dob":         "1999-04-12",
		"experience":  "4",
		"role":        "Backend Engineer",
		"linkedIn":    "https://linkedin.com/in/priya",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "Profile updated successfully", testutil.MessageOf(t, w))

	userRaw := testutil.DecodeBody(t, w)["user"]

	// the web client reads user.dob, so the field must serialise under that key
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(userRaw, &fields))
	require.Contains(t, fields, "dob")
	require.Contains(t, fields, "createdAt")

	var updated models.User
	testutil.DecodeInto(t, userRaw, &updated)
	require.Equal(t, "Priya", updated.FirstName)
	require.NotNil(t, updated.DOB)
	require.Equal(t, 1999, updated.DOB.Year())
	require.NotNil(t, updated.Experience)
	require.Equal(t, 4, *updated.Experience)

	w = updateProfile(t, env, cookie, map[string]string{
		"firstName":   "Priya",
		"phoneNumber": "12345",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Invalid phone number", testutil.MessageOf(t, w))

	w = updateProfile(t, env, cookie, map[string]string{"firstName": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "First name cannot be empty", testutil.MessageOf(t, w))
}

func updateProfile(t *testing.T, env *testutil.Env, cookie *http.Cookie, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPut, "/auth/update-profile", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.AddCookie(cookie)

	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)
	return w
}
