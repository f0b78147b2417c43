package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hirementis/hirementis/internal/handlers/testutil"
	"github.com/hirementis/hirementis/internal/models"
)

func feedbackPayload() map[string]any {
	return map[string]any{
		"job": map[string]any{
			"id":       "job-1",
			"company":  "Acme",
			"title":    "Backend Engineer",
			"role":     "Backend",
			"salary":   "$120k",
			"location": "Remote",
		},
		"feedback": map[string]any{
			"rating": map[string]float64{
				"technicalSkills": 8,
				"communication":   7,
				"problemSolving":  9,
				"experience":      6,
			},
			"summary":           []string{"Strong fundamentals"},
			"recommendation":    "hire",
			"recommendationMsg": "Solid candidate",
		},
	}
}

func TestFeedbackRequiresSession(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodPost, "/feedback/save", feedbackPayload())
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Unauthorized - No Token Provided", testutil.MessageOf(t, w))
}

func TestFeedbackSaveDebitsToken(t *testing.T) {
	env := testutil.NewEnv(t)
	user := env.CreateUser("candidate@example.com", "secret1")
	cookie := env.SessionCookie(user.ID)

	w := env.Request(http.MethodPost, "/feedback/save", feedbackPayload(), cookie)
	// the client treats a successful save as a plain 200, not a 201
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "Feedback saved successfully", testutil.MessageOf(t, w))

	body := testutil.DecodeBody(t, w)

	var updated models.User
	testutil.DecodeInto(t, body["user"], &updated)
	require.Equal(t, 2, updated.Tokens)

	var feedback models.Feedback
	testutil.DecodeInto(t, body["feedback"], &feedback)
	require.NotEmpty(t, feedback.ID)
	require.Equal(t, user.ID, feedback.UserID)
}

func TestFeedbackSaveValidation(t *testing.T) {
	env := testutil.NewEnv(t)
	user := env.CreateUser("strict@example.com", "secret1")
	cookie := env.SessionCookie(user.ID)

	w := env.Request(http.MethodPost, "/feedback/save", map[string]any{}, cookie)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Job and feedback are required.", testutil.MessageOf(t, w))
}

func TestFeedbackSaveRejectsEmptyBalance(t *testing.T) {
	env := testutil.NewEnv(t)
	user := env.CreateUser("broke@example.com", "secret1")
	require.NoError(t, env.DB.Model(user).Update("tokens", 0).Error)
	cookie := env.SessionCookie(user.ID)

	w := env.Request(http.MethodPost, "/feedback/save", feedbackPayload(), cookie)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "No interview tokens left", testutil.MessageOf(t, w))

	var count int64
	require.NoError(t, env.DB.Model(&models.Feedback{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestFeedbackListAndGetScopedToOwner(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.CreateUser("owner@example.com", "secret1")
	stranger := env.CreateUser("stranger@example.com", "secret1")
	ownerCookie := env.SessionCookie(owner.ID)

	w := env.Request(http.MethodPost, "/feedback/save", feedbackPayload(), ownerCookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var saved models.Feedback
	testutil.DecodeInto(t, testutil.DecodeBody(t, w)["feedback"], &saved)

	w = env.Request(http.MethodGet, "/feedback/user-feedbacks", nil, ownerCookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "feedback fetched successfully", testutil.MessageOf(t, w))
	var list []models.Feedback
	testutil.DecodeInto(t, testutil.DecodeBody(t, w)["feedbacks"], &list)
	require.Len(t, list, 1)

	w = env.Request(http.MethodGet, "/feedback/"+saved.ID, nil, ownerCookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "feedback fetched successfully", testutil.MessageOf(t, w))

	w = env.Request(http.MethodGet, "/feedback/"+saved.ID, nil, env.SessionCookie(stranger.ID))
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "feedback not found", testutil.MessageOf(t, w))
}
