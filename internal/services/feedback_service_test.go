package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hirementis/hirementis/internal/database/testutil"
	"github.com/hirementis/hirementis/internal/models"
)

func sampleSnapshot() JobSnapshot {
	return JobSnapshot{
		ID:       "job-1",
		Company:  "Acme",
		Title:    "Backend Engineer",
		Role:     "Backend",
		Salary:   "$100k",
		Location: "Remote",
	}
}

func sampleFeedback() FeedbackInput {
	return FeedbackInput{
		Rating: Rating{
			TechnicalSkills: 8,
			Communication:   7,
			ProblemSolving:  9,
			Experience:      6,
		},
		Summary:           []string{"Strong fundamentals", "Could improve system design"},
		Recommendation:    "hire",
		RecommendationMsg: "Solid candidate",
	}
}

func TestSaveDebitsOneToken(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc, err := NewFeedbackService(db, WithFeedbackClock(func() time.Time { return now }))
	require.NoError(t, err)
	ctx := context.Background()

	user := mustCreateUser(t, db, "practice@example.com", "secret1")
	require.Equal(t, 3, user.Tokens)

	feedback, updated, err := svc.Save(ctx, user.ID, sampleSnapshot(), sampleFeedback())
	require.NoError(t, err)
	require.Equal(t, 2, updated.Tokens)
	require.NotNil(t, updated.TokenUsedAt)
	require.Equal(t, now.Unix(), updated.TokenUsedAt.Unix())

	var snapshot JobSnapshot
	require.NoError(t, json.Unmarshal(feedback.Job, &snapshot))
	require.Equal(t, "Acme", snapshot.Company)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", user.ID).Error)
	require.Equal(t, 2, stored.Tokens)
}

func TestSaveRejectsEmptyBalance(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewFeedbackService(db)
	require.NoError(t, err)
	ctx := context.Background()

	user := mustCreateUser(t, db, "broke@example.com", "secret1")
	require.NoError(t, db.Model(user).Update("tokens", 0).Error)

	_, _, err = svc.Save(ctx, user.ID, sampleSnapshot(), sampleFeedback())
	require.ErrorIs(t, err, ErrNoTokensLeft)

	// nothing may be written when the debit fails
	var count int64
	require.NoError(t, db.Model(&models.Feedback{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestListByUserNewestFirst(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewFeedbackService(db)
	require.NoError(t, err)
	ctx := context.Background()

	user := mustCreateUser(t, db, "history@example.com", "secret1")
	other := mustCreateUser(t, db, "other@example.com", "secret1")

	first := models.Feedback{UserID: user.ID, Recommendation: "first"}
	first.CreatedAt = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&first).Error)

	second := models.Feedback{UserID: user.ID, Recommendation: "second"}
	second.CreatedAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&second).Error)

	foreign := models.Feedback{UserID: other.ID, Recommendation: "foreign"}
	require.NoError(t, db.Create(&foreign).Error)

	feedbacks, err := svc.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, feedbacks, 2)
	require.Equal(t, "second", feedbacks[0].Recommendation)
	require.Equal(t, "first", feedbacks[1].Recommendation)
}

func TestGetByIDScopedToOwner(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	svc, err := NewFeedbackService(db)
	require.NoError(t, err)
	ctx := context.Background()

	owner := mustCreateUser(t, db, "owner@example.com", "secret1")
	stranger := mustCreateUser(t, db, "stranger@example.com", "secret1")

	record := models.Feedback{UserID: owner.ID, Recommendation: "hire"}
	require.NoError(t, db.Create(&record).Error)

	found, err := svc.GetByID(ctx, owner.ID, record.ID)
	require.NoError(t, err)
	require.Equal(t, "hire", found.Recommendation)

	_, err = svc.GetByID(ctx, stranger.ID, record.ID)
	require.ErrorIs(t, err, ErrFeedbackNotFound)

	_, err = svc.GetByID(ctx, owner.ID, "missing")
	require.ErrorIs(t, err, ErrFeedbackNotFound)
}
