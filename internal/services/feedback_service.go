package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hirementis/hirementis/internal/models"
	apperrors "github.com/hirementis/hirementis/pkg/errors"
	"github.com/hirementis/hirementis/pkg/metrics"
)

// Client-facing errors for the feedback store.
var (
	ErrFeedbackNotFound = apperrors.NewNotFound("feedback not found")
	ErrFeedbackRequired = apperrors.NewBadRequest("Job and feedback are required.")
	ErrNoTokensLeft     = apperrors.NewBadRequest("No interview tokens left")
)

// JobSnapshot is the immutable copy of a listing stored with feedback.
type JobSnapshot struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	CompanyLogo string `json:"companyLogo"`
	Title       string `json:"title"`
	Role        string `json:"role"`
	Salary      string `json:"salary"`
	Location    string `json:"location"`
}

// Rating holds the interview sub-scores returned by the client.
type Rating struct {
	TechnicalSkills float64 `json:"technicalSkills"`
	Communication   float64 `json:"communication"`
	ProblemSolving  float64 `json:"problemSolving"`
	Experience      float64 `json:"experience"`
}

// FeedbackInput is the feedback payload of a save request.
type FeedbackInput struct {
	Rating            Rating   `json:"rating"`
	Summary           []string `json:"summary"`
	Recommendation    string   `json:"recommendation"`
	RecommendationMsg string   `json:"recommendationMsg"`
}

// FeedbackOption customises the FeedbackService.
type FeedbackOption func(*FeedbackService)

// WithFeedbackClock injects a custom time source.
func WithFeedbackClock(clock func() time.Time) FeedbackOption {
	return func(s *FeedbackService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// FeedbackService stores interview feedback. Saving debits one token from the
// caller in the same transaction as the insert, so a crash can neither leak
// nor lose a token.
type FeedbackService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewFeedbackService constructs a FeedbackService.
func NewFeedbackService(db *gorm.DB, opts ...FeedbackOption) (*FeedbackService, error) {
	if db == nil {
		return nil, errors.New("feedback service: db is required")
	}

	service := &FeedbackService{db: db, now: time.Now}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Save debits a token, stamps the usage time, and inserts the feedback record
// atomically. Returns the record and the updated account.
func (s *FeedbackService) Save(ctx context.Context, userID string, job JobSnapshot, input FeedbackInput) (*models.Feedback, *models.User, error) {
	jobJSON, err := json.Marshal(job)
	if err != nil {
		return nil, nil, fmt.Errorf("feedback service: marshal job snapshot: %w", err)
	}
	ratingJSON, err := json.Marshal(input.Rating)
	if err != nil {
		return nil, nil, fmt.Errorf("feedback service: marshal rating: %w", err)
	}
	summaryJSON, err := json.Marshal(emptyIfNil(input.Summary))
	if err != nil {
		return nil, nil, fmt.Errorf("feedback service: marshal summary: %w", err)
	}

	feedback := models.Feedback{
		UserID:            userID,
		Job:               jobJSON,
		Rating:            ratingJSON,
		Summary:           summaryJSON,
		Recommendation:    input.Recommendation,
		RecommendationMsg: input.RecommendationMsg,
	}

	var user models.User

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("User not found")
			}
			return err
		}

		if user.Tokens <= 0 {
			return ErrNoTokensLeft
		}

		usedAt := s.now()
		user.Tokens--
		user.TokenUsedAt = &usedAt

		if err := tx.Model(&user).Updates(map[string]any{
			"tokens":        user.Tokens,
			"token_used_at": usedAt,
		}).Error; err != nil {
			return err
		}

		return tx.Create(&feedback).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, nil, appErr
		}
		return nil, nil, fmt.Errorf("feedback service: save feedback: %w", err)
	}

	metrics.TokenDebits.Inc()
	return &feedback, &user, nil
}

// ListByUser returns the caller's feedback records, newest first.
func (s *FeedbackService) ListByUser(ctx context.Context, userID string) ([]models.Feedback, error) {
	var feedbacks []models.Feedback
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&feedbacks).Error
	if err != nil {
		return nil, fmt.Errorf("feedback service: list feedbacks: %w", err)
	}
	return feedbacks, nil
}

// GetByID fetches one record, scoped to its owner.
func (s *FeedbackService) GetByID(ctx context.Context, userID, id string) (*models.Feedback, error) {
	var feedback models.Feedback
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&feedback).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFeedbackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("feedback service: find feedback: %w", err)
	}
	return &feedback, nil
}
