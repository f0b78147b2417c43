package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hirementis/hirementis/internal/models"
	"github.com/hirementis/hirementis/internal/storage"
	"github.com/hirementis/hirementis/pkg/crypto"
	apperrors "github.com/hirementis/hirementis/pkg/errors"
	"github.com/hirementis/hirementis/pkg/metrics"
)

// tokenRenewalWindow is how long a drained balance rests before one token is
// restored on the next authenticated request.
const tokenRenewalWindow = 28 * 24 * time.Hour

// Client-facing errors for login and profile updates.
var (
	ErrInvalidPassword    = apperrors.NewBadRequest("Invalid password")
	ErrFirstNameRequired  = apperrors.NewBadRequest("First name cannot be empty")
	ErrInvalidPhoneNumber = apperrors.NewBadRequest("Invalid phone number")
	ErrFutureDateOfBirth  = apperrors.NewBadRequest("Date of birth cannot be in the future")
	ErrInvalidDateOfBirth = apperrors.NewBadRequest("Invalid date of birth")
	ErrNegativeExperience = apperrors.NewBadRequest("Experience must be a non-negative number")
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// UserOption customises the UserService.
type UserOption func(*UserService)

// WithUserClock injects a custom time source.
func WithUserClock(clock func() time.Time) UserOption {
	return func(s *UserService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// UserService handles login, session introspection, and profile updates.
type UserService struct {
	db      *gorm.DB
	avatars storage.Store
	now     func() time.Time
}

// NewUserService constructs a UserService. The avatar store may be nil when
// uploads are disabled.
func NewUserService(db *gorm.DB, avatars storage.Store, opts ...UserOption) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}

	service := &UserService{
		db:      db,
		avatars: avatars,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// Login verifies the credentials and returns the account.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user service: find user: %w", err)
	}

	if !crypto.VerifyPassword(user.Password, password) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, ErrInvalidPassword
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	return &user, nil
}

// CheckAuth loads the account and applies the lazy token renewal rule: a
// balance that hit zero at least 28 days ago comes back as one token.
func (s *UserService) CheckAuth(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("user service: find user: %w", err)
	}

	if user.Tokens == 0 && user.TokenUsedAt != nil && s.now().Sub(*user.TokenUsedAt) >= tokenRenewalWindow {
		user.Tokens = 1
		user.TokenUsedAt = nil
		updates := map[string]any{"tokens": 1, "token_used_at": nil}
		if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("user service: renew token: %w", err)
		}
	}

	return &user, nil
}

// CleanField normalises an optional form value: empty strings and the literal
// "null"/"undefined" become empty, anything else is trimmed. Idempotent.
func CleanField(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed == "null" || trimmed == "undefined" {
		return ""
	}
	return trimmed
}

// ProfileInput carries the raw form values of an update-profile request.
type ProfileInput struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	DOB         string
	Experience  string
	Role        string
	Address     string
	Resume      string
	Github      string
	LinkedIn    string
	Twitter     string
	Leetcode    string
}

// UpdateProfile cleans and validates the submitted fields, optionally replaces
// the avatar, and persists the result. Validation is first-failure-wins.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input ProfileInput, avatar *multipart.FileHeader) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("user service: find user: %w", err)
	}

	firstName := CleanField(input.FirstName)
	lastName := CleanField(input.LastName)
	phoneNumber := CleanField(input.PhoneNumber)
	dobRaw := CleanField(input.DOB)
	experienceRaw := CleanField(input.Experience)
	role := CleanField(input.Role)
	address := CleanField(input.Address)
	resume := CleanField(input.Resume)

	if firstName == "" {
		return nil, ErrFirstNameRequired
	}
	if phoneNumber != "" && !phonePattern.MatchString(phoneNumber) {
		return nil, ErrInvalidPhoneNumber
	}

	var dob *time.Time
	if dobRaw != "" {
		parsed, err := parseDate(dobRaw)
		if err != nil {
			return nil, ErrInvalidDateOfBirth
		}
		if parsed.After(s.now()) {
			return nil, ErrFutureDateOfBirth
		}
		dob = &parsed
	}

	var experience *int
	if experienceRaw != "" {
		parsed, err := strconv.Atoi(experienceRaw)
		if err != nil || parsed < 0 {
			return nil, ErrNegativeExperience
		}
		experience = &parsed
	}

	socials, err := json.Marshal(map[string]string{
		"github":   CleanField(input.Github),
		"linkedIn": CleanField(input.LinkedIn),
		"twitter":  CleanField(input.Twitter),
		"leetcode": CleanField(input.Leetcode),
	})
	if err != nil {
		return nil, fmt.Errorf("user service: marshal socials: %w", err)
	}

	updates := map[string]any{
		"first_name":   firstName,
		"last_name":    lastName,
		"phone_number": phoneNumber,
		"dob":          dob,
		"experience":   experience,
		"role":         role,
		"address":      address,
		"resume":       resume,
		"socials":      socials,
	}

	if avatar != nil {
		if s.avatars == nil {
			return nil, errors.New("user service: avatar store not configured")
		}
		url, key, err := s.avatars.Save(avatar)
		if err != nil {
			return nil, err
		}
		if user.ImageID != "" {
			_ = s.avatars.Remove(user.ImageID)
		}
		updates["image"] = url
		updates["image_id"] = key
	}

	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("user service: update profile: %w", err)
	}

	var updated models.User
	if err := s.db.WithContext(ctx).First(&updated, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("user service: reload user: %w", err)
	}
	return &updated, nil
}

// ResetPassword replaces the account password after the reset flow verified
// ownership of the email.
func (s *UserService) ResetPassword(ctx context.Context, userID, password string) error {
	password = strings.TrimSpace(password)
	if len(password) < 6 {
		return ErrPasswordTooShort
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("user service: hash password: %w", err)
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("password", hash)
	if result.Error != nil {
		return fmt.Errorf("user service: update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("User not found")
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}
