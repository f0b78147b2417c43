package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hirementis/hirementis/internal/models"
	"github.com/hirementis/hirementis/pkg/crypto"
	apperrors "github.com/hirementis/hirementis/pkg/errors"
	"github.com/hirementis/hirementis/pkg/mail"
	"github.com/hirementis/hirementis/pkg/metrics"
)

const (
	defaultOTPExpiry = 5 * time.Minute
	otpDigits        = 4
)

// Client-facing errors for the OTP flow.
var (
	ErrEmailExists       = apperrors.NewBadRequest("Email already exists!")
	ErrPasswordTooShort  = apperrors.NewBadRequest("Password must contain at least 6 characters")
	ErrPasswordMismatch  = apperrors.NewBadRequest("Password & confirm password must match")
	ErrEmailRequired     = apperrors.NewBadRequest("Email is required")
	ErrOTPInvalid        = apperrors.NewBadRequest("Invalid or expired OTP")
	ErrOTPSessionExpired = apperrors.NewBadRequest("OTP session expired, please sign up again")
	ErrOTPSendFailed     = apperrors.New("OTP_SEND_FAILED", "Failed to send OTP", http.StatusInternalServerError)
	ErrUserNotFound      = apperrors.NewBadRequest("User not found")
)

// OTPOption customises the OTPService.
type OTPOption func(*OTPService)

// WithOTPExpiry overrides the code lifetime.
func WithOTPExpiry(d time.Duration) OTPOption {
	return func(s *OTPService) {
		if d > 0 {
			s.expiry = d
		}
	}
}

// WithOTPClock injects a custom time source.
func WithOTPClock(clock func() time.Time) OTPOption {
	return func(s *OTPService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithOTPCodeGenerator replaces the random code generator, for tests.
func WithOTPCodeGenerator(gen func() (string, error)) OTPOption {
	return func(s *OTPService) {
		if gen != nil {
			s.genCode = gen
		}
	}
}

// OTPService drives the three-step signup and password-reset flow: request a
// code, optionally resend it, verify it. Signup account data rides on the
// pending code row so no User exists until verification succeeds.
type OTPService struct {
	db      *gorm.DB
	mailer  mail.Mailer
	expiry  time.Duration
	now     func() time.Time
	genCode func() (string, error)
}

// NewOTPService constructs an OTPService with the provided dependencies.
func NewOTPService(db *gorm.DB, mailer mail.Mailer, opts ...OTPOption) (*OTPService, error) {
	if db == nil {
		return nil, errors.New("otp service: db is required")
	}

	service := &OTPService{
		db:      db,
		mailer:  mailer,
		expiry:  defaultOTPExpiry,
		now:     time.Now,
		genCode: func() (string, error) { return crypto.GenerateOTP(otpDigits) },
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// SignupInput carries the fields collected by the signup form.
type SignupInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// RequestSignup validates the signup payload and dispatches a code. The
// account itself is created later by Verify.
func (s *OTPService) RequestSignup(ctx context.Context, input SignupInput) error {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	email := normalizeEmail(input.Email)
	password := strings.TrimSpace(input.Password)
	confirm := strings.TrimSpace(input.ConfirmPassword)

	if email == "" {
		return ErrEmailRequired
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("otp service: check existing user: %w", err)
	}
	if count > 0 {
		return ErrEmailExists
	}

	if len(password) < 6 {
		return ErrPasswordTooShort
	}
	if password != confirm {
		return ErrPasswordMismatch
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("otp service: hash password: %w", err)
	}

	return s.createAndSend(ctx, email, "signup", models.OTPRequest{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
	})
}

// RequestReset dispatches a reset code to an existing account.
func (s *OTPService) RequestReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return fmt.Errorf("otp service: check existing user: %w", err)
	}
	if count == 0 {
		return ErrUserNotFound
	}

	return s.createAndSend(ctx, email, "reset", models.OTPRequest{Email: email})
}

// Resend regenerates the code on a live pending row and re-dispatches it.
// Without a live row the original request has expired and the caller must
// start over.
func (s *OTPService) Resend(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}

	now := s.now()

	var request models.OTPRequest
	err := s.db.WithContext(ctx).
		Where("email = ? AND expires_at > ?", email, now).
		Order("created_at DESC").
		First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrOTPSessionExpired
	}
	if err != nil {
		return fmt.Errorf("otp service: find pending request: %w", err)
	}

	code, err := s.genCode()
	if err != nil {
		return fmt.Errorf("otp service: generate code: %w", err)
	}

	request.Code = code
	request.ExpiresAt = now.Add(s.expiry)
	if err := s.db.WithContext(ctx).Save(&request).Error; err != nil {
		return fmt.Errorf("otp service: refresh request: %w", err)
	}

	purpose := "reset"
	if request.PasswordHash != "" {
		purpose = "signup"
	}
	return s.deliver(ctx, email, code, purpose)
}

// Verify matches email+code among unexpired rows. A signup match materialises
// the pending account and reports created=true; a reset match returns the
// existing account. All rows for the email are consumed either way.
func (s *OTPService) Verify(ctx context.Context, email, code string) (*models.User, bool, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, false, apperrors.NewBadRequest("Email and OTP are required")
	}

	var request models.OTPRequest
	err := s.db.WithContext(ctx).
		Where("email = ? AND code = ? AND expires_at > ?", email, code, s.now()).
		First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, ErrOTPInvalid
	}
	if err != nil {
		return nil, false, fmt.Errorf("otp service: find request: %w", err)
	}

	if request.PasswordHash == "" {
		// Password reset: the account already exists.
		var user models.User
		if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, false, ErrUserNotFound
			}
			return nil, false, fmt.Errorf("otp service: load user: %w", err)
		}

		if err := s.consume(ctx, email); err != nil {
			return nil, false, err
		}
		return &user, false, nil
	}

	user := models.User{
		Email:     email,
		Password:  request.PasswordHash,
		FirstName: request.FirstName,
		LastName:  request.LastName,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Where("email = ?", email).Delete(&models.OTPRequest{}).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, false, ErrEmailExists
		}
		return nil, false, fmt.Errorf("otp service: create user: %w", err)
	}

	return &user, true, nil
}

// PurgeExpired removes rows whose window has passed. Lookups already filter on
// expiry, so this is storage hygiene only.
func (s *OTPService) PurgeExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at <= ?", s.now()).
		Delete(&models.OTPRequest{})
	if result.Error != nil {
		return 0, fmt.Errorf("otp service: purge expired: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *OTPService) createAndSend(ctx context.Context, email, purpose string, request models.OTPRequest) error {
	code, err := s.genCode()
	if err != nil {
		return fmt.Errorf("otp service: generate code: %w", err)
	}

	request.Code = code
	request.ExpiresAt = s.now().Add(s.expiry)

	if err := s.consume(ctx, email); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(&request).Error; err != nil {
		return fmt.Errorf("otp service: create request: %w", err)
	}

	return s.deliver(ctx, email, code, purpose)
}

func (s *OTPService) deliver(ctx context.Context, email, code, purpose string) error {
	if s.mailer == nil {
		return nil
	}

	message := mail.Message{
		To:      []string{email},
		Subject: "Your OTP Code",
		Body:    otpEmailBody(code, s.expiry),
		HTML:    true,
	}

	if err := s.mailer.Send(ctx, message); err != nil {
		// a disabled mailer is not a delivery; neither counter moves
		if errors.Is(err, mail.ErrSMTPDisabled) {
			return nil
		}
		metrics.OTPDeliveries.WithLabelValues(purpose, "failure").Inc()
		return ErrOTPSendFailed.WithInternal(err)
	}

	metrics.OTPDeliveries.WithLabelValues(purpose, "success").Inc()
	return nil
}

func (s *OTPService) consume(ctx context.Context, email string) error {
	if err := s.db.WithContext(ctx).Where("email = ?", email).Delete(&models.OTPRequest{}).Error; err != nil {
		return fmt.Errorf("otp service: delete requests: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func otpEmailBody(code string, expiry time.Duration) string {
	minutes := int(expiry / time.Minute)
	return fmt.Sprintf(
		"<div style=\"font-family:sans-serif\"><h2>HireMentis</h2><p>Your OTP code is <strong>%s</strong>. It will expire in %d minutes.</p></div>",
		code, minutes,
	)
}
