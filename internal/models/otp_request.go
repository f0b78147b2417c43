package models

import "time"

// OTPRequest stores a pending one-time code for signup or password reset.
// Signup requests carry the pending account payload so no User row exists
// until the code is verified; reset requests leave the payload empty.
type OTPRequest struct {
	BaseModel

	Email string `gorm:"index;not null" json:"email"`
	Code  string `gorm:"not null" json:"-"`

	FirstName    string `json:"-"`
	LastName     string `json:"-"`
	PasswordHash string `json:"-"`

	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}
