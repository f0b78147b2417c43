package models

import (
	"time"

	"gorm.io/datatypes"
)

// User describes an account on the platform. Profile fields are optional and
// filled in after signup; the wire casing follows the web client's contract.
type User struct {
	BaseModel

	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	PhoneNumber string         `json:"phoneNumber"`
	DOB         *time.Time     `json:"dob"`
	Experience  *int           `json:"experience"`
	Role        string         `json:"role"`
	Address     string         `json:"address"`
	Resume      string         `json:"resume"`
	Socials     datatypes.JSON `json:"socials"`

	// Image is the public avatar URL; ImageID is the storage key used to
	// replace or delete the underlying file.
	Image   string `json:"image"`
	ImageID string `json:"imageId"`

	Tokens      int        `gorm:"default:3" json:"tokens"`
	TokenUsedAt *time.Time `json:"tokenUsedAt"`

	IsAdmin bool `gorm:"default:false" json:"isAdmin"`
}
