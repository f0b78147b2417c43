package models

import (
	"time"

	"gorm.io/datatypes"
)

// Job is a posted listing users can browse and practice interviews against.
type Job struct {
	BaseModel

	Title       string `gorm:"not null" json:"title"`
	Company     string `gorm:"not null" json:"company"`
	CompanyLogo string `json:"companyLogo"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
	Role        string `json:"role"`
	Description string `json:"description"`

	// Requirements and Responsibilities are ordered string lists.
	Requirements     datatypes.JSON `json:"requirements"`
	Responsibilities datatypes.JSON `json:"responsibilities"`

	PostedOn time.Time `gorm:"index" json:"postedOn"`
}
