package models

import "gorm.io/datatypes"

// Feedback is an append-only record of one practiced interview. Job holds a
// denormalised snapshot of the listing at practice time so later edits or
// deletions of the Job row never change saved feedback.
type Feedback struct {
	BaseModel

	UserID string `gorm:"type:uuid;index;not null" json:"userId"`

	Job     datatypes.JSON `json:"job"`
	Rating  datatypes.JSON `json:"rating"`
	Summary datatypes.JSON `json:"summary"`

	Recommendation    string `json:"recommendation"`
	RecommendationMsg string `json:"recommendationMsg"`
}
