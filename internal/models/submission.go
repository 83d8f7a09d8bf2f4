package models

import "time"

// PhotoSubmission is the patient's answer to one DailyPrompt.
// IsOnTime is computed once at insert and never recomputed afterwards,
// so the audit trail stays stable no matter when it is read.
// The review fields move together: all null until reviewed, then all set.
type PhotoSubmission struct {
	ID            uint64     `gorm:"primaryKey" json:"id"`
	DailyPromptID uint64     `gorm:"not null;uniqueIndex" json:"daily_prompt_id"`
	ImageURL      string     `gorm:"size:255;not null" json:"image_url"`
	SubmittedAt   time.Time  `gorm:"autoCreateTime" json:"submitted_at"`
	IsOnTime      bool       `json:"is_on_time"`
	BandPresent   *bool      `json:"band_present"`
	ReviewedBy    *uint64    `json:"reviewed_by"`
	ReviewNote    *string    `gorm:"type:text" json:"review_note"`
	ReviewedAt    *time.Time `json:"reviewed_at"`

	Reviewer *Orthodontist `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
}

type SubmitPhotoInput struct {
	PromptID uint64 `json:"prompt_id" binding:"required"`
	ImageURL string `json:"image_url" binding:"required"`
}

type ReviewInput struct {
	DailyPromptID uint64 `json:"daily_prompt_id" binding:"required"`
	BandPresent   *bool  `json:"band_present" binding:"required"`
	Note          string `json:"note"`
}

type MarkAllReviewedInput struct {
	PatientID uint64 `json:"patient_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
}
