package models

import "time"

const (
	PatientStatusActive = "active"
	PatientStatusPaused = "paused"
)

type Patient struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	PracticeID   uint64    `gorm:"not null" json:"practice_id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Phone        string    `gorm:"size:20" json:"phone"`
	DOB          string    `gorm:"type:date" json:"dob"` // Format YYYY-MM-DD
	Status       string    `gorm:"size:10;default:active" json:"status"`
	FCMToken     string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	Practice *Practice `gorm:"foreignKey:PracticeID" json:"practice,omitempty"`
}

// Input for patient signup from the mobile app
type PatientSignupInput struct {
	PracticeCode string `json:"practice_code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=6"`
	Phone        string `json:"phone"`
	DOB          string `json:"dob"`
}

type UpdatePatientStatusInput struct {
	Status string `json:"status" binding:"required,oneof=active paused"`
}
