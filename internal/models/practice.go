package models

import "time"

// Practice is one orthodontic clinic. Patients join via the practice code.
type Practice struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	PracticeCode string    `gorm:"uniqueIndex;size:20;not null" json:"practice_code"`
	CreatedAt    time.Time `json:"created_at"`

	Orthodontists []Orthodontist `gorm:"foreignKey:PracticeID" json:"orthodontists,omitempty"`
	Patients      []Patient      `gorm:"foreignKey:PracticeID" json:"patients,omitempty"`
}

// Orthodontist is a dashboard user. Reviews submissions for their practice.
type Orthodontist struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	PracticeID   uint64    `gorm:"not null" json:"practice_id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Phone        string    `gorm:"size:20" json:"phone"`
	CreatedAt    time.Time `json:"created_at"`

	Practice *Practice `gorm:"foreignKey:PracticeID" json:"practice,omitempty"`
}

// Input for orthodontist signup. Creates the practice too.
type OrthoSignupInput struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	Password     string `json:"password" binding:"required,min=6"`
	PracticeCode string `json:"practice_code" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FCMToken string `json:"fcm_token"`
}
