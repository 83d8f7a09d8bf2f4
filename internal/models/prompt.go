package models

import "time"

// Slot numbers for the three daily capture windows
const (
	SlotMorning = 1
	SlotMidday  = 2
	SlotEvening = 3
)

// DailyPrompt is one expected photo capture for a patient: one slot on one day.
// The unique index is what makes lazy generation safe to retry.
type DailyPrompt struct {
	ID                   uint64     `gorm:"primaryKey" json:"id"`
	PatientID            uint64     `gorm:"not null;uniqueIndex:idx_patient_date_slot" json:"patient_id"`
	Date                 string     `gorm:"type:date;uniqueIndex:idx_patient_date_slot" json:"date"` // YYYY-MM-DD
	Slot                 int        `gorm:"not null;uniqueIndex:idx_patient_date_slot" json:"slot"`
	NotificationSentAt   time.Time  `json:"notification_sent_at"`
	SubmissionDeadlineAt *time.Time `json:"submission_deadline_at"`
	CreatedAt            time.Time  `json:"created_at"`

	Patient    *Patient         `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Submission *PhotoSubmission `gorm:"foreignKey:DailyPromptID" json:"submission,omitempty"`
}

// ScheduleSlot is the practice-level notification timetable, one cell per
// (date, slot). Only the time of day is stored; prompts carry full instants.
type ScheduleSlot struct {
	ID               uint64 `gorm:"primaryKey" json:"id"`
	PracticeID       uint64 `gorm:"not null;uniqueIndex:idx_practice_date_slot" json:"practice_id"`
	Date             string `gorm:"type:date;uniqueIndex:idx_practice_date_slot" json:"date"`
	Slot             int    `gorm:"not null;uniqueIndex:idx_practice_date_slot" json:"slot"`
	NotificationTime string `gorm:"size:8;not null" json:"notification_time"` // HH:MM:SS
}

type RandomizeWeekInput struct {
	WeekStart string `json:"week_start" binding:"required"`
}

type UpdateSlotInput struct {
	Date string `json:"date" binding:"required"`
	Slot int    `json:"slot" binding:"required,oneof=1 2 3"`
	Time string `json:"time" binding:"required"`
}
