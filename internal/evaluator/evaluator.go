// Package evaluator accepts photo submissions against prompts, stamps the
// on-time flag, and records reviewer judgments. Timeliness and band presence
// are independent axes: review actions never touch IsOnTime.
package evaluator

import (
	"errors"
	"time"

	"bandz-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrPromptNotFound   = errors.New("prompt not found")
	ErrNoSubmission     = errors.New("no submission found for this prompt")
	ErrAlreadySubmitted = errors.New("prompt already has a submission")
)

type Service struct {
	db *gorm.DB

	// now is swappable for deadline boundary tests
	now func() time.Time
}

func New(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// SubmitPhoto records the patient's snap for a prompt. The on-time flag is a
// pure function of the submission instant vs the prompt's precomputed
// deadline (inclusive at the boundary) and is frozen forever at insert.
// A prompt takes exactly one submission; a second attempt is rejected.
func (s *Service) SubmitPhoto(promptID uint64, imageURL string) (*models.PhotoSubmission, error) {
	var prompt models.DailyPrompt
	if err := s.db.First(&prompt, promptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromptNotFound
		}
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.PhotoSubmission{}).
		Where("daily_prompt_id = ?", promptID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadySubmitted
	}

	now := s.now()
	// No deadline recorded should not happen, but defensively count it on time.
	isOnTime := true
	if prompt.SubmissionDeadlineAt != nil {
		isOnTime = !now.After(*prompt.SubmissionDeadlineAt)
	}

	submission := models.PhotoSubmission{
		DailyPromptID: promptID,
		ImageURL:      imageURL,
		SubmittedAt:   now,
		IsOnTime:      isOnTime,
	}
	if err := s.db.Create(&submission).Error; err != nil {
		// The unique index on daily_prompt_id backs up the check above
		// when two submissions race.
		return nil, err
	}
	return &submission, nil
}

// RecordReview stores the orthodontist's band-presence call for a prompt's
// submission. Calling it again overwrites the previous review, last write
// wins; no history is kept.
func (s *Service) RecordReview(promptID uint64, bandPresent bool, note string, reviewerID uint64) (*models.PhotoSubmission, error) {
	var submission models.PhotoSubmission
	err := s.db.Where("daily_prompt_id = ?", promptID).First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSubmission
		}
		return nil, err
	}

	reviewedAt := s.now()
	var notePtr *string
	if note != "" {
		notePtr = &note
	}
	submission.BandPresent = &bandPresent
	submission.ReviewedBy = &reviewerID
	submission.ReviewNote = notePtr
	submission.ReviewedAt = &reviewedAt

	updates := map[string]interface{}{
		"band_present": bandPresent,
		"reviewed_by":  reviewerID,
		"review_note":  notePtr,
		"reviewed_at":  reviewedAt,
	}
	if err := s.db.Model(&models.PhotoSubmission{}).
		Where("id = ?", submission.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// MarkAllReviewed stamps reviewer and time on every not-yet-reviewed
// submission for (patient, date). Band presence is left untouched; already
// reviewed submissions are skipped entirely, which is what makes running it
// twice the same as running it once. Returns how many rows were touched.
func (s *Service) MarkAllReviewed(patientID uint64, date string, reviewerID uint64) (int64, error) {
	promptIDs := s.db.Model(&models.DailyPrompt{}).
		Select("id").
		Where("patient_id = ? AND date = ?", patientID, date)

	res := s.db.Model(&models.PhotoSubmission{}).
		Where("daily_prompt_id IN (?)", promptIDs).
		Where("reviewed_by IS NULL").
		Updates(map[string]interface{}{
			"reviewed_by": reviewerID,
			"reviewed_at": s.now(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
