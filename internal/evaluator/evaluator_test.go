package evaluator

import (
	"errors"
	"testing"
	"time"

	"bandz-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Practice{},
		&models.Orthodontist{},
		&models.Patient{},
		&models.DailyPrompt{},
		&models.PhotoSubmission{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedPrompt creates a patient with one prompt whose deadline is the given
// instant (nil means no deadline recorded).
func seedPrompt(t *testing.T, db *gorm.DB, slot int, deadline *time.Time) models.DailyPrompt {
	t.Helper()
	patient := models.Patient{
		PracticeID:   1,
		Name:         "Alex",
		Email:        "alex@example.com",
		PasswordHash: "x",
		Status:       models.PatientStatusActive,
	}
	if err := db.Where("email = ?", patient.Email).FirstOrCreate(&patient).Error; err != nil {
		t.Fatalf("seed patient: %v", err)
	}

	notifyAt := time.Date(2026, 3, 14, 8, 30, 0, 0, time.Local)
	prompt := models.DailyPrompt{
		PatientID:            patient.ID,
		Date:                 "2026-03-14",
		Slot:                 slot,
		NotificationSentAt:   notifyAt,
		SubmissionDeadlineAt: deadline,
	}
	if err := db.Create(&prompt).Error; err != nil {
		t.Fatalf("seed prompt: %v", err)
	}
	return prompt
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestSubmitPhoto_OnTimeBoundary(t *testing.T) {
	deadline := time.Date(2026, 3, 14, 8, 32, 0, 0, time.Local)

	cases := []struct {
		name   string
		now    time.Time
		onTime bool
	}{
		{"before deadline", deadline.Add(-time.Second), true},
		{"exactly at deadline", deadline, true},
		{"after deadline", deadline.Add(time.Second), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := testDB(t)
			prompt := seedPrompt(t, db, models.SlotMorning, &deadline)

			svc := New(db)
			svc.now = fixedClock(tc.now)

			sub, err := svc.SubmitPhoto(prompt.ID, "https://bucket/snap.jpg")
			if err != nil {
				t.Fatalf("SubmitPhoto failed: %v", err)
			}
			if sub.IsOnTime != tc.onTime {
				t.Errorf("is_on_time = %v, want %v", sub.IsOnTime, tc.onTime)
			}
		})
	}
}

func TestSubmitPhoto_NoDeadlineDefaultsOnTime(t *testing.T) {
	db := testDB(t)
	prompt := seedPrompt(t, db, models.SlotMorning, nil)

	svc := New(db)
	sub, err := svc.SubmitPhoto(prompt.ID, "https://bucket/snap.jpg")
	if err != nil {
		t.Fatalf("SubmitPhoto failed: %v", err)
	}
	if !sub.IsOnTime {
		t.Error("missing deadline should default to on time")
	}
}

func TestSubmitPhoto_PromptNotFound(t *testing.T) {
	db := testDB(t)
	svc := New(db)

	_, err := svc.SubmitPhoto(9999, "https://bucket/snap.jpg")
	if !errors.Is(err, ErrPromptNotFound) {
		t.Fatalf("got %v, want ErrPromptNotFound", err)
	}
}

func TestSubmitPhoto_SecondSubmissionRejected(t *testing.T) {
	db := testDB(t)
	deadline := time.Date(2026, 3, 14, 8, 32, 0, 0, time.Local)
	prompt := seedPrompt(t, db, models.SlotMorning, &deadline)

	svc := New(db)
	if _, err := svc.SubmitPhoto(prompt.ID, "https://bucket/first.jpg"); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}

	_, err := svc.SubmitPhoto(prompt.ID, "https://bucket/second.jpg")
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Fatalf("got %v, want ErrAlreadySubmitted", err)
	}

	var count int64
	db.Model(&models.PhotoSubmission{}).Where("daily_prompt_id = ?", prompt.ID).Count(&count)
	if count != 1 {
		t.Errorf("got %d submissions, want 1", count)
	}
}

func TestRecordReview_NoSubmission(t *testing.T) {
	db := testDB(t)
	deadline := time.Date(2026, 3, 14, 8, 32, 0, 0, time.Local)
	prompt := seedPrompt(t, db, models.SlotMorning, &deadline)

	svc := New(db)
	_, err := svc.RecordReview(prompt.ID, true, "", 1)
	if !errors.Is(err, ErrNoSubmission) {
		t.Fatalf("got %v, want ErrNoSubmission", err)
	}
}

func TestRecordReview_LastWriteWins(t *testing.T) {
	db := testDB(t)
	deadline := time.Date(2026, 3, 14, 8, 32, 0, 0, time.Local)
	prompt := seedPrompt(t, db, models.SlotMorning, &deadline)

	svc := New(db)
	svc.now = fixedClock(deadline.Add(-time.Minute))
	first, err := svc.SubmitPhoto(prompt.ID, "https://bucket/snap.jpg")
	if err != nil {
		t.Fatalf("SubmitPhoto failed: %v", err)
	}

	firstReviewAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)
	svc.now = fixedClock(firstReviewAt)
	if _, err := svc.RecordReview(prompt.ID, true, "band visible", 7); err != nil {
		t.Fatalf("first review failed: %v", err)
	}

	secondReviewAt := firstReviewAt.Add(time.Hour)
	svc.now = fixedClock(secondReviewAt)
	if _, err := svc.RecordReview(prompt.ID, false, "", 8); err != nil {
		t.Fatalf("second review failed: %v", err)
	}

	var stored models.PhotoSubmission
	if err := db.Where("daily_prompt_id = ?", prompt.ID).First(&stored).Error; err != nil {
		t.Fatalf("reload submission: %v", err)
	}

	if stored.BandPresent == nil || *stored.BandPresent != false {
		t.Errorf("band_present = %v, want false", stored.BandPresent)
	}
	if stored.ReviewedBy == nil || *stored.ReviewedBy != 8 {
		t.Errorf("reviewed_by = %v, want 8", stored.ReviewedBy)
	}
	if stored.ReviewNote != nil {
		t.Errorf("review_note = %v, want nil after empty-note overwrite", *stored.ReviewNote)
	}
	if stored.ReviewedAt == nil || !stored.ReviewedAt.Equal(secondReviewAt) {
		t.Errorf("reviewed_at = %v, want %v", stored.ReviewedAt, secondReviewAt)
	}

	// Review never touches the frozen timeliness flag
	if stored.IsOnTime != first.IsOnTime {
		t.Errorf("is_on_time changed from %v to %v", first.IsOnTime, stored.IsOnTime)
	}
}

func TestMarkAllReviewed_Idempotent(t *testing.T) {
	db := testDB(t)
	deadline := time.Date(2026, 3, 14, 8, 32, 0, 0, time.Local)

	p1 := seedPrompt(t, db, models.SlotMorning, &deadline)
	p2 := seedPrompt(t, db, models.SlotMidday, &deadline)
	p3 := seedPrompt(t, db, models.SlotEvening, &deadline) // no submission

	svc := New(db)
	if _, err := svc.SubmitPhoto(p1.ID, "https://bucket/a.jpg"); err != nil {
		t.Fatalf("submit p1: %v", err)
	}
	if _, err := svc.SubmitPhoto(p2.ID, "https://bucket/b.jpg"); err != nil {
		t.Fatalf("submit p2: %v", err)
	}

	// p1 already reviewed by ortho 7 with an explicit judgment
	if _, err := svc.RecordReview(p1.ID, false, "no band", 7); err != nil {
		t.Fatalf("review p1: %v", err)
	}

	marked, err := svc.MarkAllReviewed(p1.PatientID, "2026-03-14", 9)
	if err != nil {
		t.Fatalf("MarkAllReviewed failed: %v", err)
	}
	if marked != 1 {
		t.Fatalf("first run marked %d, want 1 (only p2)", marked)
	}

	again, err := svc.MarkAllReviewed(p1.PatientID, "2026-03-14", 9)
	if err != nil {
		t.Fatalf("second MarkAllReviewed failed: %v", err)
	}
	if again != 0 {
		t.Errorf("second run marked %d, want 0", again)
	}

	// p1's earlier review is untouched
	var s1 models.PhotoSubmission
	db.Where("daily_prompt_id = ?", p1.ID).First(&s1)
	if s1.ReviewedBy == nil || *s1.ReviewedBy != 7 {
		t.Errorf("p1 reviewer overwritten: %v", s1.ReviewedBy)
	}
	if s1.BandPresent == nil || *s1.BandPresent != false {
		t.Errorf("p1 band_present changed: %v", s1.BandPresent)
	}

	// p2 got stamped but band_present stays null (backend never defaults it)
	var s2 models.PhotoSubmission
	db.Where("daily_prompt_id = ?", p2.ID).First(&s2)
	if s2.ReviewedBy == nil || *s2.ReviewedBy != 9 {
		t.Errorf("p2 reviewer = %v, want 9", s2.ReviewedBy)
	}
	if s2.BandPresent != nil {
		t.Errorf("p2 band_present = %v, want nil", *s2.BandPresent)
	}
	if s2.ReviewedAt == nil {
		t.Error("p2 reviewed_at not set")
	}

	// p3 has no submission, nothing to stamp
	var count int64
	db.Model(&models.PhotoSubmission{}).Where("daily_prompt_id = ?", p3.ID).Count(&count)
	if count != 0 {
		t.Errorf("p3 gained a submission: %d", count)
	}
}
