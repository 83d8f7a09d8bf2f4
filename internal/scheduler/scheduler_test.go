package scheduler

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
	// Single connection so every query sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.Practice{},
		&models.Orthodontist{},
		&models.Patient{},
		&models.DailyPrompt{},
		&models.ScheduleSlot{},
		&models.PhotoSubmission{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedPatient(t *testing.T, db *gorm.DB) models.Patient {
	t.Helper()
	practice := models.Practice{Name: "Test Practice", PracticeCode: "TEST01"}
	if err := db.Create(&practice).Error; err != nil {
		t.Fatalf("seed practice: %v", err)
	}
	patient := models.Patient{
		PracticeID:   practice.ID,
		Name:         "Alex",
		Email:        "alex@example.com",
		PasswordHash: "x",
		Status:       models.PatientStatusActive,
	}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	return patient
}

func TestRandomTimeInWindow_StaysInside(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)

	for _, w := range Windows {
		for i := 0; i < 200; i++ {
			got := RandomTimeInWindow(day, w.StartHour, w.EndHour)
			if got.Hour() < w.StartHour || got.Hour() >= w.EndHour {
				t.Fatalf("slot %d: %v outside [%02d:00, %02d:00)", w.Slot, got, w.StartHour, w.EndHour)
			}
			if got.Year() != day.Year() || got.YearDay() != day.YearDay() {
				t.Fatalf("slot %d: %v landed on wrong day", w.Slot, got)
			}
		}
	}
}

func TestEnsureDailyPrompts_CreatesThreeSlots(t *testing.T) {
	db := testDB(t)
	patient := seedPatient(t, db)
	svc := New(db)

	prompts, created, err := svc.EnsureDailyPrompts(patient.ID, "2026-03-14")
	if err != nil {
		t.Fatalf("EnsureDailyPrompts failed: %v", err)
	}
	if !created {
		t.Fatal("expected first call to create prompts")
	}
	if len(prompts) != 3 {
		t.Fatalf("got %d prompts, want 3", len(prompts))
	}

	for i, p := range prompts {
		if p.Slot != i+1 {
			t.Errorf("prompt %d has slot %d, want %d", i, p.Slot, i+1)
		}
		w := Windows[i]
		h := p.NotificationSentAt.Hour()
		if h < w.StartHour || h >= w.EndHour {
			t.Errorf("slot %d notification at %v outside window [%d, %d)", p.Slot, p.NotificationSentAt, w.StartHour, w.EndHour)
		}
		if p.SubmissionDeadlineAt == nil {
			t.Fatalf("slot %d has no deadline", p.Slot)
		}
		if got := p.SubmissionDeadlineAt.Sub(p.NotificationSentAt); got != DeadlineOffset {
			t.Errorf("slot %d deadline offset = %v, want %v", p.Slot, got, DeadlineOffset)
		}
	}
}

func TestEnsureDailyPrompts_Idempotent(t *testing.T) {
	db := testDB(t)
	patient := seedPatient(t, db)
	svc := New(db)

	first, _, err := svc.EnsureDailyPrompts(patient.ID, "2026-03-14")
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	second, created, err := svc.EnsureDailyPrompts(patient.ID, "2026-03-14")
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if created {
		t.Error("second call reported creation")
	}
	if len(second) != 3 {
		t.Fatalf("second call returned %d prompts, want 3", len(second))
	}

	// Times are frozen at first creation, never re-rolled
	for i := range first {
		if !first[i].NotificationSentAt.Equal(second[i].NotificationSentAt) {
			t.Errorf("slot %d notification time changed: %v vs %v",
				first[i].Slot, first[i].NotificationSentAt, second[i].NotificationSentAt)
		}
	}

	var count int64
	db.Model(&models.DailyPrompt{}).Where("patient_id = ?", patient.ID).Count(&count)
	if count != 3 {
		t.Errorf("got %d rows after two calls, want 3", count)
	}
}

func TestEnsureDailyPrompts_PatientNotFound(t *testing.T) {
	db := testDB(t)
	svc := New(db)

	_, _, err := svc.EnsureDailyPrompts(9999, "2026-03-14")
	if !errors.Is(err, ErrPatientNotFound) {
		t.Fatalf("got %v, want ErrPatientNotFound", err)
	}
}

func TestEnsureDailyPrompts_InvalidDate(t *testing.T) {
	db := testDB(t)
	patient := seedPatient(t, db)
	svc := New(db)

	if _, _, err := svc.EnsureDailyPrompts(patient.ID, "14-03-2026"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestGetWeekSchedule_GeneratesAndReturnsExisting(t *testing.T) {
	db := testDB(t)
	svc := New(db)

	slots, err := svc.GetWeekSchedule(1, "2026-03-09")
	if err != nil {
		t.Fatalf("GetWeekSchedule failed: %v", err)
	}
	if len(slots) != 21 {
		t.Fatalf("got %d slots, want 21", len(slots))
	}

	// 7 distinct dates, 3 slots each
	perDate := map[string]int{}
	for _, s := range slots {
		perDate[s.Date]++
	}
	if len(perDate) != 7 {
		t.Errorf("got %d dates, want 7", len(perDate))
	}
	for date, n := range perDate {
		if n != 3 {
			t.Errorf("date %s has %d slots, want 3", date, n)
		}
	}

	again, err := svc.GetWeekSchedule(1, "2026-03-09")
	if err != nil {
		t.Fatalf("second GetWeekSchedule failed: %v", err)
	}
	for i := range slots {
		if slots[i].NotificationTime != again[i].NotificationTime {
			t.Errorf("cell (%s, %d) changed on re-read: %s vs %s",
				slots[i].Date, slots[i].Slot, slots[i].NotificationTime, again[i].NotificationTime)
		}
	}
}

func TestRandomizeWeekSchedule_DiscardsEdits(t *testing.T) {
	db := testDB(t)
	svc := New(db)

	if _, err := svc.GetWeekSchedule(1, "2026-03-09"); err != nil {
		t.Fatalf("seed week failed: %v", err)
	}

	// Hand-edit one cell to a time no window can ever produce
	edited, err := svc.UpdateSlotTime(1, "2026-03-10", models.SlotMorning, "23:59:00")
	if err != nil {
		t.Fatalf("UpdateSlotTime failed: %v", err)
	}
	if edited.NotificationTime != "23:59:00" {
		t.Fatalf("edit did not stick: %s", edited.NotificationTime)
	}

	slots, err := svc.RandomizeWeekSchedule(1, "2026-03-09")
	if err != nil {
		t.Fatalf("RandomizeWeekSchedule failed: %v", err)
	}
	if len(slots) != 21 {
		t.Fatalf("got %d slots after randomize, want 21", len(slots))
	}
	for _, s := range slots {
		if s.NotificationTime == "23:59:00" {
			t.Error("manual edit survived randomize")
		}
	}
}

func TestUpdateSlotTime_NotFound(t *testing.T) {
	db := testDB(t)
	svc := New(db)

	_, err := svc.UpdateSlotTime(1, "2026-03-09", models.SlotMorning, "09:00:00")
	if !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("got %v, want ErrSlotNotFound", err)
	}
}
