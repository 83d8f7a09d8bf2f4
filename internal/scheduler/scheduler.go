// Package scheduler owns prompt timing: it lazily creates the three daily
// photo prompts per patient and maintains the practice-level week timetable.
package scheduler

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"bandz-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrSlotNotFound    = errors.New("schedule slot not found")
)

// DeadlineOffset is how long after the notification a snap still counts as on time.
const DeadlineOffset = 2 * time.Minute

const dateLayout = "2006-01-02"

// Window is a capture window for one slot, in local wall-clock hours.
type Window struct {
	Slot      int
	StartHour int
	EndHour   int
}

// The fixed policy: morning 8-10, midday 12-3, evening 7-9.
var Windows = []Window{
	{Slot: models.SlotMorning, StartHour: 8, EndHour: 10},
	{Slot: models.SlotMidday, StartHour: 12, EndHour: 15},
	{Slot: models.SlotEvening, StartHour: 19, EndHour: 21},
}

type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// RandomTimeInWindow draws a uniform random instant in [startHour, endHour)
// on the given day, at minute resolution. Every random draw in the system
// goes through here.
func RandomTimeInWindow(day time.Time, startHour, endHour int) time.Time {
	minutes := rand.Intn((endHour - startHour) * 60)
	windowStart := time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, day.Location())
	return windowStart.Add(time.Duration(minutes) * time.Minute)
}

// EnsureDailyPrompts guarantees the three prompts for (patient, date) exist
// and returns them ordered by slot. Times are frozen at first creation:
// asking again never re-rolls them. Safe under concurrent duplicate calls
// because the insert is a no-op on conflict with (patient_id, date, slot).
//
// The second return value reports whether this call created the prompts,
// so the caller knows when to fire notifications.
func (s *Service) EnsureDailyPrompts(patientID uint64, date string) ([]models.DailyPrompt, bool, error) {
	day, err := time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		return nil, false, fmt.Errorf("invalid date %q: %w", date, err)
	}

	var patient models.Patient
	if err := s.db.First(&patient, patientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrPatientNotFound
		}
		return nil, false, err
	}

	var prompts []models.DailyPrompt
	if err := s.db.Where("patient_id = ? AND date = ?", patientID, date).
		Order("slot").Find(&prompts).Error; err != nil {
		return nil, false, err
	}
	if len(prompts) == len(Windows) {
		return prompts, false, nil
	}

	fresh := make([]models.DailyPrompt, 0, len(Windows))
	for _, w := range Windows {
		notifyAt := RandomTimeInWindow(day, w.StartHour, w.EndHour)
		deadline := notifyAt.Add(DeadlineOffset)
		fresh = append(fresh, models.DailyPrompt{
			PatientID:            patientID,
			Date:                 date,
			Slot:                 w.Slot,
			NotificationSentAt:   notifyAt,
			SubmissionDeadlineAt: &deadline,
		})
	}

	// Insert-if-absent: a concurrent call may have won the race for some
	// slots already, and those rows must keep their original times.
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
		return nil, false, err
	}

	prompts = prompts[:0]
	if err := s.db.Where("patient_id = ? AND date = ?", patientID, date).
		Order("slot").Find(&prompts).Error; err != nil {
		return nil, false, err
	}
	return prompts, true, nil
}

// GetWeekSchedule returns the 21 timetable cells for the 7 days starting at
// weekStart, generating them with fresh random times if the week is empty.
func (s *Service) GetWeekSchedule(practiceID uint64, weekStart string) ([]models.ScheduleSlot, error) {
	start, end, err := weekBounds(weekStart)
	if err != nil {
		return nil, err
	}

	var slots []models.ScheduleSlot
	if err := s.db.Where("practice_id = ? AND date >= ? AND date < ?", practiceID, start, end).
		Order("date, slot").Find(&slots).Error; err != nil {
		return nil, err
	}
	if len(slots) > 0 {
		return slots, nil
	}

	fresh := buildWeek(practiceID, weekStart)
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil {
		return nil, err
	}

	if err := s.db.Where("practice_id = ? AND date >= ? AND date < ?", practiceID, start, end).
		Order("date, slot").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// RandomizeWeekSchedule throws away the week, manual edits included, and
// regenerates all 21 cells. Delete and insert run in one transaction so a
// reader never observes a partial week.
func (s *Service) RandomizeWeekSchedule(practiceID uint64, weekStart string) ([]models.ScheduleSlot, error) {
	start, end, err := weekBounds(weekStart)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("practice_id = ? AND date >= ? AND date < ?", practiceID, start, end).
			Delete(&models.ScheduleSlot{}).Error; err != nil {
			return err
		}
		fresh := buildWeek(practiceID, weekStart)
		return tx.Create(&fresh).Error
	})
	if err != nil {
		return nil, err
	}

	var slots []models.ScheduleSlot
	if err := s.db.Where("practice_id = ? AND date >= ? AND date < ?", practiceID, start, end).
		Order("date, slot").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// UpdateSlotTime overrides the random draw for one timetable cell.
func (s *Service) UpdateSlotTime(practiceID uint64, date string, slot int, clock string) (*models.ScheduleSlot, error) {
	var cell models.ScheduleSlot
	err := s.db.Where("practice_id = ? AND date = ? AND slot = ?", practiceID, date, slot).
		First(&cell).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	cell.NotificationTime = clock
	if err := s.db.Model(&cell).Update("notification_time", clock).Error; err != nil {
		return nil, err
	}
	return &cell, nil
}

func buildWeek(practiceID uint64, weekStart string) []models.ScheduleSlot {
	day, _ := time.ParseInLocation(dateLayout, weekStart, time.Local)
	cells := make([]models.ScheduleSlot, 0, 7*len(Windows))
	for i := 0; i < 7; i++ {
		date := day.AddDate(0, 0, i)
		for _, w := range Windows {
			cells = append(cells, models.ScheduleSlot{
				PracticeID:       practiceID,
				Date:             date.Format(dateLayout),
				Slot:             w.Slot,
				NotificationTime: RandomTimeInWindow(date, w.StartHour, w.EndHour).Format("15:04:05"),
			})
		}
	}
	return cells
}

func weekBounds(weekStart string) (string, string, error) {
	day, err := time.ParseInLocation(dateLayout, weekStart, time.Local)
	if err != nil {
		return "", "", fmt.Errorf("invalid week start %q: %w", weekStart, err)
	}
	return day.Format(dateLayout), day.AddDate(0, 0, 7).Format(dateLayout), nil
}
