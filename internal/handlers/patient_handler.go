package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"bandz-backend/internal/config"
	"bandz-backend/internal/models"
	"bandz-backend/internal/scheduler"
	"bandz-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// windowMetrics is what the aggregate queries scan into
type windowMetrics struct {
	Total       int64
	OnTime      int64
	BandPresent int64
	Reviewed    int64
}

func pct(part, whole int64) int {
	if whole <= 0 {
		return 0
	}
	return int(float64(part)/float64(whole)*100 + 0.5)
}

// GetPracticePatients lists every patient of the caller's practice
func GetPracticePatients(c *gin.Context) {
	practiceID, _ := c.Get("practiceID")

	var patients []models.Patient
	config.DB.Where("practice_id = ?", practiceID).Order("name").Find(&patients)

	utils.APIResponse(c, http.StatusOK, true, "Practice patients", patients)
}

// GetPatientDetail returns one patient plus 7-day and 30-day compliance metrics
func GetPatientDetail(c *gin.Context) {
	practiceID, _ := c.Get("practiceID")
	patientID := utils.StringToUint64(c.Param("id"))

	var patient models.Patient
	if err := config.DB.Preload("Practice").
		Where("id = ? AND practice_id = ?", patientID, practiceID).
		First(&patient).Error; err != nil {
		utils.APIResponse(c, http.StatusNotFound, false, "Patient not found", nil)
		return
	}

	m7 := patientWindowMetrics(patientID, 7)
	m30 := patientWindowMetrics(patientID, 30)

	utils.APIResponse(c, http.StatusOK, true, "Patient detail", gin.H{
		"patient": patient,
		"metrics": gin.H{
			"last_7_days": gin.H{
				"compliance_pct": pct(m7.BandPresent, m7.Reviewed),
				"on_time_pct":    pct(m7.OnTime, m7.Total),
			},
			"last_30_days": gin.H{
				"compliance_pct": pct(m30.BandPresent, m30.Reviewed),
				"on_time_pct":    pct(m30.OnTime, m30.Total),
				"missing":        30*3 - m30.Total, // 3 prompts per day
			},
		},
	})
}

func patientWindowMetrics(patientID uint64, days int) windowMetrics {
	var m windowMetrics
	config.DB.Raw(`
		SELECT
			COUNT(dp.id) AS total,
			COALESCE(SUM(CASE WHEN ps.is_on_time = true THEN 1 ELSE 0 END), 0) AS on_time,
			COALESCE(SUM(CASE WHEN ps.band_present = true THEN 1 ELSE 0 END), 0) AS band_present,
			COALESCE(SUM(CASE WHEN ps.reviewed_by IS NOT NULL THEN 1 ELSE 0 END), 0) AS reviewed
		FROM daily_prompts dp
		LEFT JOIN photo_submissions ps ON dp.id = ps.daily_prompt_id
		WHERE dp.patient_id = ? AND dp.date >= CURDATE() - INTERVAL ? DAY`,
		patientID, days).Scan(&m)
	return m
}

// GetPatientReviewData returns the day's three slots joined with their
// submissions, for the reviewer screen
func GetPatientReviewData(c *gin.Context) {
	practiceID, _ := c.Get("practiceID")
	patientID := utils.StringToUint64(c.Param("id"))

	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	var patient models.Patient
	if err := config.DB.Where("id = ? AND practice_id = ?", patientID, practiceID).
		First(&patient).Error; err != nil {
		utils.APIResponse(c, http.StatusNotFound, false, "Patient not found", nil)
		return
	}

	var prompts []models.DailyPrompt
	config.DB.Preload("Submission").
		Where("patient_id = ? AND date = ?", patientID, date).
		Order("slot").Find(&prompts)

	utils.APIResponse(c, http.StatusOK, true, "Review data", prompts)
}

// UpdatePatientStatus pauses or resumes a patient. Paused patients drop off
// the dashboard but their history stays.
func UpdatePatientStatus(c *gin.Context) {
	practiceID, _ := c.Get("practiceID")
	patientID := utils.StringToUint64(c.Param("id"))

	var input models.UpdatePatientStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid status", nil)
		return
	}

	var patient models.Patient
	if err := config.DB.Where("id = ? AND practice_id = ?", patientID, practiceID).
		First(&patient).Error; err != nil {
		utils.APIResponse(c, http.StatusNotFound, false, "Patient not found", nil)
		return
	}

	config.DB.Model(&patient).Update("status", input.Status)
	patient.Status = input.Status

	utils.APIResponse(c, http.StatusOK, true, "Patient status updated", patient)
}

// GetPatientStats powers the mobile home screen: all-time on-time rate,
// week-over-week trend, days enrolled and ranking within the practice.
func GetPatientStats(c *gin.Context) {
	patientID := utils.StringToUint64(c.Param("id"))
	if !canAccessPatient(c, patientID) {
		utils.APIResponse(c, http.StatusForbidden, false, "Access denied", nil)
		return
	}

	var patient models.Patient
	if err := config.DB.Preload("Practice").First(&patient, patientID).Error; err != nil {
		utils.APIResponse(c, http.StatusNotFound, false, "Patient not found", nil)
		return
	}

	var allTime struct {
		TotalSnaps  int64
		OnTimeSnaps int64
	}
	config.DB.Raw(`
		SELECT
			COUNT(ps.id) AS total_snaps,
			COALESCE(SUM(CASE WHEN ps.is_on_time = true THEN 1 ELSE 0 END), 0) AS on_time_snaps
		FROM photo_submissions ps
		JOIN daily_prompts dp ON ps.daily_prompt_id = dp.id
		WHERE dp.patient_id = ?`, patientID).Scan(&allTime)

	thisWeek := patientWindowMetrics(patientID, 7)
	lastWeek := patientWindowMetricsBetween(patientID, 14, 7)
	wowChange := pct(thisWeek.OnTime, thisWeek.Total) - pct(lastWeek.OnTime, lastWeek.Total)

	days := int(time.Since(patient.CreatedAt).Hours()/24) + 1

	practiceName := ""
	if patient.Practice != nil {
		practiceName = patient.Practice.Name
	}

	changeStr := ""
	if wowChange >= 0 {
		changeStr = "+"
	}

	utils.APIResponse(c, http.StatusOK, true, "Patient stats", gin.H{
		"patient": gin.H{
			"id":       patient.ID,
			"name":     patient.Name,
			"practice": practiceName,
		},
		"stats": gin.H{
			"on_time_snaps":  pct(allTime.OnTimeSnaps, allTime.TotalSnaps),
			"on_time_change": changeStr + strconv.Itoa(wowChange) + "%",
			"total_snaps":    allTime.TotalSnaps,
			"total_days":     days,
			"ranking":        practiceRanking(patient.PracticeID, patientID),
		},
	})
}

func patientWindowMetricsBetween(patientID uint64, fromDaysAgo, toDaysAgo int) windowMetrics {
	var m windowMetrics
	config.DB.Raw(`
		SELECT
			COUNT(dp.id) AS total,
			COALESCE(SUM(CASE WHEN ps.is_on_time = true THEN 1 ELSE 0 END), 0) AS on_time,
			COALESCE(SUM(CASE WHEN ps.band_present = true THEN 1 ELSE 0 END), 0) AS band_present,
			COALESCE(SUM(CASE WHEN ps.reviewed_by IS NOT NULL THEN 1 ELSE 0 END), 0) AS reviewed
		FROM daily_prompts dp
		LEFT JOIN photo_submissions ps ON dp.id = ps.daily_prompt_id
		WHERE dp.patient_id = ?
		AND dp.date >= CURDATE() - INTERVAL ? DAY
		AND dp.date < CURDATE() - INTERVAL ? DAY`,
		patientID, fromDaysAgo, toDaysAgo).Scan(&m)
	return m
}

// practiceRanking returns which top-% bucket this patient's on-time rate
// falls into among practice peers (10 = top 10%). Rank math happens here in
// Go, the query just pulls per-patient counts.
func practiceRanking(practiceID, patientID uint64) int {
	type row struct {
		PatientID uint64
		Total     int64
		OnTime    int64
	}
	var rows []row
	config.DB.Raw(`
		SELECT
			dp.patient_id,
			COUNT(ps.id) AS total,
			COALESCE(SUM(CASE WHEN ps.is_on_time = true THEN 1 ELSE 0 END), 0) AS on_time
		FROM daily_prompts dp
		LEFT JOIN photo_submissions ps ON dp.id = ps.daily_prompt_id
		JOIN patients p ON dp.patient_id = p.id
		WHERE p.practice_id = ?
		GROUP BY dp.patient_id`, practiceID).Scan(&rows)

	if len(rows) == 0 {
		return 50
	}

	var mine int
	better := 0
	found := false
	for _, r := range rows {
		score := pct(r.OnTime, r.Total)
		if r.PatientID == patientID {
			mine = score
			found = true
		}
	}
	if !found {
		return 50
	}
	for _, r := range rows {
		if pct(r.OnTime, r.Total) > mine {
			better++
		}
	}
	ranking := (better*100/len(rows) + 9) / 10 * 10 // round up to a 10% bucket
	if ranking < 10 {
		ranking = 10
	}
	return ranking
}

// GetTodaysPrompts is the mobile entry point: fetching today lazily creates
// the three prompts on first call, then returns them with any submissions.
func GetTodaysPrompts(c *gin.Context) {
	patientID := utils.StringToUint64(c.Param("id"))
	if !canAccessPatient(c, patientID) {
		utils.APIResponse(c, http.StatusForbidden, false, "Access denied", nil)
		return
	}

	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	svc := scheduler.New(config.DB)
	_, created, err := svc.EnsureDailyPrompts(patientID, date)
	if err != nil {
		if errors.Is(err, scheduler.ErrPatientNotFound) {
			utils.APIResponse(c, http.StatusNotFound, false, "Patient not found", nil)
			return
		}
		utils.APIResponse(c, http.StatusBadRequest, false, "Failed to fetch today's prompts", err.Error())
		return
	}

	// Attach submissions so the app can show which slots are done
	var result []models.DailyPrompt
	config.DB.Preload("Submission").
		Where("patient_id = ? AND date = ?", patientID, date).
		Order("slot").Find(&result)

	// Fresh prompts: let the phone know its snap times are set
	if created {
		var patient models.Patient
		if err := config.DB.First(&patient, patientID).Error; err == nil && patient.FCMToken != "" {
			utils.SendNotification(patient.FCMToken, "BANDZ", "Today's snap times are ready", map[string]string{
				"date": date,
			})
		}
	}

	utils.APIResponse(c, http.StatusOK, true, "Today's prompts", result)
}

// canAccessPatient: patients may only touch their own record, orthos any
// patient (practice scoping happens in the queries themselves)
func canAccessPatient(c *gin.Context, patientID uint64) bool {
	role, _ := c.Get("role")
	if role == utils.RoleOrtho {
		return true
	}
	userID, _ := c.Get("userID")
	return userID == patientID
}
