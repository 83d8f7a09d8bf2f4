package handlers

import (
	"net/http"
	"time"

	"bandz-backend/internal/config"
	"bandz-backend/internal/models"
	"bandz-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats summarizes the practice over the last 7 days
func GetDashboardStats(c *gin.Context) {
	practiceID, _ := c.Get("practiceID")

	var totalPatients int64
	config.DB.Model(&models.Patient{}).Where("practice_id = ?", practiceID).Count(&totalPatients)

	var m windowMetrics
	config.DB.Raw(`
		SELECT
			COUNT(ps.id) AS total,
			COALESCE(SUM(CASE WHEN ps.is_on_time = true THEN 1 ELSE 0 END), 0) AS on_time,
			COALESCE(SUM(CASE WHEN ps.band_present = true THEN 1 ELSE 0 END), 0) AS band_present,
			COALESCE(SUM(CASE WHEN ps.reviewed_by IS NOT NULL THEN 1 ELSE 0 END), 0) AS reviewed
		FROM photo_submissions ps
		JOIN daily_prompts dp ON ps.daily_prompt_id = dp.id
		JOIN patients p ON dp.patient_id = p.id
		WHERE p.practice_id = ?
		AND ps.submitted_at >= NOW() - INTERVAL 7 DAY`, practiceID).Scan(&m)

	utils.APIResponse(c, http.StatusOK, true, "Dashboard stats", gin.H{
		"patients_monitored": totalPatients,
		"compliance_pct":     pct(m.BandPresent, m.Reviewed),
		"on_time_pct":        pct(m.OnTime, m.Total),
		"unreviewed_photos":  m.Total - m.Reviewed,
	})
}

// GetDashboardPatients lists active patients with today's counters
func GetDashboardPatients(c *gin.Context) {
	practiceID, _ := c.Get("practiceID")
	today := time.Now().Format("2006-01-02")

	type row struct {
		ID            uint64 `json:"id"`
		Name          string `json:"name"`
		Status        string `json:"status"`
		ExpectedToday int64  `json:"expected_today"`
		ReceivedToday int64  `json:"received_today"`
		OnTimeToday   int64  `json:"on_time_today"`
		Unreviewed    int64  `json:"unreviewed"`
	}
	var rows []row
	config.DB.Raw(`
		SELECT
			p.id,
			p.name,
			p.status,
			COALESCE(SUM(CASE WHEN dp.date = ? THEN 1 ELSE 0 END), 0) AS expected_today,
			COALESCE(SUM(CASE WHEN dp.date = ? AND ps.id IS NOT NULL THEN 1 ELSE 0 END), 0) AS received_today,
			COALESCE(SUM(CASE WHEN dp.date = ? AND ps.is_on_time = true THEN 1 ELSE 0 END), 0) AS on_time_today,
			COALESCE(SUM(CASE WHEN ps.id IS NOT NULL AND ps.reviewed_by IS NULL THEN 1 ELSE 0 END), 0) AS unreviewed
		FROM patients p
		LEFT JOIN daily_prompts dp ON p.id = dp.patient_id
		LEFT JOIN photo_submissions ps ON dp.id = ps.daily_prompt_id
		WHERE p.practice_id = ? AND p.status = ?
		GROUP BY p.id, p.name, p.status
		ORDER BY p.name`,
		today, today, today, practiceID, models.PatientStatusActive).Scan(&rows)

	utils.APIResponse(c, http.StatusOK, true, "Dashboard patients", rows)
}
