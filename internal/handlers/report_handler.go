package handlers

import (
	"net/http"
	"sort"
	"strconv"

	"bandz-backend/internal/config"
	"bandz-backend/internal/models"
	"bandz-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GetPracticeReport ranks active patients by compliance over the last N days
func GetPracticeReport(c *gin.Context) {
	practiceID, _ := c.Get("practiceID")

	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days <= 0 {
		days = 7
	}

	type row struct {
		ID          uint64
		Name        string
		Expected    int64
		Received    int64
		OnTime      int64
		BandPresent int64
		Reviewed    int64
	}
	var rows []row
	config.DB.Raw(`
		SELECT
			p.id,
			p.name,
			COUNT(DISTINCT dp.id) AS expected,
			COUNT(ps.id) AS received,
			COALESCE(SUM(CASE WHEN ps.is_on_time = true THEN 1 ELSE 0 END), 0) AS on_time,
			COALESCE(SUM(CASE WHEN ps.band_present = true THEN 1 ELSE 0 END), 0) AS band_present,
			COALESCE(SUM(CASE WHEN ps.reviewed_by IS NOT NULL THEN 1 ELSE 0 END), 0) AS reviewed
		FROM patients p
		LEFT JOIN daily_prompts dp ON p.id = dp.patient_id
			AND dp.date >= CURDATE() - INTERVAL ? DAY
		LEFT JOIN photo_submissions ps ON dp.id = ps.daily_prompt_id
		WHERE p.practice_id = ? AND p.status = ?
		GROUP BY p.id, p.name`,
		days, practiceID, models.PatientStatusActive).Scan(&rows)

	type reportRow struct {
		ID            uint64 `json:"id"`
		Name          string `json:"name"`
		CompliancePct int    `json:"compliance_pct"`
		OnTimePct     int    `json:"on_time_pct"`
		Missing       int64  `json:"missing"`
	}
	report := make([]reportRow, 0, len(rows))
	for _, r := range rows {
		report = append(report, reportRow{
			ID:            r.ID,
			Name:          r.Name,
			CompliancePct: pct(r.BandPresent, r.Reviewed),
			OnTimePct:     pct(r.OnTime, r.Received),
			Missing:       int64(days)*3 - r.Received,
		})
	}
	sort.Slice(report, func(i, j int) bool {
		return report[i].CompliancePct > report[j].CompliancePct
	})

	utils.APIResponse(c, http.StatusOK, true, "Practice report", report)
}

// GetPatientReport gives the day-by-day slot breakdown for one patient
func GetPatientReport(c *gin.Context) {
	practiceID, _ := c.Get("practiceID")
	patientID := utils.StringToUint64(c.Param("id"))

	days, err := strconv.Atoi(c.DefaultQuery("days", "14"))
	if err != nil || days <= 0 {
		days = 14
	}

	var patient models.Patient
	if err := config.DB.Where("id = ? AND practice_id = ?", patientID, practiceID).
		First(&patient).Error; err != nil {
		utils.APIResponse(c, http.StatusNotFound, false, "Patient not found", nil)
		return
	}

	var prompts []models.DailyPrompt
	config.DB.Preload("Submission").
		Where("patient_id = ? AND date >= CURDATE() - INTERVAL ? DAY", patientID, days).
		Order("date DESC, slot").Find(&prompts)

	type slotStatus struct {
		Submitted   bool  `json:"submitted"`
		IsOnTime    bool  `json:"is_on_time"`
		BandPresent *bool `json:"band_present"`
		Reviewed    bool  `json:"reviewed"`
	}
	type dayRow struct {
		Date  string              `json:"date"`
		Slots map[int]*slotStatus `json:"slots"`
	}

	byDate := map[string]*dayRow{}
	var order []string
	for _, p := range prompts {
		d, ok := byDate[p.Date]
		if !ok {
			d = &dayRow{Date: p.Date, Slots: map[int]*slotStatus{
				models.SlotMorning: nil, models.SlotMidday: nil, models.SlotEvening: nil,
			}}
			byDate[p.Date] = d
			order = append(order, p.Date)
		}
		st := &slotStatus{}
		if p.Submission != nil {
			st.Submitted = true
			st.IsOnTime = p.Submission.IsOnTime
			st.BandPresent = p.Submission.BandPresent
			st.Reviewed = p.Submission.ReviewedBy != nil
		}
		d.Slots[p.Slot] = st
	}

	report := make([]*dayRow, 0, len(order))
	for _, date := range order {
		report = append(report, byDate[date])
	}

	utils.APIResponse(c, http.StatusOK, true, "Patient report", report)
}
