package handlers

import (
	"errors"
	"net/http"
	"time"

	"bandz-backend/internal/config"
	"bandz-backend/internal/models"
	"bandz-backend/internal/scheduler"
	"bandz-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GetWeekSchedule returns the practice's 21-cell timetable for the week,
// generating it with random times on first access
func GetWeekSchedule(c *gin.Context) {
	practiceID, _ := c.Get("practiceID")

	weekStart := c.Query("weekStart")
	if weekStart == "" {
		weekStart = time.Now().Format("2006-01-02")
	}

	svc := scheduler.New(config.DB)
	slots, err := svc.GetWeekSchedule(practiceID.(uint64), weekStart)
	if err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Failed to fetch schedule", err.Error())
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Week schedule", slots)
}

// RandomizeWeekSchedule re-rolls the whole week, dropping manual edits
func RandomizeWeekSchedule(c *gin.Context) {
	practiceID, _ := c.Get("practiceID")

	var input models.RandomizeWeekInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "week_start is required", nil)
		return
	}

	svc := scheduler.New(config.DB)
	slots, err := svc.RandomizeWeekSchedule(practiceID.(uint64), input.WeekStart)
	if err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Failed to randomize schedule", err.Error())
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Week schedule randomized", slots)
}

// UpdateScheduleSlot sets one cell's time by hand
func UpdateScheduleSlot(c *gin.Context) {
	practiceID, _ := c.Get("practiceID")

	var input models.UpdateSlotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "date, slot and time are required", nil)
		return
	}

	svc := scheduler.New(config.DB)
	cell, err := svc.UpdateSlotTime(practiceID.(uint64), input.Date, input.Slot, input.Time)
	if err != nil {
		if errors.Is(err, scheduler.ErrSlotNotFound) {
			utils.APIResponse(c, http.StatusNotFound, false, "Schedule slot not found", nil)
			return
		}
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to update slot", nil)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Slot updated", cell)
}
