package handlers

import (
	"errors"
	"net/http"

	"bandz-backend/internal/config"
	"bandz-backend/internal/evaluator"
	"bandz-backend/internal/models"
	"bandz-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RecordReview stores the band-presence judgment for one submission.
// Repeat calls overwrite: the reviewer's latest word stands.
func RecordReview(c *gin.Context) {
	orthoID, _ := c.Get("userID")

	var input models.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "daily_prompt_id and band_present are required", nil)
		return
	}

	svc := evaluator.New(config.DB)
	submission, err := svc.RecordReview(input.DailyPromptID, *input.BandPresent, input.Note, orthoID.(uint64))
	if err != nil {
		if errors.Is(err, evaluator.ErrNoSubmission) {
			utils.APIResponse(c, http.StatusNotFound, false, "No submission found for this prompt", nil)
			return
		}
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to save review", nil)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Review saved", submission)
}

// MarkAllReviewed stamps the caller on every unreviewed submission for a
// patient's day. Safe to click twice: already-reviewed rows are skipped.
func MarkAllReviewed(c *gin.Context) {
	orthoID, _ := c.Get("userID")

	var input models.MarkAllReviewedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "patient_id and date are required", nil)
		return
	}

	svc := evaluator.New(config.DB)
	marked, err := svc.MarkAllReviewed(input.PatientID, input.Date, orthoID.(uint64))
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to mark all as reviewed", nil)
		return
	}

	utils.APIResponse(c, http.StatusOK, true, "Marked as reviewed", gin.H{
		"marked": marked,
	})
}
