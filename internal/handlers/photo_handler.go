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

// SubmitPhoto records a snap against a prompt. The on-time call happens
// here, once, against the prompt's frozen deadline.
func SubmitPhoto(c *gin.Context) {
	var input models.SubmitPhotoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "prompt_id and image_url are required", nil)
		return
	}

	svc := evaluator.New(config.DB)
	submission, err := svc.SubmitPhoto(input.PromptID, input.ImageURL)
	if err != nil {
		switch {
		case errors.Is(err, evaluator.ErrPromptNotFound):
			utils.APIResponse(c, http.StatusNotFound, false, "Prompt not found", nil)
		case errors.Is(err, evaluator.ErrAlreadySubmitted):
			utils.APIResponse(c, http.StatusConflict, false, "Prompt already has a submission", nil)
		default:
			utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to submit photo", nil)
		}
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "Photo submitted", submission)
}

// UploadPhoto takes the multipart image from the camera screen, stores it in
// S3 and returns the URL to pass along to SubmitPhoto.
func UploadPhoto(c *gin.Context) {
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "photo file is required", nil)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	url, err := utils.UploadPhoto(c.Request.Context(), file, contentType)
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to upload photo", nil)
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "Photo uploaded", gin.H{
		"image_url": url,
	})
}
