package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"bandz-backend/internal/config"
	"bandz-backend/internal/models"
	"bandz-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

var practiceCodeRe = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

// OrthoSignup registers an orthodontist and creates their practice in one go
func OrthoSignup(c *gin.Context) {
	var input models.OrthoSignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid signup input", err.Error())
		return
	}

	if !practiceCodeRe.MatchString(input.PracticeCode) {
		utils.APIResponse(c, http.StatusBadRequest, false, "Practice code must be 3-20 uppercase letters/numbers", nil)
		return
	}

	var existing models.Practice
	if err := config.DB.Where("practice_code = ?", input.PracticeCode).First(&existing).Error; err == nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Practice code already exists", nil)
		return
	}

	var existingOrtho models.Orthodontist
	if err := config.DB.Where("email = ?", input.Email).First(&existingOrtho).Error; err == nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Email already registered", nil)
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to process password", nil)
		return
	}

	practice := models.Practice{
		Name:         input.Name + "'s Practice",
		PracticeCode: input.PracticeCode,
	}
	if err := config.DB.Create(&practice).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to create practice", nil)
		return
	}

	ortho := models.Orthodontist{
		PracticeID:   practice.ID,
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hashedPassword,
	}
	if err := config.DB.Create(&ortho).Error; err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Email already registered", nil)
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "Signup successful, please log in", gin.H{
		"id":            ortho.ID,
		"name":          ortho.Name,
		"email":         ortho.Email,
		"practice_id":   practice.ID,
		"practice_code": practice.PracticeCode,
	})
}

// OrthoLogin authenticates a dashboard user and hands out a JWT
func OrthoLogin(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid login input", nil)
		return
	}

	var ortho models.Orthodontist
	if err := config.DB.Preload("Practice").Where("email = ?", input.Email).First(&ortho).Error; err != nil {
		utils.APIResponse(c, http.StatusUnauthorized, false, "Invalid email or password", nil)
		return
	}

	if !utils.CheckPassword(input.Password, ortho.PasswordHash) {
		utils.APIResponse(c, http.StatusUnauthorized, false, "Invalid email or password", nil)
		return
	}

	token, err := utils.GenerateToken(ortho.ID, utils.RoleOrtho, ortho.PracticeID)
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to generate token", nil)
		return
	}

	resp := gin.H{
		"token": token,
		"user": gin.H{
			"id":          ortho.ID,
			"name":        ortho.Name,
			"email":       ortho.Email,
			"practice_id": ortho.PracticeID,
		},
	}
	if ortho.Practice != nil {
		resp["user"].(gin.H)["practice_name"] = ortho.Practice.Name
		resp["user"].(gin.H)["practice_code"] = ortho.Practice.PracticeCode
	}
	utils.APIResponse(c, http.StatusOK, true, "Login successful", resp)
}

// PatientSignup enrolls a patient into a practice by its code (mobile app)
func PatientSignup(c *gin.Context) {
	var input models.PatientSignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid signup input", err.Error())
		return
	}

	var practice models.Practice
	code := strings.ToUpper(input.PracticeCode)
	if err := config.DB.Where("practice_code = ?", code).First(&practice).Error; err != nil {
		utils.APIResponse(c, http.StatusNotFound, false, "Practice not found", nil)
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to process password", nil)
		return
	}

	patient := models.Patient{
		PracticeID:   practice.ID,
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		DOB:          input.DOB,
		PasswordHash: hashedPassword,
		Status:       models.PatientStatusActive,
	}
	if err := config.DB.Create(&patient).Error; err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Email already registered", nil)
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "Signup successful", gin.H{
		"id":          patient.ID,
		"name":        patient.Name,
		"email":       patient.Email,
		"practice_id": practice.ID,
	})
}

// PatientLogin authenticates a mobile user; also captures the device's FCM
// token so prompt notifications can reach this phone
func PatientLogin(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "Invalid login input", nil)
		return
	}

	var patient models.Patient
	if err := config.DB.Preload("Practice").Where("email = ?", input.Email).First(&patient).Error; err != nil {
		utils.APIResponse(c, http.StatusUnauthorized, false, "Invalid email or password", nil)
		return
	}

	if !utils.CheckPassword(input.Password, patient.PasswordHash) {
		utils.APIResponse(c, http.StatusUnauthorized, false, "Invalid email or password", nil)
		return
	}

	if input.FCMToken != "" {
		config.DB.Model(&patient).Update("fcm_token", input.FCMToken)
	}

	token, err := utils.GenerateToken(patient.ID, utils.RolePatient, patient.PracticeID)
	if err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "Failed to generate token", nil)
		return
	}

	resp := gin.H{
		"token": token,
		"user": gin.H{
			"id":          patient.ID,
			"name":        patient.Name,
			"email":       patient.Email,
			"practice_id": patient.PracticeID,
		},
	}
	if patient.Practice != nil {
		resp["user"].(gin.H)["practice_name"] = patient.Practice.Name
	}
	utils.APIResponse(c, http.StatusOK, true, "Login successful", resp)
}
