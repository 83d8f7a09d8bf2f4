package routes

import (
	"bandz-backend/internal/handlers"
	"bandz-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RateLimitMiddleware())

	api := r.Group("/api/v1")
	{
		// PUBLIC: auth for both sides of the product
		auth := api.Group("/auth")
		{
			auth.POST("/signup", handlers.OrthoSignup)
			auth.POST("/login", handlers.OrthoLogin)
			auth.POST("/patients/signup", handlers.PatientSignup)
			auth.POST("/patients/login", handlers.PatientLogin)
		}

		api.GET("/settings", handlers.GetSettings)

		// PROTECTED: everything else needs a token
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// MOBILE: prompts and snaps
			protected.GET("/patients/:id/prompts/today", handlers.GetTodaysPrompts)
			protected.GET("/patients/:id/stats", handlers.GetPatientStats)
			protected.POST("/photos", handlers.SubmitPhoto)
			protected.POST("/photos/upload", handlers.UploadPhoto)

			// DASHBOARD: orthodontist-only surface
			ortho := protected.Group("/")
			ortho.Use(middleware.OrthoOnly())
			{
				ortho.GET("/patients", handlers.GetPracticePatients)
				ortho.GET("/patients/:id", handlers.GetPatientDetail)
				ortho.GET("/patients/:id/review", handlers.GetPatientReviewData)
				ortho.PATCH("/patients/:id/status", handlers.UpdatePatientStatus)

				ortho.GET("/dashboard/stats", handlers.GetDashboardStats)
				ortho.GET("/dashboard/patients", handlers.GetDashboardPatients)

				ortho.GET("/schedule", handlers.GetWeekSchedule)
				ortho.POST("/schedule/randomize", handlers.RandomizeWeekSchedule)
				ortho.PUT("/schedule/slot", handlers.UpdateScheduleSlot)

				ortho.POST("/review", handlers.RecordReview)
				ortho.POST("/review/mark-all", handlers.MarkAllReviewed)

				ortho.GET("/reports/practice", handlers.GetPracticeReport)
				ortho.GET("/reports/patient/:id", handlers.GetPatientReport)
			}
		}
	}
}
