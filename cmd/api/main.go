package main

import (
	"log"
	"os"

	"bandz-backend/internal/config"
	"bandz-backend/internal/routes"
	"bandz-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load env
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Connect DB
	config.ConnectDB()

	// 3. External services: push + photo storage
	utils.InitFCM()
	utils.InitStorage()

	// 4. Router + routes
	r := gin.Default()
	routes.SetupRoutes(r)

	// 5. Health check
	r.GET("/ping", func(c *gin.Context) {
		utils.APIResponse(c, 200, true, "Server OK!", nil)
	})

	// 6. Run server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("BANDZ API running on port " + port)
	r.Run(":" + port)
}
