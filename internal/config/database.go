package config

import (
	"fmt"
	"log"
	"os"

	"bandz-backend/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// DB is the shared gorm handle used by all handlers
var DB *gorm.DB

// ConnectDB opens the MySQL connection and runs migrations
func ConnectDB() {
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASS")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	name := os.Getenv("DB_NAME")

	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "3306"
	}
	if name == "" {
		name = "bandz"
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, name)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Keep migration order parent-first so foreign keys resolve
	err = db.AutoMigrate(
		&models.Practice{},
		&models.Orthodontist{},
		&models.Patient{},
		&models.DailyPrompt{},
		&models.ScheduleSlot{},
		&models.PhotoSubmission{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	DB = db
	log.Println("Database connected & migrated")
}
