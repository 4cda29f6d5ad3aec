package database

import (
	"fmt"
	"log"
	"os"

	"schoolms-backend/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "db"
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Kolkata",
		host, os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"), port)

	var err error
	// TranslateError maps driver duplicate-key errors to gorm.ErrDuplicatedKey
	// so the services can return their sentinels instead of a raw 500.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Println(err)
		panic("Could not connect to database")
	}
}

func AutoMigrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.AcademicYear{},
		&models.Standard{},
		&models.Student{},
		&models.FeeCategory{},
		&models.FeeSchedule{},
		&models.FeeDiscount{},
		&models.StudentFee{},
		&models.FeePayment{},
		&models.PaymentAllocation{},
		&models.MonthlyAttendance{},
		&models.Exam{},
		&models.ExamResult{},
		&models.Asset{},
		&models.IdempotencyKey{},
	)
	if err != nil {
		log.Printf("automigrate failed: %v", err)
		panic(err)
	}
}
