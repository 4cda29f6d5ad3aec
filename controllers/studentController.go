package controllers

import (
	"errors"
	"time"

	"schoolms-backend/database"
	"schoolms-backend/middlewares"
	"schoolms-backend/models"
	"schoolms-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StudentCreateDTO struct {
	AdmissionNumber string `json:"admission_number" validate:"required,min=1,max=20"`
	FirstName       string `json:"first_name" validate:"required,min=1"`
	LastName        string `json:"last_name" validate:"required,min=1"`
	DateOfBirth     string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender          string `json:"gender" validate:"omitempty,oneof=male female other"`
	StandardID      uint   `json:"standard_id" validate:"required"`
	GuardianName    string `json:"guardian_name" validate:"omitempty"`
	GuardianPhone   string `json:"guardian_phone" validate:"omitempty,max=15"`
	Address         string `json:"address" validate:"omitempty"`
	Email           string `json:"email" validate:"omitempty,email"`
	AdmissionDate   string `json:"admission_date" validate:"omitempty,datetime=2006-01-02"`
}

type StudentUpdateDTO struct {
	FirstName     *string `json:"first_name" validate:"omitempty,min=1"`
	LastName      *string `json:"last_name" validate:"omitempty,min=1"`
	StandardID    *uint   `json:"standard_id" validate:"omitempty"`
	GuardianName  *string `json:"guardian_name" validate:"omitempty"`
	GuardianPhone *string `json:"guardian_phone" validate:"omitempty,max=15"`
	Address       *string `json:"address" validate:"omitempty"`
	Email         *string `json:"email" validate:"omitempty,email"`
	IsActive      *bool   `json:"is_active" validate:"omitempty"`
}

// POST /api/student
func CreateStudent(c *fiber.Ctx) error {
	var in StudentCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	db := database.GetRequestDB(c)

	var standard models.Standard
	if err := db.First(&standard, in.StandardID).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "standard not found")
	}

	student := models.Student{
		AdmissionNumber: in.AdmissionNumber,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		Gender:          in.Gender,
		StandardID:      in.StandardID,
		GuardianName:    in.GuardianName,
		GuardianPhone:   in.GuardianPhone,
		Address:         in.Address,
		Email:           in.Email,
		IsActive:        true,
	}
	if in.DateOfBirth != "" {
		student.DateOfBirth, _ = time.Parse("2006-01-02", in.DateOfBirth)
	}
	if in.AdmissionDate != "" {
		student.AdmissionDate, _ = time.Parse("2006-01-02", in.AdmissionDate)
	} else {
		student.AdmissionDate = time.Now()
	}

	if err := db.Create(&student).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create student (duplicate admission number?)")
	}
	return c.JSON(student)
}

// GET /api/students?standard_id=&active=
func GetStudents(c *fiber.Ctx) error {
	q := database.DB.Model(&models.Student{}).Preload("Standard")

	if sid := c.QueryInt("standard_id", 0); sid > 0 {
		q = q.Where("standard_id = ?", sid)
	}
	if active := c.Query("active"); active != "" {
		q = q.Where("is_active = ?", active == "true")
	}

	var students []models.Student
	q.Order("admission_number").Find(&students)
	return c.JSON(fiber.Map{"students": students, "message": "success"})
}

// GET /api/student/:id
func GetStudent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var student models.Student
	if err := database.DB.Preload("Standard").First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "student not found")
		}
		return err
	}
	return c.JSON(student)
}

// PUT /api/student/:id
func UpdateStudent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var in StudentUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	db := database.GetRequestDB(c)

	var student models.Student
	if err := db.First(&student, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "student not found")
	}

	updates := utils.UpdatesFromPtrDTO(&in, nil)
	if len(updates) == 0 {
		return c.JSON(student)
	}
	if err := db.Model(&student).Updates(updates).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not update student")
	}
	return c.JSON(student)
}
