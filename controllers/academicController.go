package controllers

import (
	"time"

	"schoolms-backend/database"
	"schoolms-backend/middlewares"
	"schoolms-backend/models"

	"github.com/gofiber/fiber/v2"
)

type AcademicYearCreateDTO struct {
	Name            string `json:"name" validate:"required,min=4,max=20"`
	StartDate       string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string `json:"end_date" validate:"required,datetime=2006-01-02"`
	IsCurrent       bool   `json:"is_current"`
	IsAdmissionOpen bool   `json:"is_admission_open"`
}

// POST /api/academic-year
func CreateAcademicYear(c *fiber.Ctx) error {
	var in AcademicYearCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	start, _ := time.Parse("2006-01-02", in.StartDate)
	end, _ := time.Parse("2006-01-02", in.EndDate)
	if !end.After(start) {
		return fiber.NewError(fiber.StatusBadRequest, "end_date must be after start_date")
	}

	db := database.GetRequestDB(c)

	// Single-current invariant enforced at write time: claiming current
	// demotes the previous holder inside the same transaction.
	if in.IsCurrent {
		if err := db.Model(&models.AcademicYear{}).
			Where("is_current = ?", true).
			Update("is_current", false).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not demote current year")
		}
	}

	year := models.AcademicYear{
		Name:            in.Name,
		StartDate:       start,
		EndDate:         end,
		IsCurrent:       in.IsCurrent,
		IsAdmissionOpen: in.IsAdmissionOpen,
	}
	if err := db.Create(&year).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create academic year")
	}
	return c.JSON(year)
}

// PUT /api/academic-year/:id/current
func SetCurrentAcademicYear(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	db := database.GetRequestDB(c)

	var year models.AcademicYear
	if err := db.First(&year, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "academic year not found")
	}

	if err := db.Model(&models.AcademicYear{}).
		Where("is_current = ? AND id <> ?", true, year.ID).
		Update("is_current", false).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not demote current year")
	}
	if err := db.Model(&year).Update("is_current", true).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not set current year")
	}

	return c.JSON(year)
}

// GET /api/academic-years
func GetAcademicYears(c *fiber.Ctx) error {
	var years []models.AcademicYear
	database.DB.Order("start_date DESC").Find(&years)
	return c.JSON(fiber.Map{"academic_years": years, "message": "success"})
}

type StandardCreateDTO struct {
	Name     string `json:"name" validate:"required,min=1,max=20"`
	Section  string `json:"section" validate:"required,min=1,max=5"`
	Capacity int    `json:"capacity" validate:"omitempty,gt=0"`
}

// POST /api/standard
func CreateStandard(c *fiber.Ctx) error {
	var in StandardCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	standard := models.Standard{
		Name:     in.Name,
		Section:  in.Section,
		Capacity: in.Capacity,
		IsActive: true,
	}
	if standard.Capacity == 0 {
		standard.Capacity = 40
	}

	if err := database.GetRequestDB(c).Create(&standard).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create standard (duplicate name/section?)")
	}
	return c.JSON(standard)
}

// GET /api/standards
func GetStandards(c *fiber.Ctx) error {
	var standards []models.Standard
	database.DB.Order("name, section").Find(&standards)
	return c.JSON(fiber.Map{"standards": standards, "message": "success"})
}
