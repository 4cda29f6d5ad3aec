package controllers

import (
	"errors"
	"time"

	"schoolms-backend/database"
	"schoolms-backend/middlewares"
	"schoolms-backend/models"
	"schoolms-backend/services"
	"schoolms-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type GenerateObligationsDTO struct {
	AcademicYearID uint  `json:"academic_year_id" validate:"required"`
	StandardID     uint  `json:"standard_id" validate:"required"`
	DiscountID     *uint `json:"discount_id" validate:"omitempty"`
}

// POST /api/fees/obligations/generate
// Idempotent: re-running skips (student, schedule, period) rows that exist.
func GenerateObligations(c *fiber.Ctx) error {
	var in GenerateObligationsDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	db := database.GetRequestDB(c)

	var year models.AcademicYear
	if err := db.First(&year, in.AcademicYearID).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "academic year not found")
	}

	var discount *models.FeeDiscount
	if in.DiscountID != nil {
		var d models.FeeDiscount
		if err := db.Preload("Categories").First(&d, *in.DiscountID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "discount not found")
		}
		discount = &d
	}

	result, err := services.NewGenerator(db).
		GenerateForStandard(&year, in.StandardID, discount, time.Now())
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GET /api/student/:id/fees?status=
func GetStudentFees(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	q := database.DB.Model(&models.StudentFee{}).
		Preload("FeeSchedule").Preload("FeeSchedule.FeeCategory").
		Where("student_id = ?", id)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var fees []models.StudentFee
	q.Order("due_date, id").Find(&fees)

	var totalBalance float64
	for i := range fees {
		totalBalance += fees[i].Balance()
	}

	return c.JSON(fiber.Map{
		"student_fees":  fees,
		"total_balance": utils.Round2(totalBalance),
		"message":       "success",
	})
}

type WaiveObligationDTO struct {
	Remarks string `json:"remarks" validate:"required,min=3"`
}

// PUT /api/fees/obligation/:id/waive
func WaiveObligation(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var in WaiveObligationDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	db := database.GetRequestDB(c)

	var fee models.StudentFee
	if err := db.First(&fee, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "obligation not found")
		}
		return err
	}

	if err := services.NewLedger(db).Waive(db, &fee, in.Remarks, time.Now()); err != nil {
		return err
	}
	return c.JSON(fee)
}

// POST /api/fees/accrue-late-fees
// Manual trigger for the daily accrual pass; safe to call repeatedly.
func AccrueLateFees(c *fiber.Ctx) error {
	runner := services.NewAccrualRunner(database.DB, nil)
	if err := runner.RunOnce(time.Now()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "late fee accrual completed"})
}
