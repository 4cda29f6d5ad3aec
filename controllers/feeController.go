package controllers

import (
	"schoolms-backend/database"
	"schoolms-backend/middlewares"
	"schoolms-backend/models"
	"schoolms-backend/services"
	"schoolms-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type FeeCategoryCreateDTO struct {
	Code        string `json:"code" validate:"required,min=1,max=20"`
	Name        string `json:"name" validate:"required,min=1,max=100"`
	FeeType     string `json:"fee_type" validate:"required,max=20"`
	Description string `json:"description" validate:"omitempty"`
	IsMandatory *bool  `json:"is_mandatory" validate:"omitempty"`
}

// POST /api/fees/category
func CreateFeeCategory(c *fiber.Ctx) error {
	var in FeeCategoryCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	category := models.FeeCategory{
		Code:        in.Code,
		Name:        in.Name,
		FeeType:     in.FeeType,
		Description: in.Description,
		IsMandatory: true,
		IsActive:    true,
	}
	if in.IsMandatory != nil {
		category.IsMandatory = *in.IsMandatory
	}

	if err := database.GetRequestDB(c).Create(&category).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create fee category (duplicate code?)")
	}
	return c.JSON(category)
}

// GET /api/fees/categories
func GetFeeCategories(c *fiber.Ctx) error {
	var categories []models.FeeCategory
	database.DB.Order("name").Find(&categories)
	return c.JSON(fiber.Map{"fee_categories": categories, "message": "success"})
}

type FeeScheduleCreateDTO struct {
	AcademicYearID uint    `json:"academic_year_id" validate:"required"`
	StandardID     uint    `json:"standard_id" validate:"required"`
	FeeCategoryID  uint    `json:"fee_category_id" validate:"required"`
	Amount         float64 `json:"amount" validate:"required,gte=0"`
	Frequency      string  `json:"frequency" validate:"required,oneof=one_time monthly quarterly half_yearly yearly"`
	DueDay         int     `json:"due_day" validate:"omitempty,gte=1,lte=31"`
	LateFeePerDay  float64 `json:"late_fee_per_day" validate:"omitempty,gte=0"`
	MaxLateFee     float64 `json:"max_late_fee" validate:"omitempty,gte=0"`
}

// POST /api/fees/schedule
// Schedules are editable only until obligations are generated from them;
// generated obligations carry copied amounts and never change.
func CreateFeeSchedule(c *fiber.Ctx) error {
	var in FeeScheduleCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	schedule := models.FeeSchedule{
		AcademicYearID: in.AcademicYearID,
		StandardID:     in.StandardID,
		FeeCategoryID:  in.FeeCategoryID,
		Amount:         in.Amount,
		Frequency:      models.Frequency(in.Frequency),
		DueDay:         in.DueDay,
		LateFeePerDay:  in.LateFeePerDay,
		MaxLateFee:     in.MaxLateFee,
		IsActive:       true,
	}
	if schedule.DueDay == 0 {
		schedule.DueDay = 10
	}

	if err := database.GetRequestDB(c).Create(&schedule).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create fee schedule (duplicate year/standard/category?)")
	}
	return c.JSON(schedule)
}

// GET /api/fees/schedules?academic_year_id=&standard_id=
func GetFeeSchedules(c *fiber.Ctx) error {
	q := database.DB.Model(&models.FeeSchedule{}).Preload("FeeCategory")

	if yid := c.QueryInt("academic_year_id", 0); yid > 0 {
		q = q.Where("academic_year_id = ?", yid)
	}
	if sid := c.QueryInt("standard_id", 0); sid > 0 {
		q = q.Where("standard_id = ?", sid)
	}

	var schedules []models.FeeSchedule
	q.Order("fee_category_id").Find(&schedules)
	return c.JSON(fiber.Map{"fee_schedules": schedules, "message": "success"})
}

type FeeDiscountCreateDTO struct {
	Code         string  `json:"code" validate:"required,min=1,max=20"`
	Name         string  `json:"name" validate:"required,min=1,max=100"`
	DiscountType string  `json:"discount_type" validate:"required,oneof=percentage fixed"`
	Value        float64 `json:"value" validate:"gte=0"`
	CategoryIDs  []uint  `json:"category_ids" validate:"omitempty"`
	Description  string  `json:"description" validate:"omitempty"`
}

// POST /api/fees/discount
func CreateFeeDiscount(c *fiber.Ctx) error {
	var in FeeDiscountCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	discount := models.FeeDiscount{
		Code:         in.Code,
		Name:         in.Name,
		DiscountType: models.DiscountType(in.DiscountType),
		Value:        in.Value,
		Description:  in.Description,
		IsActive:     true,
	}
	if err := services.ValidateDiscount(&discount); err != nil {
		return err
	}

	db := database.GetRequestDB(c)

	if len(in.CategoryIDs) > 0 {
		var categories []models.FeeCategory
		if err := db.Find(&categories, in.CategoryIDs).Error; err != nil || len(categories) != len(in.CategoryIDs) {
			return fiber.NewError(fiber.StatusBadRequest, "unknown fee category in category_ids")
		}
		discount.Categories = categories
	}

	if err := db.Create(&discount).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create discount (duplicate code?)")
	}
	return c.JSON(discount)
}

// GET /api/fees/discounts
func GetFeeDiscounts(c *fiber.Ctx) error {
	var discounts []models.FeeDiscount
	database.DB.Preload("Categories").Order("name").Find(&discounts)
	return c.JSON(fiber.Map{"fee_discounts": discounts, "message": "success"})
}
