package controllers

import (
	"time"

	"schoolms-backend/database"
	"schoolms-backend/middlewares"
	"schoolms-backend/models"
	"schoolms-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type AssetCreateDTO struct {
	Code            string  `json:"code" validate:"required,min=1,max=20"`
	Name            string  `json:"name" validate:"required,min=1,max=100"`
	Location        string  `json:"location" validate:"omitempty,max=100"`
	PurchaseDate    string  `json:"purchase_date" validate:"required,datetime=2006-01-02"`
	PurchasePrice   float64 `json:"purchase_price" validate:"required,gte=0"`
	SalvageValue    float64 `json:"salvage_value" validate:"gte=0"`
	UsefulLifeYears int     `json:"useful_life_years" validate:"omitempty,gt=0"`
}

// POST /api/asset
func CreateAsset(c *fiber.Ctx) error {
	var in AssetCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)
	if in.SalvageValue > in.PurchasePrice {
		return fiber.NewError(fiber.StatusBadRequest, "salvage_value exceeds purchase_price")
	}

	purchaseDate, _ := time.Parse("2006-01-02", in.PurchaseDate)
	asset := models.Asset{
		Code:            in.Code,
		Name:            in.Name,
		Location:        in.Location,
		PurchaseDate:    purchaseDate,
		PurchasePrice:   in.PurchasePrice,
		SalvageValue:    in.SalvageValue,
		UsefulLifeYears: in.UsefulLifeYears,
		IsActive:        true,
	}
	if asset.UsefulLifeYears == 0 {
		asset.UsefulLifeYears = 5
	}

	if err := database.GetRequestDB(c).Create(&asset).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create asset (duplicate code?)")
	}
	return c.JSON(asset)
}

// GET /api/assets
// Includes the straight-line depreciated value as of today.
func GetAssets(c *fiber.Ctx) error {
	var assets []models.Asset
	database.DB.Order("code").Find(&assets)

	type row struct {
		models.Asset
		CurrentValue float64 `json:"current_value"`
	}
	now := time.Now()
	out := make([]row, 0, len(assets))
	for _, a := range assets {
		out = append(out, row{Asset: a, CurrentValue: utils.Round2(a.CurrentValue(now))})
	}
	return c.JSON(fiber.Map{"assets": out, "message": "success"})
}
