package services

import (
	"math"

	"schoolms-backend/models"
	"schoolms-backend/utils"
)

// ValidateDiscount checks a discount definition before it is saved or applied.
func ValidateDiscount(d *models.FeeDiscount) error {
	switch d.DiscountType {
	case models.DiscountPercentage:
		if d.Value < 0 || d.Value > 100 {
			return ErrInvalidDiscount
		}
	case models.DiscountFixed:
		if d.Value < 0 {
			return ErrInvalidDiscount
		}
	default:
		return ErrInvalidDiscount
	}
	return nil
}

// ComputeDiscount resolves the absolute discount amount for a base amount in
// the given category. A nil discount, or one whose category set excludes the
// category, yields 0. The result is never negative and never exceeds the base.
func ComputeDiscount(d *models.FeeDiscount, baseAmount float64, categoryID uint) (float64, error) {
	if d == nil {
		return 0, nil
	}
	if err := ValidateDiscount(d); err != nil {
		return 0, err
	}
	if !d.AppliesTo(categoryID) {
		return 0, nil
	}

	switch d.DiscountType {
	case models.DiscountPercentage:
		amount := utils.Round2(baseAmount * d.Value / 100)
		return math.Min(amount, baseAmount), nil
	default: // fixed, already validated
		return math.Min(d.Value, baseAmount), nil
	}
}
