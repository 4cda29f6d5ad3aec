package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolms-backend/models"
)

func TestComputeDiscount(t *testing.T) {
	tuition := models.FeeCategory{ID: 1, Code: "TUITION"}
	transport := models.FeeCategory{ID: 2, Code: "TRANSPORT"}

	tests := []struct {
		name       string
		discount   *models.FeeDiscount
		base       float64
		categoryID uint
		want       float64
	}{
		{
			name:       "nil discount",
			discount:   nil,
			base:       1000,
			categoryID: 1,
			want:       0,
		},
		{
			name:       "percentage",
			discount:   &models.FeeDiscount{DiscountType: models.DiscountPercentage, Value: 10},
			base:       1000,
			categoryID: 1,
			want:       100,
		},
		{
			name:       "percentage rounds to 2dp",
			discount:   &models.FeeDiscount{DiscountType: models.DiscountPercentage, Value: 12.5},
			base:       333.33,
			categoryID: 1,
			want:       41.67,
		},
		{
			name:       "fixed clamped to base",
			discount:   &models.FeeDiscount{DiscountType: models.DiscountFixed, Value: 100},
			base:       50,
			categoryID: 1,
			want:       50,
		},
		{
			name:       "fixed below base",
			discount:   &models.FeeDiscount{DiscountType: models.DiscountFixed, Value: 100},
			base:       250,
			categoryID: 1,
			want:       100,
		},
		{
			name: "category excluded",
			discount: &models.FeeDiscount{
				DiscountType: models.DiscountPercentage,
				Value:        50,
				Categories:   []models.FeeCategory{tuition},
			},
			base:       1000,
			categoryID: transport.ID,
			want:       0,
		},
		{
			name: "category included",
			discount: &models.FeeDiscount{
				DiscountType: models.DiscountPercentage,
				Value:        50,
				Categories:   []models.FeeCategory{tuition, transport},
			},
			base:       1000,
			categoryID: transport.ID,
			want:       500,
		},
		{
			name:       "full percentage",
			discount:   &models.FeeDiscount{DiscountType: models.DiscountPercentage, Value: 100},
			base:       840,
			categoryID: 1,
			want:       840,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeDiscount(tt.discount, tt.base, tt.categoryID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeDiscountInvalid(t *testing.T) {
	tests := []struct {
		name     string
		discount models.FeeDiscount
	}{
		{"percentage above 100", models.FeeDiscount{DiscountType: models.DiscountPercentage, Value: 110}},
		{"negative percentage", models.FeeDiscount{DiscountType: models.DiscountPercentage, Value: -5}},
		{"negative fixed", models.FeeDiscount{DiscountType: models.DiscountFixed, Value: -1}},
		{"unknown type", models.FeeDiscount{DiscountType: "bogus", Value: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeDiscount(&tt.discount, 1000, 1)
			assert.ErrorIs(t, err, ErrInvalidDiscount)
		})
	}
}
