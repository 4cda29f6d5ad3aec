package models

import "time"

// Asset is a fixed asset tracked for straight-line depreciation.
type Asset struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Code            string    `json:"code" gorm:"size:20;uniqueIndex;not null"`
	Name            string    `json:"name" gorm:"size:100;not null"`
	Location        string    `json:"location" gorm:"size:100"`
	PurchaseDate    time.Time `json:"purchase_date" gorm:"type:date;not null"`
	PurchasePrice   float64   `json:"purchase_price" gorm:"type:numeric(12,2);not null"`
	SalvageValue    float64   `json:"salvage_value" gorm:"type:numeric(12,2);default:0"`
	UsefulLifeYears int       `json:"useful_life_years" gorm:"default:5"`
	IsActive        bool      `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CurrentValue is the straight-line depreciated value as of the given date,
// floored at the salvage value.
func (a *Asset) CurrentValue(asOf time.Time) float64 {
	if a.UsefulLifeYears <= 0 {
		return a.PurchasePrice
	}
	years := asOf.Sub(a.PurchaseDate).Hours() / 24 / 365
	if years < 0 {
		years = 0
	}
	if years > float64(a.UsefulLifeYears) {
		years = float64(a.UsefulLifeYears)
	}
	annual := (a.PurchasePrice - a.SalvageValue) / float64(a.UsefulLifeYears)
	value := a.PurchasePrice - annual*years
	if value < a.SalvageValue {
		return a.SalvageValue
	}
	return value
}
