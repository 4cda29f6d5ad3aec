package models

import "time"

// AcademicYear runs April to March (e.g. "2025-26"). Exactly one row may be
// current at a time; the write path enforces it, readers never filter.
type AcademicYear struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"size:20;uniqueIndex;not null"`
	StartDate       time.Time `json:"start_date" gorm:"type:date;not null"`
	EndDate         time.Time `json:"end_date" gorm:"type:date;not null"`
	IsCurrent       bool      `json:"is_current" gorm:"default:false;index"`
	IsAdmissionOpen bool      `json:"is_admission_open" gorm:"default:false"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Standard is a class/section pair students are enrolled into (e.g. 10-A).
type Standard struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"size:20;not null;index:idx_standards_name_section,unique,priority:1"`
	Section  string `json:"section" gorm:"size:5;not null;index:idx_standards_name_section,unique,priority:2"`
	Capacity int    `json:"capacity" gorm:"default:40"`
	IsActive bool   `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
