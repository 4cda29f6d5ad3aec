package models

import (
	"math"
	"time"
)

// MonthlyAttendance is the per-student attendance rollup for one month.
type MonthlyAttendance struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	StudentID uint    `json:"student_id" gorm:"not null;index:idx_monthly_attendance_student_month,unique,priority:1"`
	Student   Student `json:"-" gorm:"foreignKey:StudentID"`

	Year  int `json:"year" gorm:"not null;index:idx_monthly_attendance_student_month,unique,priority:2"`
	Month int `json:"month" gorm:"not null;index:idx_monthly_attendance_student_month,unique,priority:3"`

	TotalWorkingDays int `json:"total_working_days" gorm:"default:0"`
	PresentDays      int `json:"present_days" gorm:"default:0"`
	AbsentDays       int `json:"absent_days" gorm:"default:0"`
	LeaveDays        int `json:"leave_days" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AttendancePercentage returns present/working as a percentage rounded to 2dp.
// Zero working days yields 0, not an error.
func (a *MonthlyAttendance) AttendancePercentage() float64 {
	if a.TotalWorkingDays == 0 {
		return 0
	}
	pct := float64(a.PresentDays) / float64(a.TotalWorkingDays) * 100
	return math.Round(pct*100) / 100
}
