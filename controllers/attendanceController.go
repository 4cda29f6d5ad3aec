package controllers

import (
	"schoolms-backend/database"
	"schoolms-backend/middlewares"
	"schoolms-backend/models"

	"github.com/gofiber/fiber/v2"
)

type MonthlyAttendanceDTO struct {
	StudentID        uint `json:"student_id" validate:"required"`
	Year             int  `json:"year" validate:"required,gte=2000"`
	Month            int  `json:"month" validate:"required,gte=1,lte=12"`
	TotalWorkingDays int  `json:"total_working_days" validate:"gte=0,lte=31"`
	PresentDays      int  `json:"present_days" validate:"gte=0,lte=31"`
	AbsentDays       int  `json:"absent_days" validate:"gte=0,lte=31"`
	LeaveDays        int  `json:"leave_days" validate:"gte=0,lte=31"`
}

// POST /api/attendance/monthly
func UpsertMonthlyAttendance(c *fiber.Ctx) error {
	var in MonthlyAttendanceDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	if in.PresentDays+in.AbsentDays+in.LeaveDays > in.TotalWorkingDays {
		return fiber.NewError(fiber.StatusBadRequest, "day counts exceed total working days")
	}

	db := database.GetRequestDB(c)

	record := models.MonthlyAttendance{
		StudentID:        in.StudentID,
		Year:             in.Year,
		Month:            in.Month,
		TotalWorkingDays: in.TotalWorkingDays,
		PresentDays:      in.PresentDays,
		AbsentDays:       in.AbsentDays,
		LeaveDays:        in.LeaveDays,
	}

	var existing models.MonthlyAttendance
	err := db.Where("student_id = ? AND year = ? AND month = ?", in.StudentID, in.Year, in.Month).
		First(&existing).Error
	if err == nil {
		record.ID = existing.ID
		if err := db.Model(&existing).
			Select("total_working_days", "present_days", "absent_days", "leave_days").
			Updates(&record).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not update attendance")
		}
		record = existing
	} else if err := db.Create(&record).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not save attendance")
	}

	return c.JSON(fiber.Map{
		"attendance": record,
		"percentage": record.AttendancePercentage(),
	})
}

// GET /api/student/:id/attendance?year=
func GetStudentAttendance(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	q := database.DB.Model(&models.MonthlyAttendance{}).Where("student_id = ?", id)
	if year := c.QueryInt("year", 0); year > 0 {
		q = q.Where("year = ?", year)
	}

	var records []models.MonthlyAttendance
	q.Order("year, month").Find(&records)

	type row struct {
		models.MonthlyAttendance
		Percentage float64 `json:"percentage"`
	}
	out := make([]row, 0, len(records))
	for _, r := range records {
		out = append(out, row{MonthlyAttendance: r, Percentage: r.AttendancePercentage()})
	}
	return c.JSON(fiber.Map{"attendance": out, "message": "success"})
}
