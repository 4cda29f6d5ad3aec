package controllers

import (
	"time"

	"schoolms-backend/database"
	"schoolms-backend/middlewares"
	"schoolms-backend/models"

	"github.com/gofiber/fiber/v2"
)

type ExamCreateDTO struct {
	Name           string `json:"name" validate:"required,min=1,max=100"`
	AcademicYearID uint   `json:"academic_year_id" validate:"required"`
	StartDate      string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate        string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// POST /api/exam
func CreateExam(c *fiber.Ctx) error {
	var in ExamCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	exam := models.Exam{
		Name:           in.Name,
		AcademicYearID: in.AcademicYearID,
	}
	if in.StartDate != "" {
		exam.StartDate, _ = time.Parse("2006-01-02", in.StartDate)
	}
	if in.EndDate != "" {
		exam.EndDate, _ = time.Parse("2006-01-02", in.EndDate)
	}

	if err := database.GetRequestDB(c).Create(&exam).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create exam")
	}
	return c.JSON(exam)
}

type ExamResultDTO struct {
	ExamID         uint    `json:"exam_id" validate:"required"`
	StudentID      uint    `json:"student_id" validate:"required"`
	Subject        string  `json:"subject" validate:"required,min=1,max=50"`
	MaxMarks       float64 `json:"max_marks" validate:"required,gt=0"`
	PassingMarks   float64 `json:"passing_marks" validate:"gte=0"`
	TheoryMarks    float64 `json:"theory_marks" validate:"gte=0"`
	PracticalMarks float64 `json:"practical_marks" validate:"gte=0"`
}

// POST /api/exam/result
// Totals, percentage and grade are derived from the marks, never sent in.
func EnterExamResult(c *fiber.Ctx) error {
	var in ExamResultDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	if in.TheoryMarks+in.PracticalMarks > in.MaxMarks {
		return fiber.NewError(fiber.StatusBadRequest, "marks exceed max_marks")
	}

	result := models.ExamResult{
		ExamID:         in.ExamID,
		StudentID:      in.StudentID,
		Subject:        in.Subject,
		MaxMarks:       in.MaxMarks,
		PassingMarks:   in.PassingMarks,
		TheoryMarks:    in.TheoryMarks,
		PracticalMarks: in.PracticalMarks,
	}
	result.ComputeTotals()

	if err := database.GetRequestDB(c).Create(&result).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not save result (duplicate exam/student/subject?)")
	}
	return c.JSON(result)
}

// GET /api/exam/:id/results?student_id=
func GetExamResults(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	q := database.DB.Model(&models.ExamResult{}).Where("exam_id = ?", id)
	if sid := c.QueryInt("student_id", 0); sid > 0 {
		q = q.Where("student_id = ?", sid)
	}

	var results []models.ExamResult
	q.Order("student_id, subject").Find(&results)
	return c.JSON(fiber.Map{"results": results, "message": "success"})
}
