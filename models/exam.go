package models

import "time"

type Exam struct {
	ID             uint         `json:"id" gorm:"primaryKey"`
	Name           string       `json:"name" gorm:"size:100;not null"`
	AcademicYearID uint         `json:"academic_year_id" gorm:"not null;index"`
	AcademicYear   AcademicYear `json:"-" gorm:"foreignKey:AcademicYearID"`
	StartDate      time.Time    `json:"start_date" gorm:"type:date"`
	EndDate        time.Time    `json:"end_date" gorm:"type:date"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// ExamResult holds one student's marks in one subject of an exam. Totals,
// percentage, pass flag and grade are derived from the marks on every write.
type ExamResult struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	ExamID    uint    `json:"exam_id" gorm:"not null;index:idx_exam_results_exam_student_subject,unique,priority:1"`
	Exam      Exam    `json:"-" gorm:"foreignKey:ExamID"`
	StudentID uint    `json:"student_id" gorm:"not null;index:idx_exam_results_exam_student_subject,unique,priority:2"`
	Student   Student `json:"-" gorm:"foreignKey:StudentID"`
	Subject   string  `json:"subject" gorm:"size:50;not null;index:idx_exam_results_exam_student_subject,unique,priority:3"`

	MaxMarks       float64 `json:"max_marks" gorm:"not null"`
	PassingMarks   float64 `json:"passing_marks" gorm:"not null"`
	TheoryMarks    float64 `json:"theory_marks" gorm:"default:0"`
	PracticalMarks float64 `json:"practical_marks" gorm:"default:0"`

	TotalMarks float64 `json:"total_marks"`
	Percentage float64 `json:"percentage"`
	Grade      string  `json:"grade" gorm:"size:5"`
	IsPassed   bool    `json:"is_passed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ComputeTotals refreshes the derived fields from the entered marks.
func (r *ExamResult) ComputeTotals() {
	r.TotalMarks = r.TheoryMarks + r.PracticalMarks
	if r.MaxMarks > 0 {
		r.Percentage = r.TotalMarks / r.MaxMarks * 100
	}
	r.IsPassed = r.TotalMarks >= r.PassingMarks
	r.Grade = GradeFor(r.Percentage)
}

// GradeFor maps a percentage to the CBSE grade bands.
func GradeFor(percentage float64) string {
	switch {
	case percentage >= 91:
		return "A1"
	case percentage >= 81:
		return "A2"
	case percentage >= 71:
		return "B1"
	case percentage >= 61:
		return "B2"
	case percentage >= 51:
		return "C1"
	case percentage >= 41:
		return "C2"
	case percentage >= 33:
		return "D"
	default:
		return "E"
	}
}
