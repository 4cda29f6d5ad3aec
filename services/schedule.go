package services

import (
	"time"

	"gorm.io/gorm"

	"schoolms-backend/models"
)

// ScheduledCharge is one period of one schedule: the unit an obligation is
// generated from.
type ScheduledCharge struct {
	Schedule models.FeeSchedule
	PeriodNo int
	DueDate  time.Time
}

// ExpandSchedule lists the periods a schedule produces within its academic
// year: 1 for one_time/yearly, 2 half-yearly, 4 quarterly, 12 monthly. Due
// dates walk the year from its start month on the schedule's due day.
func ExpandSchedule(sched models.FeeSchedule, year models.AcademicYear) []ScheduledCharge {
	n := sched.Frequency.Periods()
	step := sched.Frequency.MonthStep()

	charges := make([]ScheduledCharge, 0, n)
	for i := 0; i < n; i++ {
		anchor := year.StartDate.AddDate(0, i*step, 0)
		charges = append(charges, ScheduledCharge{
			Schedule: sched,
			PeriodNo: i + 1,
			DueDate:  dueOn(anchor, sched.DueDay),
		})
	}
	return charges
}

// dueOn places the due day within anchor's month, clamped to the month's
// length so due_day=31 works in February.
func dueOn(anchor time.Time, day int) time.Time {
	if day < 1 {
		day = 1
	}
	firstOfMonth := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfMonth.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(anchor.Year(), anchor.Month(), day, 0, 0, 0, 0, time.UTC)
}

// Resolver looks up which fee schedules apply to a student.
type Resolver struct {
	db *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// ResolveForStudent returns every charge applicable to the student's standard
// for the academic year, ordered by category then period. An empty result is
// a valid configuration state (no fee structure yet), not an error.
func (r *Resolver) ResolveForStudent(db *gorm.DB, student *models.Student, year *models.AcademicYear) ([]ScheduledCharge, error) {
	if db == nil {
		db = r.db
	}

	var schedules []models.FeeSchedule
	err := db.Preload("FeeCategory").
		Where("academic_year_id = ? AND standard_id = ? AND is_active = ?", year.ID, student.StandardID, true).
		Order("fee_category_id").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}

	var charges []ScheduledCharge
	for _, sched := range schedules {
		charges = append(charges, ExpandSchedule(sched, *year)...)
	}
	return charges, nil
}
