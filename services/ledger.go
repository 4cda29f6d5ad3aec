package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"schoolms-backend/models"
	"schoolms-backend/utils"
)

// DeriveStatus is the single source of truth for obligation status. Precedence:
// WAIVED > PAID > PARTIAL > OVERDUE > PENDING. A partially paid obligation past
// its due date reports PARTIAL, not OVERDUE: payment progress wins in display
// status and downstream reports key off that.
func DeriveStatus(paid, net, lateFee float64, dueDate time.Time, waived bool, today time.Time) models.FeeStatus {
	switch {
	case waived:
		return models.StatusWaived
	case paid >= net+lateFee:
		return models.StatusPaid
	case paid > 0:
		return models.StatusPartial
	case dueDate.Before(dateOnly(today)):
		return models.StatusOverdue
	default:
		return models.StatusPending
	}
}

// RefreshStatus recomputes the cached status column from the amounts. Every
// mutation of paid_amount, late_fee or waived must go through this.
func RefreshStatus(f *models.StudentFee, today time.Time) {
	f.Status = DeriveStatus(f.PaidAmount, f.NetAmount, f.LateFee, f.DueDate, f.Waived, today)
}

// NewObligation builds an unsaved ledger entry from a schedule. The schedule
// amount is copied so later schedule edits cannot touch it.
func NewObligation(studentID uint, sched *models.FeeSchedule, periodNo int, dueDate time.Time, discount *models.FeeDiscount, today time.Time) (*models.StudentFee, error) {
	discountAmount, err := ComputeDiscount(discount, sched.Amount, sched.FeeCategoryID)
	if err != nil {
		return nil, err
	}

	f := &models.StudentFee{
		StudentID:      studentID,
		FeeScheduleID:  sched.ID,
		PeriodNo:       periodNo,
		OriginalAmount: sched.Amount,
		DiscountAmount: discountAmount,
		NetAmount:      utils.Round2(sched.Amount - discountAmount),
		DueDate:        dateOnly(dueDate),
	}
	if discount != nil {
		f.DiscountID = &discount.ID
	}
	RefreshStatus(f, today)
	return f, nil
}

// LateFeeAsOf returns the absolute late fee a schedule has accrued by asOf.
// It is a pure function of the dates, so re-running it on the same day cannot
// double-accrue.
func LateFeeAsOf(sched *models.FeeSchedule, dueDate, asOf time.Time) float64 {
	if sched.LateFeePerDay <= 0 {
		return 0
	}
	days := daysBetween(dateOnly(dueDate), dateOnly(asOf))
	if days <= 0 {
		return 0
	}
	fee := utils.Round2(float64(days) * sched.LateFeePerDay)
	if sched.MaxLateFee > 0 && fee > sched.MaxLateFee {
		fee = sched.MaxLateFee
	}
	return fee
}

// Ledger owns obligation writes. Persistence is injected so the derivations
// above stay testable without a database.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// CreateObligation inserts the entry, enforcing the (student, schedule,
// period) uniqueness invariant. Returns ErrObligationExists on conflict.
// The existence check keeps generation re-runs from aborting their
// transaction; the unique index still backstops concurrent writers, so a
// duplicate-key error maps to the same sentinel.
func (l *Ledger) CreateObligation(db *gorm.DB, f *models.StudentFee) error {
	if db == nil {
		db = l.db
	}

	var existing models.StudentFee
	err := db.Where("student_id = ? AND fee_schedule_id = ? AND period_no = ?",
		f.StudentID, f.FeeScheduleID, f.PeriodNo).First(&existing).Error
	if err == nil {
		return ErrObligationExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := db.Create(f).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrObligationExists
		}
		return err
	}
	return nil
}

// AccrueLateFee sets the obligation's late fee to the absolute value computed
// for asOf and re-derives the status. late_fee never decreases; settled and
// waived obligations are left alone. The schedule must be preloaded.
func (l *Ledger) AccrueLateFee(db *gorm.DB, f *models.StudentFee, asOf time.Time) error {
	if db == nil {
		db = l.db
	}
	if f.Status == models.StatusPaid || f.Status == models.StatusWaived {
		return nil
	}

	fee := LateFeeAsOf(&f.FeeSchedule, f.DueDate, asOf)
	if fee > f.LateFee {
		f.LateFee = fee
	}
	RefreshStatus(f, asOf)

	return db.Model(f).Select("late_fee", "status").Updates(f).Error
}

// Waive marks an obligation administratively settled without full payment.
func (l *Ledger) Waive(db *gorm.DB, f *models.StudentFee, remarks string, today time.Time) error {
	if db == nil {
		db = l.db
	}
	f.Waived = true
	if remarks != "" {
		f.Remarks = remarks
	}
	RefreshStatus(f, today)
	return db.Model(f).Select("waived", "remarks", "status").Updates(f).Error
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
