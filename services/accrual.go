package services

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"schoolms-backend/models"
)

// AccrualRunner drives the daily late-fee pass. Accrual sets late_fee to the
// absolute value for the day, so re-runs on the same date are harmless.
type AccrualRunner struct {
	cron     *cron.Cron
	db       *gorm.DB
	ledger   *Ledger
	notifier Notifier
}

func NewAccrualRunner(db *gorm.DB, notifier Notifier) *AccrualRunner {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &AccrualRunner{
		cron:     cron.New(),
		db:       db,
		ledger:   NewLedger(db),
		notifier: notifier,
	}
}

// Start registers the daily job (00:30) and launches the scheduler.
func (r *AccrualRunner) Start() error {
	_, err := r.cron.AddFunc("30 0 * * *", func() {
		if err := r.RunOnce(time.Now()); err != nil {
			log.Printf("[cron] late fee accrual failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	r.cron.Start()
	log.Println("late fee accrual job scheduled")
	return nil
}

func (r *AccrualRunner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// RunOnce accrues late fees for every unsettled obligation past its due date
// and notifies the ones that just turned overdue.
func (r *AccrualRunner) RunOnce(asOf time.Time) error {
	var fees []models.StudentFee
	err := r.db.Preload("FeeSchedule").
		Where("status NOT IN ? AND due_date < ?",
			[]models.FeeStatus{models.StatusPaid, models.StatusWaived}, asOf).
		Find(&fees).Error
	if err != nil {
		return err
	}

	accrued := 0
	for i := range fees {
		f := &fees[i]
		before := f.Status
		if err := r.ledger.AccrueLateFee(nil, f, asOf); err != nil {
			log.Printf("[cron] accrual skipped obligation %d: %v", f.ID, err)
			continue
		}
		accrued++
		if before != models.StatusOverdue && f.Status == models.StatusOverdue {
			r.notifier.StatusChanged(f.StudentID, f.ID, f.Status)
		}
	}

	log.Printf("[cron] late fee accrual done: %d obligations checked", accrued)
	return nil
}
