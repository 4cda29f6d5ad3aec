package services

import (
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolms-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.AcademicYear{},
		&models.Standard{},
		&models.Student{},
		&models.FeeCategory{},
		&models.FeeSchedule{},
		&models.FeeDiscount{},
		&models.StudentFee{},
		&models.FeePayment{},
		&models.PaymentAllocation{},
	))
	return db
}

type ledgerFixture struct {
	db       *gorm.DB
	student  models.Student
	schedule models.FeeSchedule
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	db := newTestDB(t)

	year := models.AcademicYear{
		Name:      "2026-27",
		StartDate: date(2026, time.April, 1),
		EndDate:   date(2027, time.March, 31),
		IsCurrent: true,
	}
	require.NoError(t, db.Create(&year).Error)

	standard := models.Standard{Name: "10", Section: "A", Capacity: 40, IsActive: true}
	require.NoError(t, db.Create(&standard).Error)

	category := models.FeeCategory{Code: "TUITION", Name: "Tuition Fee", FeeType: "academic", IsMandatory: true, IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	schedule := models.FeeSchedule{
		AcademicYearID: year.ID,
		StandardID:     standard.ID,
		FeeCategoryID:  category.ID,
		Amount:         1000,
		Frequency:      models.FrequencyQuarterly,
		DueDay:         10,
		LateFeePerDay:  5,
		MaxLateFee:     100,
		IsActive:       true,
	}
	require.NoError(t, db.Create(&schedule).Error)

	student := models.Student{
		AdmissionNumber: "ADM-001",
		FirstName:       "Ravi",
		LastName:        "Kumar",
		StandardID:      standard.ID,
		AdmissionDate:   date(2026, time.April, 1),
		IsActive:        true,
	}
	require.NoError(t, db.Create(&student).Error)

	return &ledgerFixture{db: db, student: student, schedule: schedule}
}

func (fx *ledgerFixture) seedObligation(t *testing.T, periodNo int, net float64, due time.Time) *models.StudentFee {
	t.Helper()
	f := &models.StudentFee{
		StudentID:      fx.student.ID,
		FeeScheduleID:  fx.schedule.ID,
		PeriodNo:       periodNo,
		OriginalAmount: net,
		NetAmount:      net,
		DueDate:        due,
		Status:         models.StatusPending,
	}
	require.NoError(t, fx.db.Create(f).Error)
	return f
}

// recordingNotifier captures dispatched events for assertions.
type recordingNotifier struct {
	mu       sync.Mutex
	receipts []string
	statuses []models.FeeStatus
}

func (n *recordingNotifier) PaymentRecorded(studentID uint, receiptNumber string, amount float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.receipts = append(n.receipts, receiptNumber)
}

func (n *recordingNotifier) StatusChanged(studentID, obligationID uint, status models.FeeStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, status)
}

func (n *recordingNotifier) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.receipts), len(n.statuses)
}
