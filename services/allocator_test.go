package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolms-backend/models"
	"schoolms-backend/utils"
)

func obligation(id uint, net, paid float64, due time.Time) *models.StudentFee {
	return &models.StudentFee{
		ID:             id,
		StudentID:      1,
		OriginalAmount: net,
		NetAmount:      net,
		PaidAmount:     paid,
		DueDate:        due,
		Status:         models.StatusPending,
	}
}

func TestPlanAllocations(t *testing.T) {
	due := date(2026, time.April, 10)

	t.Run("settles multiple obligations in order", func(t *testing.T) {
		fees := []*models.StudentFee{
			obligation(1, 700, 0, due),
			obligation(2, 500, 0, due),
		}
		allocations, err := PlanAllocations(1200, fees)
		require.NoError(t, err)
		require.Len(t, allocations, 2)
		assert.Equal(t, uint(1), allocations[0].StudentFeeID)
		assert.Equal(t, 700.0, allocations[0].Amount)
		assert.Equal(t, uint(2), allocations[1].StudentFeeID)
		assert.Equal(t, 500.0, allocations[1].Amount)
	})

	t.Run("allocation sum always equals the payment", func(t *testing.T) {
		fees := []*models.StudentFee{
			obligation(1, 333.33, 0, due),
			obligation(2, 250.5, 100, due),
			obligation(3, 1000, 0, due),
		}
		for _, amount := range []float64{50, 333.33, 400.75, 483.83, 1483.83} {
			allocations, err := PlanAllocations(amount, fees)
			require.NoError(t, err)
			var sum float64
			for _, a := range allocations {
				sum = utils.Round2(sum + a.Amount)
			}
			assert.Equal(t, amount, sum)
		}
	})

	t.Run("partial amount stops mid list", func(t *testing.T) {
		fees := []*models.StudentFee{
			obligation(1, 700, 0, due),
			obligation(2, 500, 0, due),
		}
		allocations, err := PlanAllocations(800, fees)
		require.NoError(t, err)
		require.Len(t, allocations, 2)
		assert.Equal(t, 700.0, allocations[0].Amount)
		assert.Equal(t, 100.0, allocations[1].Amount)
	})

	t.Run("skips settled obligations", func(t *testing.T) {
		fees := []*models.StudentFee{
			obligation(1, 700, 700, due),
			obligation(2, 500, 0, due),
		}
		allocations, err := PlanAllocations(500, fees)
		require.NoError(t, err)
		require.Len(t, allocations, 1)
		assert.Equal(t, uint(2), allocations[0].StudentFeeID)
	})

	t.Run("late fee counts toward the balance", func(t *testing.T) {
		fee := obligation(1, 1000, 0, due)
		fee.LateFee = 50
		allocations, err := PlanAllocations(1050, []*models.StudentFee{fee})
		require.NoError(t, err)
		require.Len(t, allocations, 1)
		assert.Equal(t, 1050.0, allocations[0].Amount)
	})

	t.Run("overpayment rejected", func(t *testing.T) {
		fees := []*models.StudentFee{
			obligation(1, 700, 0, due),
			obligation(2, 300, 0, due),
		}
		_, err := PlanAllocations(1200, fees)
		assert.ErrorIs(t, err, ErrOverpayment)
	})

	t.Run("overpayment by a paisa rejected", func(t *testing.T) {
		fees := []*models.StudentFee{obligation(1, 100, 0, due)}
		_, err := PlanAllocations(100.01, fees)
		assert.ErrorIs(t, err, ErrOverpayment)
	})

	t.Run("no balance ever driven negative", func(t *testing.T) {
		fees := []*models.StudentFee{
			obligation(1, 120.45, 20, due),
			obligation(2, 99.99, 0, due),
		}
		allocations, err := PlanAllocations(150, fees)
		require.NoError(t, err)
		for _, a := range allocations {
			for _, f := range fees {
				if f.ID == a.StudentFeeID {
					assert.GreaterOrEqual(t, utils.Round2(f.Balance()-a.Amount), 0.0)
				}
			}
		}
	})
}

func TestRecordPayment(t *testing.T) {
	due := date(2026, time.April, 10)
	receiptDate := date(2026, time.April, 5)

	t.Run("persists receipt, allocations and updated obligations", func(t *testing.T) {
		fx := newLedgerFixture(t)
		f1 := fx.seedObligation(t, 1, 700, due)
		f2 := fx.seedObligation(t, 2, 500, due)

		spy := &recordingNotifier{}
		alloc := NewAllocator(fx.db, spy)

		res, err := alloc.RecordPayment(PaymentInput{
			StudentID:     fx.student.ID,
			Amount:        1200,
			Mode:          models.ModeCash,
			ReceiptNumber: "RCP-001",
			ReceiptDate:   receiptDate,
			ObligationIDs: []uint{f1.ID, f2.ID},
		})
		require.NoError(t, err)

		var stored models.FeePayment
		require.NoError(t, fx.db.Preload("Allocations").
			Where("receipt_number = ?", "RCP-001").First(&stored).Error)
		assert.Equal(t, 1200.0, stored.Amount)
		assert.NotEmpty(t, stored.Snapshot)

		var sum float64
		for _, a := range stored.Allocations {
			sum = utils.Round2(sum + a.Amount)
		}
		assert.Equal(t, stored.Amount, sum)

		var got models.StudentFee
		require.NoError(t, fx.db.First(&got, f1.ID).Error)
		assert.Equal(t, 700.0, got.PaidAmount)
		assert.Equal(t, models.StatusPaid, got.Status)
		got = models.StudentFee{}
		require.NoError(t, fx.db.First(&got, f2.ID).Error)
		assert.Equal(t, 500.0, got.PaidAmount)
		assert.Equal(t, models.StatusPaid, got.Status)

		// Nothing is dispatched until the caller reports the commit.
		receipts, statuses := spy.counts()
		assert.Zero(t, receipts)
		assert.Zero(t, statuses)

		alloc.NotifyRecorded(res)
		receipts, statuses = spy.counts()
		assert.Equal(t, 1, receipts)
		assert.Equal(t, 2, statuses)
	})

	t.Run("duplicate receipt leaves the ledger untouched", func(t *testing.T) {
		fx := newLedgerFixture(t)
		f1 := fx.seedObligation(t, 1, 700, due)
		f2 := fx.seedObligation(t, 2, 500, due)
		alloc := NewAllocator(fx.db, nil)

		_, err := alloc.RecordPayment(PaymentInput{
			StudentID: fx.student.ID, Amount: 700, Mode: models.ModeCash,
			ReceiptNumber: "RCP-002", ReceiptDate: receiptDate,
			ObligationIDs: []uint{f1.ID},
		})
		require.NoError(t, err)

		_, err = alloc.RecordPayment(PaymentInput{
			StudentID: fx.student.ID, Amount: 500, Mode: models.ModeCash,
			ReceiptNumber: "RCP-002", ReceiptDate: receiptDate,
			ObligationIDs: []uint{f2.ID},
		})
		assert.ErrorIs(t, err, ErrDuplicateReceipt)

		var payments int64
		fx.db.Model(&models.FeePayment{}).Count(&payments)
		assert.Equal(t, int64(1), payments)

		var got models.StudentFee
		require.NoError(t, fx.db.First(&got, f2.ID).Error)
		assert.Zero(t, got.PaidAmount)
		assert.Equal(t, models.StatusPending, got.Status)
	})

	t.Run("overpayment persists nothing", func(t *testing.T) {
		fx := newLedgerFixture(t)
		f1 := fx.seedObligation(t, 1, 700, due)
		alloc := NewAllocator(fx.db, nil)

		_, err := alloc.RecordPayment(PaymentInput{
			StudentID: fx.student.ID, Amount: 900, Mode: models.ModeCash,
			ReceiptNumber: "RCP-003", ReceiptDate: receiptDate,
			ObligationIDs: []uint{f1.ID},
		})
		assert.ErrorIs(t, err, ErrOverpayment)

		var payments int64
		fx.db.Model(&models.FeePayment{}).Count(&payments)
		assert.Zero(t, payments)

		var got models.StudentFee
		require.NoError(t, fx.db.First(&got, f1.ID).Error)
		assert.Zero(t, got.PaidAmount)
	})

	t.Run("another student's obligation is rejected", func(t *testing.T) {
		fx := newLedgerFixture(t)
		f1 := fx.seedObligation(t, 1, 700, due)

		other := models.Student{
			AdmissionNumber: "ADM-002", FirstName: "Meera", LastName: "Iyer",
			StandardID: fx.student.StandardID, IsActive: true,
		}
		require.NoError(t, fx.db.Create(&other).Error)

		alloc := NewAllocator(fx.db, nil)
		_, err := alloc.RecordPayment(PaymentInput{
			StudentID: other.ID, Amount: 100, Mode: models.ModeCash,
			ReceiptNumber: "RCP-004", ReceiptDate: receiptDate,
			ObligationIDs: []uint{f1.ID},
		})
		require.Error(t, err)

		var payments int64
		fx.db.Model(&models.FeePayment{}).Count(&payments)
		assert.Zero(t, payments)
	})
}
