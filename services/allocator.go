package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolms-backend/models"
	"schoolms-backend/utils"
)

// PaymentInput is everything the collection interface supplies for one
// receipt. The receipt number is reserved by the caller; ObligationIDs carry
// the allocation order.
type PaymentInput struct {
	StudentID     uint
	Amount        float64
	Mode          models.PaymentMode
	ReceiptNumber string
	ReceiptDate   time.Time
	ObligationIDs []uint

	ChequeNumber  string
	ChequeDate    *time.Time
	BankName      string
	TransactionID string

	CollectedByID string
	Remarks       string
}

// PlanAllocations distributes amount across the obligations in the order
// given, each taking min(remaining, balance). Returns ErrOverpayment when the
// amount exceeds the summed balances; silent absorption is not permitted.
func PlanAllocations(amount float64, obligations []*models.StudentFee) ([]models.PaymentAllocation, error) {
	var total float64
	for _, f := range obligations {
		total += f.Balance()
	}
	if amount > utils.Round2(total) {
		return nil, ErrOverpayment
	}

	remaining := amount
	var allocations []models.PaymentAllocation
	for _, f := range obligations {
		if remaining <= 0 {
			break
		}
		share := utils.Round2(math.Min(remaining, f.Balance()))
		if share <= 0 {
			continue
		}
		allocations = append(allocations, models.PaymentAllocation{
			StudentFeeID: f.ID,
			Amount:       share,
		})
		remaining = utils.Round2(remaining - share)
	}
	return allocations, nil
}

// receiptSnapshot is the receipt as issued, frozen into the payment row.
type receiptSnapshot struct {
	ReceiptNumber string             `json:"receipt_number"`
	ReceiptDate   string             `json:"receipt_date"`
	StudentID     uint               `json:"student_id"`
	Amount        float64            `json:"amount"`
	PaymentMode   models.PaymentMode `json:"payment_mode"`
	Allocations   []snapshotLine     `json:"allocations"`
}

type snapshotLine struct {
	StudentFeeID uint    `json:"student_fee_id"`
	Amount       float64 `json:"amount"`
	Balance      float64 `json:"balance_after"`
}

// PaymentResult is a recorded payment plus the obligations it touched, kept so
// notifications can be dispatched once the enclosing transaction is durable.
type PaymentResult struct {
	Payment *models.FeePayment
	Touched []*models.StudentFee
}

// Allocator applies payments to the ledger.
type Allocator struct {
	db       *gorm.DB
	notifier Notifier
}

func NewAllocator(db *gorm.DB, notifier Notifier) *Allocator {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Allocator{db: db, notifier: notifier}
}

// RecordPayment applies one payment atomically: it locks the target
// obligations, plans the allocation, bumps paid_amount, re-derives each
// status and writes the immutable receipt with its allocation rows. Any
// failure leaves the ledger untouched.
//
// RecordPayment does NOT notify. When it runs inside a request transaction
// its own Transaction call is only a savepoint, so the caller dispatches
// NotifyRecorded after the real commit.
func (a *Allocator) RecordPayment(in PaymentInput) (*PaymentResult, error) {
	if len(in.ObligationIDs) == 0 {
		return nil, fmt.Errorf("payment %s: no target obligations", in.ReceiptNumber)
	}
	if in.Amount <= 0 {
		return nil, fmt.Errorf("payment %s: amount must be positive", in.ReceiptNumber)
	}

	var payment models.FeePayment
	var touched []*models.StudentFee

	err := a.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.FeePayment{}).
			Where("receipt_number = ?", in.ReceiptNumber).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateReceipt
		}

		// Row locks serialize concurrent payments against the same
		// obligations; two posts cannot both read the same balance.
		obligations := make([]*models.StudentFee, 0, len(in.ObligationIDs))
		for _, id := range in.ObligationIDs {
			var f models.StudentFee
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&f, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("obligation %d not found", id)
				}
				return err
			}
			if f.StudentID != in.StudentID {
				return fmt.Errorf("obligation %d does not belong to student %d", id, in.StudentID)
			}
			obligations = append(obligations, &f)
		}

		allocations, err := PlanAllocations(in.Amount, obligations)
		if err != nil {
			return err
		}

		byID := make(map[uint]*models.StudentFee, len(obligations))
		for _, f := range obligations {
			byID[f.ID] = f
		}

		snap := receiptSnapshot{
			ReceiptNumber: in.ReceiptNumber,
			ReceiptDate:   in.ReceiptDate.Format("2006-01-02"),
			StudentID:     in.StudentID,
			Amount:        in.Amount,
			PaymentMode:   in.Mode,
		}

		for _, alloc := range allocations {
			f := byID[alloc.StudentFeeID]
			f.PaidAmount = utils.Round2(f.PaidAmount + alloc.Amount)
			RefreshStatus(f, in.ReceiptDate)
			if err := tx.Model(f).Select("paid_amount", "status").Updates(f).Error; err != nil {
				return err
			}
			touched = append(touched, f)
			snap.Allocations = append(snap.Allocations, snapshotLine{
				StudentFeeID: f.ID,
				Amount:       alloc.Amount,
				Balance:      f.Balance(),
			})
		}

		blob, err := json.Marshal(snap)
		if err != nil {
			return err
		}

		payment = models.FeePayment{
			ReceiptNumber: in.ReceiptNumber,
			ReceiptDate:   in.ReceiptDate,
			StudentID:     in.StudentID,
			Amount:        in.Amount,
			PaymentMode:   in.Mode,
			ChequeNumber:  in.ChequeNumber,
			ChequeDate:    in.ChequeDate,
			BankName:      in.BankName,
			TransactionID: in.TransactionID,
			Remarks:       in.Remarks,
			Allocations:   allocations,
			Snapshot:      blob,
		}
		if in.CollectedByID != "" {
			payment.CollectedByID = &in.CollectedByID
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, err
	}

	return &PaymentResult{Payment: &payment, Touched: touched}, nil
}

// NotifyRecorded dispatches the fire-and-forget events for a committed
// payment. Notification problems are logged by the notifier and never surface
// to the caller; a recorded payment is never rolled back over them.
func (a *Allocator) NotifyRecorded(res *PaymentResult) {
	if res == nil || res.Payment == nil {
		return
	}
	p := res.Payment
	a.notifier.PaymentRecorded(p.StudentID, p.ReceiptNumber, p.Amount)
	for _, f := range res.Touched {
		a.notifier.StatusChanged(f.StudentID, f.ID, f.Status)
	}
}
