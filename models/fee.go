package models

import (
	"time"

	"gorm.io/datatypes"
)

type Frequency string

const (
	FrequencyOneTime    Frequency = "one_time"
	FrequencyMonthly    Frequency = "monthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencyHalfYearly Frequency = "half_yearly"
	FrequencyYearly     Frequency = "yearly"
)

// Periods returns how many obligations a schedule of this frequency generates
// within one academic year.
func (f Frequency) Periods() int {
	switch f {
	case FrequencyMonthly:
		return 12
	case FrequencyQuarterly:
		return 4
	case FrequencyHalfYearly:
		return 2
	default: // one_time, yearly
		return 1
	}
}

// MonthStep is the number of months between consecutive periods.
func (f Frequency) MonthStep() int {
	switch f {
	case FrequencyMonthly:
		return 1
	case FrequencyQuarterly:
		return 3
	case FrequencyHalfYearly:
		return 6
	default:
		return 12
	}
}

type FeeStatus string

const (
	StatusPending FeeStatus = "pending"
	StatusPartial FeeStatus = "partial"
	StatusPaid    FeeStatus = "paid"
	StatusOverdue FeeStatus = "overdue"
	StatusWaived  FeeStatus = "waived"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type PaymentMode string

const (
	ModeCash   PaymentMode = "cash"
	ModeCheque PaymentMode = "cheque"
	ModeDD     PaymentMode = "dd"
	ModeOnline PaymentMode = "online"
	ModeUPI    PaymentMode = "upi"
	ModeCard   PaymentMode = "card"
)

// FeeCategory is a named kind of charge (tuition, transport, hostel, ...).
type FeeCategory struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Code        string    `json:"code" gorm:"size:20;uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	FeeType     string    `json:"fee_type" gorm:"size:20;not null"`
	Description string    `json:"description"`
	IsMandatory bool      `json:"is_mandatory" gorm:"default:true"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FeeSchedule defines what a category costs for a (year, standard) pair and
// how it falls due. Editing a schedule never touches obligations already
// generated from it; amounts are copied at generation time.
type FeeSchedule struct {
	ID             uint         `json:"id" gorm:"primaryKey"`
	AcademicYearID uint         `json:"academic_year_id" gorm:"not null;index:idx_fee_schedules_year_standard_category,unique,priority:1"`
	AcademicYear   AcademicYear `json:"-" gorm:"foreignKey:AcademicYearID"`
	StandardID     uint         `json:"standard_id" gorm:"not null;index:idx_fee_schedules_year_standard_category,unique,priority:2"`
	Standard       Standard     `json:"-" gorm:"foreignKey:StandardID"`
	FeeCategoryID  uint         `json:"fee_category_id" gorm:"not null;index:idx_fee_schedules_year_standard_category,unique,priority:3"`
	FeeCategory    FeeCategory  `json:"fee_category" gorm:"foreignKey:FeeCategoryID"`

	Amount    float64   `json:"amount" gorm:"type:numeric(12,2);not null"`
	Frequency Frequency `json:"frequency" gorm:"size:20;not null;default:'yearly'"`

	// DueDay is the day of month each period falls due.
	DueDay        int     `json:"due_day" gorm:"default:10"`
	LateFeePerDay float64 `json:"late_fee_per_day" gorm:"type:numeric(12,2);default:0"`
	MaxLateFee    float64 `json:"max_late_fee" gorm:"type:numeric(12,2);default:0"`

	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeeDiscount is a named reduction (sibling, scholarship, RTE, ...). An empty
// category set means the discount applies to every category.
type FeeDiscount struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	Code         string       `json:"code" gorm:"size:20;uniqueIndex;not null"`
	Name         string       `json:"name" gorm:"size:100;not null"`
	DiscountType DiscountType `json:"discount_type" gorm:"size:20;not null;default:'percentage'"`

	// Value is a percentage in [0,100] or a fixed amount >= 0.
	Value float64 `json:"value" gorm:"type:numeric(12,2);not null"`

	Categories  []FeeCategory `json:"categories,omitempty" gorm:"many2many:fee_discount_categories"`
	Description string        `json:"description"`
	IsActive    bool          `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// AppliesTo reports whether the discount covers the given category.
// Requires Categories to be preloaded.
func (d *FeeDiscount) AppliesTo(categoryID uint) bool {
	if len(d.Categories) == 0 {
		return true
	}
	for _, cat := range d.Categories {
		if cat.ID == categoryID {
			return true
		}
	}
	return false
}

// StudentFee is one obligation: what a student owes for one schedule period.
// paid_amount and late_fee only ever increase; status is a cached projection
// of the amounts and is recomputed on every mutation.
type StudentFee struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	StudentID     uint        `json:"student_id" gorm:"not null;index:idx_student_fees_student_schedule_period,unique,priority:1"`
	Student       Student     `json:"-" gorm:"foreignKey:StudentID"`
	FeeScheduleID uint        `json:"fee_schedule_id" gorm:"not null;index:idx_student_fees_student_schedule_period,unique,priority:2"`
	FeeSchedule   FeeSchedule `json:"-" gorm:"foreignKey:FeeScheduleID"`

	// PeriodNo is the 1-based period within the academic year (1..12 for
	// monthly, 1..4 for quarterly, always 1 for one_time/yearly).
	PeriodNo int `json:"period_no" gorm:"not null;index:idx_student_fees_student_schedule_period,unique,priority:3"`

	OriginalAmount float64      `json:"original_amount" gorm:"type:numeric(12,2);not null"`
	DiscountID     *uint        `json:"discount_id,omitempty"`
	Discount       *FeeDiscount `json:"-" gorm:"foreignKey:DiscountID"`
	DiscountAmount float64      `json:"discount_amount" gorm:"type:numeric(12,2);default:0"`
	NetAmount      float64      `json:"net_amount" gorm:"type:numeric(12,2);not null"`
	PaidAmount     float64      `json:"paid_amount" gorm:"type:numeric(12,2);default:0"`
	LateFee        float64      `json:"late_fee" gorm:"type:numeric(12,2);default:0"`

	DueDate time.Time `json:"due_date" gorm:"type:date;not null"`
	Waived  bool      `json:"waived" gorm:"default:false"`
	Status  FeeStatus `json:"status" gorm:"size:20;index;default:'pending'"`
	Remarks string    `json:"remarks"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Balance is what remains to settle the obligation, late fee included.
// Amounts are kept at 2dp so plain subtraction stays exact.
func (f *StudentFee) Balance() float64 {
	return f.NetAmount + f.LateFee - f.PaidAmount
}

// FeePayment is an immutable receipt. Amount and allocations never change
// after creation; corrections are new offsetting payments.
type FeePayment struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	ReceiptNumber string      `json:"receipt_number" gorm:"size:30;uniqueIndex;not null"`
	ReceiptDate   time.Time   `json:"receipt_date" gorm:"type:date;not null"`
	StudentID     uint        `json:"student_id" gorm:"not null;index:idx_fee_payments_student_receipt_date,priority:1"`
	Student       Student     `json:"-" gorm:"foreignKey:StudentID"`
	Amount        float64     `json:"amount" gorm:"type:numeric(12,2);not null"`
	PaymentMode   PaymentMode `json:"payment_mode" gorm:"size:20;not null;default:'cash'"`

	// Cheque / DD details
	ChequeNumber string     `json:"cheque_number,omitempty" gorm:"size:20"`
	ChequeDate   *time.Time `json:"cheque_date,omitempty" gorm:"type:date"`
	BankName     string     `json:"bank_name,omitempty" gorm:"size:100"`

	// Online payments
	TransactionID string `json:"transaction_id,omitempty" gorm:"size:100"`

	CollectedByID *string `json:"collected_by,omitempty"`
	CollectedBy   *User   `json:"-" gorm:"foreignKey:CollectedByID"`
	Remarks       string  `json:"remarks"`

	Allocations []PaymentAllocation `json:"allocations" gorm:"foreignKey:FeePaymentID"`

	// Snapshot is the receipt as issued, frozen at creation time.
	Snapshot datatypes.JSON `json:"snapshot,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"index:idx_fee_payments_student_receipt_date,priority:2"`
}

// PaymentAllocation is the portion of one payment applied to one obligation.
type PaymentAllocation struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	FeePaymentID uint       `json:"fee_payment_id" gorm:"not null;index"`
	StudentFeeID uint       `json:"student_fee_id" gorm:"not null;index"`
	StudentFee   StudentFee `json:"-" gorm:"foreignKey:StudentFeeID"`
	Amount       float64    `json:"amount" gorm:"type:numeric(12,2);not null"`
}
