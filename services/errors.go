package services

import "errors"

// Domain errors surfaced to the API layer. All of them mean "nothing was
// persisted"; the callers' transactions roll back on any of these.
var (
	// ErrObligationExists: an obligation for (student, schedule, period)
	// already exists. Duplicate generation is a conflict, not a no-op.
	ErrObligationExists = errors.New("obligation already exists for this student, schedule and period")

	// ErrOverpayment: the payment amount exceeds the summed balance of the
	// target obligations. The caller must add targets or reduce the amount.
	ErrOverpayment = errors.New("payment amount exceeds outstanding balance of target obligations")

	// ErrDuplicateReceipt: the receipt number has already been used.
	ErrDuplicateReceipt = errors.New("receipt number already exists")

	// ErrInvalidDiscount: discount value out of range (percentage outside
	// [0,100] or negative fixed amount) or unknown discount type.
	ErrInvalidDiscount = errors.New("discount value out of range")
)
