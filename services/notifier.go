package services

import (
	"log"

	"schoolms-backend/models"
)

// Notifier receives fire-and-forget ledger events. Implementations must never
// fail a financial transaction: by the time these fire, the payment has
// committed. Dispatch errors are the implementation's problem to log.
type Notifier interface {
	PaymentRecorded(studentID uint, receiptNumber string, amount float64)
	StatusChanged(studentID, obligationID uint, status models.FeeStatus)
}

// LogNotifier writes events to the process log. Stands in for SMS/email
// delivery, which is an external collaborator.
type LogNotifier struct{}

func (LogNotifier) PaymentRecorded(studentID uint, receiptNumber string, amount float64) {
	log.Printf("[notify] payment recorded: student=%d receipt=%s amount=%.2f", studentID, receiptNumber, amount)
}

func (LogNotifier) StatusChanged(studentID, obligationID uint, status models.FeeStatus) {
	log.Printf("[notify] fee status changed: student=%d obligation=%d status=%s", studentID, obligationID, status)
}
