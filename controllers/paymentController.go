package controllers

import (
	"errors"
	"time"

	"schoolms-backend/database"
	"schoolms-backend/middlewares"
	"schoolms-backend/models"
	"schoolms-backend/services"
	"schoolms-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PaymentCreateDTO struct {
	StudentID     uint    `json:"student_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMode   string  `json:"payment_mode" validate:"required,oneof=cash cheque dd online upi card"`
	ReceiptNumber string  `json:"receipt_number" validate:"required,min=1,max=30"`
	ReceiptDate   string  `json:"receipt_date" validate:"omitempty,datetime=2006-01-02"`

	// ObligationIDs carries the allocation order.
	ObligationIDs []uint `json:"obligation_ids" validate:"required,min=1,dive,required"`

	ChequeNumber  string `json:"cheque_number" validate:"omitempty,max=20"`
	ChequeDate    string `json:"cheque_date" validate:"omitempty,datetime=2006-01-02"`
	BankName      string `json:"bank_name" validate:"omitempty,max=100"`
	TransactionID string `json:"transaction_id" validate:"omitempty,max=100"`
	Remarks       string `json:"remarks" validate:"omitempty"`
}

// POST /api/fees/payment
// The receipt number is reserved by the collection UI; posting the same
// request twice replays via Idempotency-Key or fails on the duplicate receipt.
func RecordPayment(c *fiber.Ctx) error {
	var in PaymentCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	receiptDate := time.Now()
	if in.ReceiptDate != "" {
		receiptDate, _ = time.Parse("2006-01-02", in.ReceiptDate)
	}

	input := services.PaymentInput{
		StudentID:     in.StudentID,
		Amount:        in.Amount,
		Mode:          models.PaymentMode(in.PaymentMode),
		ReceiptNumber: in.ReceiptNumber,
		ReceiptDate:   receiptDate,
		ObligationIDs: in.ObligationIDs,
		ChequeNumber:  in.ChequeNumber,
		BankName:      in.BankName,
		TransactionID: in.TransactionID,
		Remarks:       in.Remarks,
	}
	if in.ChequeDate != "" {
		d, _ := time.Parse("2006-01-02", in.ChequeDate)
		input.ChequeDate = &d
	}
	if userID, ok := c.Locals("userID").(string); ok {
		input.CollectedByID = userID
	}

	allocator := services.NewAllocator(database.GetRequestDB(c), nil)
	result, err := allocator.RecordPayment(input)
	if err != nil {
		return err
	}

	// Notify only once the request transaction has actually committed.
	middlewares.OnCommit(c, func() {
		allocator.NotifyRecorded(result)
	})

	return c.JSON(result.Payment)
}

// GET /api/fees/payment/:receipt
func GetPayment(c *fiber.Ctx) error {
	receipt := c.Params("receipt")

	var payment models.FeePayment
	err := database.DB.Preload("Allocations").
		Where("receipt_number = ?", receipt).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "payment not found")
		}
		return err
	}
	return c.JSON(payment)
}

// GET /api/student/:id/payments
func GetStudentPayments(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var payments []models.FeePayment
	database.DB.Preload("Allocations").
		Where("student_id = ?", id).
		Order("receipt_date DESC, created_at DESC").
		Find(&payments)

	return c.JSON(fiber.Map{"payments": payments, "message": "success"})
}
