package controllers

import (
	"fmt"
	"log"
	"time"

	"schoolms-backend/database"
	"schoolms-backend/models"
	"schoolms-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// reportCache is optional; nil behaves as an always-miss cache.
var reportCache *utils.Cache

// InitReportCache wires the Redis cache from main.
func InitReportCache(cache *utils.Cache) {
	reportCache = cache
}

const summaryCacheTTL = 5 * time.Minute

type collectionSummary struct {
	From       string             `json:"from"`
	To         string             `json:"to"`
	Total      float64            `json:"total"`
	ByMode     map[string]float64 `json:"by_mode"`
	Receipts   int64              `json:"receipts"`
	ComputedAt time.Time          `json:"computed_at"`
}

// GET /api/reports/collection?from=2026-04-01&to=2026-04-30
// Read-only over the ledger; cached briefly since the collection desk polls it.
func GetCollectionSummary(c *fiber.Ctx) error {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		return fiber.NewError(fiber.StatusBadRequest, "from and to are required (YYYY-MM-DD)")
	}
	if _, err := time.Parse("2006-01-02", from); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid from date")
	}
	if _, err := time.Parse("2006-01-02", to); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid to date")
	}

	cacheKey := fmt.Sprintf("report:collection:%s:%s", from, to)
	var cached collectionSummary
	if err := reportCache.GetJSON(c.Context(), cacheKey, &cached); err == nil {
		return c.JSON(cached)
	}

	summary := collectionSummary{
		From:       from,
		To:         to,
		ByMode:     map[string]float64{},
		ComputedAt: time.Now().UTC(),
	}

	type modeRow struct {
		PaymentMode string
		Total       float64
		Count       int64
	}
	var rows []modeRow
	err := database.DB.Model(&models.FeePayment{}).
		Select("payment_mode, SUM(amount) AS total, COUNT(*) AS count").
		Where("receipt_date BETWEEN ? AND ?", from, to).
		Group("payment_mode").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	for _, r := range rows {
		summary.ByMode[r.PaymentMode] = utils.Round2(r.Total)
		summary.Total = utils.Round2(summary.Total + r.Total)
		summary.Receipts += r.Count
	}

	if err := reportCache.SetJSON(c.Context(), cacheKey, summary, summaryCacheTTL); err != nil {
		log.Printf("report cache write failed: %v", err)
	}
	return c.JSON(summary)
}

type defaulterRow struct {
	StudentID       uint    `json:"student_id"`
	AdmissionNumber string  `json:"admission_number"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Overdue         int64   `json:"overdue_obligations"`
	Balance         float64 `json:"balance"`
}

// GET /api/reports/defaulters
// Students carrying unpaid past-due obligations, largest balance first.
func GetDefaulters(c *fiber.Ctx) error {
	var rows []defaulterRow
	err := database.DB.Model(&models.StudentFee{}).
		Select(`student_fees.student_id,
			students.admission_number, students.first_name, students.last_name,
			COUNT(*) AS overdue,
			SUM(student_fees.net_amount + student_fees.late_fee - student_fees.paid_amount) AS balance`).
		Joins("JOIN students ON students.id = student_fees.student_id").
		Where("student_fees.due_date < ? AND student_fees.status NOT IN ?",
			time.Now(), []models.FeeStatus{models.StatusPaid, models.StatusWaived}).
		Group("student_fees.student_id, students.admission_number, students.first_name, students.last_name").
		Order("balance DESC").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"defaulters": rows, "message": "success"})
}
