package routes

import (
	"github.com/gofiber/fiber/v2"

	"schoolms-backend/controllers"
	"schoolms-backend/middlewares"
	"schoolms-backend/models"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency())

	// Then the per-request transaction (commits/rolls back around the handler)
	protected.Use(middlewares.RequestTx())

	// Academics
	protected.Post("/academic-year", middlewares.RequireRole(), controllers.CreateAcademicYear)
	protected.Put("/academic-year/:id/current", middlewares.RequireRole(), controllers.SetCurrentAcademicYear)
	protected.Get("/academic-years", controllers.GetAcademicYears)
	protected.Post("/standard", middlewares.RequireRole(), controllers.CreateStandard)
	protected.Get("/standards", controllers.GetStandards)

	// Students
	protected.Post("/student", controllers.CreateStudent)
	protected.Get("/students", controllers.GetStudents)
	protected.Get("/student/:id", controllers.GetStudent)
	protected.Put("/student/:id", controllers.UpdateStudent)
	protected.Get("/student/:id/fees", controllers.GetStudentFees)
	protected.Get("/student/:id/payments", controllers.GetStudentPayments)
	protected.Get("/student/:id/attendance", controllers.GetStudentAttendance)

	// Fee configuration (admin only)
	protected.Post("/fees/category", middlewares.RequireRole(), controllers.CreateFeeCategory)
	protected.Get("/fees/categories", controllers.GetFeeCategories)
	protected.Post("/fees/schedule", middlewares.RequireRole(), controllers.CreateFeeSchedule)
	protected.Get("/fees/schedules", controllers.GetFeeSchedules)
	protected.Post("/fees/discount", middlewares.RequireRole(), controllers.CreateFeeDiscount)
	protected.Get("/fees/discounts", controllers.GetFeeDiscounts)

	// Fee ledger (collection desk)
	accountant := middlewares.RequireRole(models.RoleAccountant)
	protected.Post("/fees/obligations/generate", accountant, controllers.GenerateObligations)
	protected.Put("/fees/obligation/:id/waive", middlewares.RequireRole(), controllers.WaiveObligation)
	protected.Post("/fees/payment", accountant, controllers.RecordPayment)
	protected.Get("/fees/payment/:receipt", controllers.GetPayment)
	protected.Post("/fees/accrue-late-fees", accountant, controllers.AccrueLateFees)

	// Attendance
	protected.Post("/attendance/monthly", middlewares.RequireRole(models.RoleTeacher), controllers.UpsertMonthlyAttendance)

	// Examinations
	protected.Post("/exam", middlewares.RequireRole(), controllers.CreateExam)
	protected.Post("/exam/result", middlewares.RequireRole(models.RoleTeacher), controllers.EnterExamResult)
	protected.Get("/exam/:id/results", controllers.GetExamResults)

	// Inventory
	protected.Post("/asset", middlewares.RequireRole(), controllers.CreateAsset)
	protected.Get("/assets", controllers.GetAssets)

	// Reports (read-only)
	protected.Get("/reports/collection", accountant, controllers.GetCollectionSummary)
	protected.Get("/reports/defaulters", accountant, controllers.GetDefaulters)
}
