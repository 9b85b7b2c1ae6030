package routes

import (
	"github.com/gofiber/fiber/v2"

	"academy_backend/handlers"
	"academy_backend/middleware"
)

func BillingRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected())

	api.Post("/students/:studentId/payment-periods/generate", handlers.GeneratePeriods)
	api.Post("/payment-periods/generate-all", middleware.AdminRequired(), handlers.GeneratePeriodsForAll)

	api.Get("/payment-periods", handlers.ListPeriods)
	api.Get("/payment-periods/overdue", handlers.ListOverduePeriods)
	api.Post("/payment-periods", handlers.CreatePeriod)
	api.Get("/payment-periods/:id", handlers.GetPeriod)
	api.Patch("/payment-periods/:id", handlers.UpdatePeriod)
	api.Delete("/payment-periods/:id", middleware.AdminRequired(), handlers.DeletePeriod)

	api.Post("/payment-periods/:id/pay", handlers.MarkPeriodPaid)
	api.Post("/payment-periods/:id/exempt", handlers.MarkPeriodExempted)
}
