package routes

import (
	"github.com/gofiber/fiber/v2"

	"academy_backend/handlers"
	"academy_backend/middleware"
)

func StudentRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected())

	api.Get("/students", handlers.ListStudents)
	api.Post("/students", handlers.CreateStudent)
	api.Get("/students/:id", handlers.GetStudent)
	api.Put("/students/:id", handlers.UpdateStudent)
	api.Delete("/students/:id", handlers.DeactivateStudent)

	api.Get("/categories", handlers.ListCategories)
	api.Post("/categories", middleware.AdminRequired(), handlers.CreateCategory)
}
