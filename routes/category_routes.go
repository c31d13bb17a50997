package routes

import (
	"cautela-app/config"
	"cautela-app/controllers"
	"cautela-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupCategoryRoutes(app *fiber.App, db *gorm.DB) {
	categoryController := controllers.NewCategoryController(db)
	api := app.Group(config.MAIN_ROUTES+"/categories", middleware.AuthMiddleware)

	api.Get("/", categoryController.GetCategories)
	api.Post("/", categoryController.CreateCategory)
}
