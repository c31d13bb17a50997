package routes

import (
	"cautela-app/config"
	"cautela-app/controllers"
	"cautela-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupPersonRoutes(app *fiber.App, db *gorm.DB) {
	personController := controllers.NewPersonController(db)
	api := app.Group(config.MAIN_ROUTES+"/persons", middleware.AuthMiddleware)

	api.Get("/", personController.GetPersons)
	api.Post("/", personController.CreatePerson)
}
