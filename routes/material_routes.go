package routes

import (
	"cautela-app/config"
	"cautela-app/controllers"
	"cautela-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupMaterialRoutes(app *fiber.App, db *gorm.DB) {
	materialController := controllers.NewMaterialController(db)
	api := app.Group(config.MAIN_ROUTES+"/materials", middleware.AuthMiddleware)

	api.Get("/", materialController.GetMaterials)
	api.Get("/:id", materialController.GetMaterialByID)
	api.Post("/", materialController.CreateMaterial)
	api.Put("/:id/operability", materialController.UpdateOperability)
}
