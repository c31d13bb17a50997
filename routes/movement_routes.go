package routes

import (
	"cautela-app/config"
	"cautela-app/controllers"
	"cautela-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupMovementRoutes(app *fiber.App, db *gorm.DB) {
	movementController := controllers.NewMovementController(db)
	api := app.Group(config.MAIN_ROUTES+"/movements", middleware.AuthMiddleware)

	api.Get("/", movementController.GetMovements)
	api.Get("/excel", movementController.ExportExcel)
	api.Post("/acquisition", movementController.CreateAcquisition)
	api.Post("/checkout", movementController.CreateCheckout)
	api.Post("/checkout/batch", movementController.CreateBatchCheckout)
	api.Post("/disposal", movementController.CreateDisposal)
	api.Post("/repair", movementController.CreateRepairHold)
	api.Post("/:id/return", movementController.ReturnMovement)
	api.Post("/:id/repair/complete", movementController.CompleteRepair)
}
