package routes

import (
	"cautela-app/config"
	"cautela-app/controllers"
	"cautela-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupVehicleRoutes(app *fiber.App, db *gorm.DB) {
	vehicleController := controllers.NewVehicleController(db)
	allocationController := controllers.NewAllocationController(db)
	api := app.Group(config.MAIN_ROUTES+"/vehicles", middleware.AuthMiddleware)

	api.Get("/", vehicleController.GetVehicles)
	api.Post("/", vehicleController.CreateVehicle)
	api.Delete("/:id", vehicleController.DeleteVehicle)
	api.Get("/:id/allocations", allocationController.GetVehicleAllocations)
}
