package routes

import (
	"cautela-app/config"
	"cautela-app/controllers"
	"cautela-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupCustodyRoutes(app *fiber.App, db *gorm.DB) {
	custodyController := controllers.NewCustodyController(db)

	movements := app.Group(config.MAIN_ROUTES+"/movements", middleware.AuthMiddleware)
	movements.Post("/:id/sign", custodyController.SignMovement)

	acks := app.Group(config.MAIN_ROUTES+"/acknowledgments", middleware.AuthMiddleware)
	acks.Get("/pending", custodyController.GetPendingAcknowledgments)
	acks.Post("/:id/acknowledge", custodyController.AcknowledgeReturn)
}
