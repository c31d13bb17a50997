package controllers

import (
	"cautela-app/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

func (c *DashboardController) GetDashboard(ctx *fiber.Ctx) error {
	dashboard := services.NewDashboardService(c.DB)
	if window := ctx.QueryInt("window", 0); window > 0 {
		dashboard.Window = window
	}

	summary, err := dashboard.Summary()
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Dashboard found",
		"data":    fiber.Map{"summary": summary},
	})
}
