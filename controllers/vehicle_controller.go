package controllers

import (
	"errors"

	"cautela-app/controllers/idgen"
	"cautela-app/models"
	"cautela-app/services"
	"cautela-app/types"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type VehicleController struct {
	DB          *gorm.DB
	allocations *services.AllocationService
}

func NewVehicleController(DB *gorm.DB) *VehicleController {
	return &VehicleController{DB: DB, allocations: services.NewAllocationService(DB)}
}

type VehiclePayload struct {
	Description string `json:"description" validate:"required,min=3"`
	Plate       string `json:"plate" validate:"required"`
}

func (c *VehicleController) CreateVehicle(ctx *fiber.Ctx) error {
	var payload VehiclePayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	vehicle := models.Vehicle{
		ID:          types.SnowflakeID(idgen.GenerateID()),
		Description: payload.Description,
		Plate:       payload.Plate,
		CreatedBy:   currentActor(ctx).ID,
	}

	if err := c.DB.Create(&vehicle).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Vehicle created successfully",
		"data":    fiber.Map{"vehicle": vehicle},
	})
}

func (c *VehicleController) GetVehicles(ctx *fiber.Ctx) error {
	var vehicles []models.Vehicle
	if err := c.DB.Order("description").Find(&vehicles).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"vehicles": vehicles},
	})
}

// DeleteVehicle refuses to remove a vehicle that still has active
// allocations; its subledger records would be orphaned.
func (c *VehicleController) DeleteVehicle(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid vehicle id"})
	}

	var vehicle models.Vehicle
	if err := c.DB.First(&vehicle, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vehicle not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	hasActive, err := c.allocations.HasActiveAllocations(id)
	if err != nil {
		return serviceError(ctx, err)
	}
	if hasActive {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "vehicle still has active allocations",
		})
	}

	if err := c.DB.Delete(&vehicle).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Vehicle deleted successfully",
	})
}
