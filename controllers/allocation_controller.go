package controllers

import (
	"cautela-app/services"
	"cautela-app/types"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AllocationController struct {
	DB          *gorm.DB
	allocations *services.AllocationService
}

func NewAllocationController(DB *gorm.DB) *AllocationController {
	return &AllocationController{DB: DB, allocations: services.NewAllocationService(DB)}
}

type AllocationPayload struct {
	VehicleID  types.SnowflakeID `json:"vehicle_id" validate:"required"`
	MaterialID types.SnowflakeID `json:"material_id" validate:"required"`
	Quantity   int               `json:"quantity" validate:"required,gt=0"`
}

func (c *AllocationController) CreateAllocation(ctx *fiber.Ctx) error {
	var payload AllocationPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rec, err := c.allocations.Allocate(currentActor(ctx), payload.VehicleID, payload.MaterialID, payload.Quantity)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Allocation recorded",
		"data":    fiber.Map{"allocation": rec},
	})
}

type DeallocationPayload struct {
	Reason string `json:"reason"`
}

func (c *AllocationController) Deallocate(ctx *fiber.Ctx) error {
	allocationID, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid allocation id"})
	}

	// Reason is optional; an empty body is fine.
	var payload DeallocationPayload
	_ = ctx.BodyParser(&payload)

	if err := c.allocations.Deallocate(currentActor(ctx), allocationID, payload.Reason); err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Allocation closed",
	})
}

func (c *AllocationController) GetVehicleAllocations(ctx *fiber.Ctx) error {
	vehicleID, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid vehicle id"})
	}

	records, err := c.allocations.ActiveAllocations(vehicleID)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"allocations": records},
	})
}
