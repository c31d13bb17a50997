package controllers

import (
	"errors"
	"strconv"

	"cautela-app/services"
	"cautela-app/types"

	"github.com/gofiber/fiber/v2"
)

// currentActor reads the identity stamped into Locals by the auth
// middleware.
func currentActor(ctx *fiber.Ctx) services.Actor {
	actor := services.Actor{}
	if id, ok := ctx.Locals("userID").(float64); ok {
		actor.ID = int(id)
	}
	if name, ok := ctx.Locals("userName").(string); ok {
		actor.Name = name
	}
	return actor
}

func parseIDParam(ctx *fiber.Ctx, name string) (types.SnowflakeID, error) {
	raw := ctx.Params(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return types.SnowflakeID(id), nil
}

// serviceError maps engine failures onto HTTP statuses.
func serviceError(ctx *fiber.Ctx, err error) error {
	var validation *services.ValidationError
	var insufficient *services.InsufficientStockError
	var duplicate *services.DuplicateItemError

	switch {
	case errors.As(err, &validation) || errors.As(err, &duplicate):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
	case errors.As(err, &insufficient):
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrMaterialNotFound) ||
		errors.Is(err, services.ErrMovementNotFound) ||
		errors.Is(err, services.ErrPersonNotFound) ||
		errors.Is(err, services.ErrVehicleNotFound) ||
		errors.Is(err, services.ErrAllocationNotFound) ||
		errors.Is(err, services.ErrAcknowledgmentNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrAlreadyReturned) ||
		errors.Is(err, services.ErrAlreadySigned) ||
		errors.Is(err, services.ErrAlreadyAcknowledged) ||
		errors.Is(err, services.ErrAllocationNotActive) ||
		errors.Is(err, services.ErrNotCheckout) ||
		errors.Is(err, services.ErrNotRepair):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "error": err.Error()})
	case errors.Is(err, services.ErrPermissionDenied):
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "error": err.Error()})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
}
