package controllers

import (
	"cautela-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CustodyController struct {
	DB      *gorm.DB
	custody *services.CustodyService
}

func NewCustodyController(DB *gorm.DB) *CustodyController {
	return &CustodyController{DB: DB, custody: services.NewCustodyService(DB)}
}

type SignPayload struct {
	Confirmation string `json:"confirmation" validate:"required"`
}

// SignMovement records the custody target's acknowledgment of a
// checkout. The confirmation phrase must match exactly; stock was
// already decremented at checkout time.
func (c *CustodyController) SignMovement(ctx *fiber.Ctx) error {
	movementID, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid movement id"})
	}

	var payload SignPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.custody.SignCheckout(movementID, payload.Confirmation); err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Checkout signed",
	})
}

func (c *CustodyController) AcknowledgeReturn(ctx *fiber.Ctx) error {
	ackID, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid acknowledgment id"})
	}

	if err := c.custody.AcknowledgeReturn(ackID); err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Return acknowledged",
	})
}

func (c *CustodyController) GetPendingAcknowledgments(ctx *fiber.Ctx) error {
	acks, err := c.custody.PendingAcknowledgments()
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"acknowledgments": acks},
	})
}
