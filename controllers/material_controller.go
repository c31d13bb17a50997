package controllers

import (
	"errors"

	"cautela-app/controllers/idgen"
	"cautela-app/models"
	"cautela-app/repositories"
	"cautela-app/types"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MaterialController struct {
	DB *gorm.DB
}

func NewMaterialController(DB *gorm.DB) *MaterialController {
	return &MaterialController{DB: DB}
}

type MaterialPayload struct {
	Description string `json:"description" validate:"required,min=3"`
	Category    string `json:"category"`
}

// CreateMaterial registers a material with zero stock; quantities only
// ever change through the movement and allocation services.
func (c *MaterialController) CreateMaterial(ctx *fiber.Ctx) error {
	var payload MaterialPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	material := models.Material{
		ID:                types.SnowflakeID(idgen.GenerateID()),
		Description:       payload.Description,
		Category:          payload.Category,
		OperabilityStatus: models.OperabilityOperational,
		CreatedBy:         currentActor(ctx).ID,
	}

	if err := repositories.NewMaterialRepository(c.DB).Create(&material); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Material created successfully",
		"data":    fiber.Map{"material": material},
	})
}

func (c *MaterialController) GetMaterials(ctx *fiber.Ctx) error {
	materials, err := repositories.NewMaterialRepository(c.DB).GetAll()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"materials": materials},
	})
}

func (c *MaterialController) GetMaterialByID(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid material id"})
	}

	material, err := repositories.NewMaterialRepository(c.DB).GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Material not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"material": material},
	})
}

type OperabilityPayload struct {
	Status string `json:"status" validate:"required,oneof=operational in_maintenance inoperative"`
}

// UpdateOperability edits the independently held operability flag. The
// repair workflow also writes it, but the directory stays editable for
// cases like condemned equipment.
func (c *MaterialController) UpdateOperability(ctx *fiber.Ctx) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid material id"})
	}

	var payload OperabilityPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	repo := repositories.NewMaterialRepository(c.DB)
	if _, err := repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Material not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if err := repo.SetOperability(id, payload.Status); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Operability updated",
	})
}
