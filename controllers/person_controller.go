package controllers

import (
	"cautela-app/controllers/idgen"
	"cautela-app/models"
	"cautela-app/types"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PersonController struct {
	DB *gorm.DB
}

func NewPersonController(DB *gorm.DB) *PersonController {
	return &PersonController{DB: DB}
}

type PersonPayload struct {
	Name         string `json:"name" validate:"required,min=3"`
	Rank         string `json:"rank"`
	Registration string `json:"registration" validate:"required"`
	Email        string `json:"email" validate:"omitempty,email"`
}

func (c *PersonController) CreatePerson(ctx *fiber.Ctx) error {
	var payload PersonPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	person := models.Person{
		ID:           types.SnowflakeID(idgen.GenerateID()),
		Name:         payload.Name,
		Rank:         payload.Rank,
		Registration: payload.Registration,
		Email:        payload.Email,
		CreatedBy:    currentActor(ctx).ID,
	}

	if err := c.DB.Create(&person).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Person created successfully",
		"data":    fiber.Map{"person": person},
	})
}

func (c *PersonController) GetPersons(ctx *fiber.Ctx) error {
	var persons []models.Person
	if err := c.DB.Order("name").Find(&persons).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"persons": persons},
	})
}
