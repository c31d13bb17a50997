package controllers

import (
	"fmt"
	"net/http"

	"cautela-app/repositories"
	"cautela-app/services"
	"cautela-app/types"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type MovementController struct {
	DB    *gorm.DB
	stock *services.StockService
}

func NewMovementController(DB *gorm.DB) *MovementController {
	return &MovementController{DB: DB, stock: services.NewStockService(DB)}
}

type AcquisitionPayload struct {
	MaterialID types.SnowflakeID `json:"material_id" validate:"required"`
	Quantity   int               `json:"quantity" validate:"required,gt=0"`
}

func (c *MovementController) CreateAcquisition(ctx *fiber.Ctx) error {
	var payload AcquisitionPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rec, err := c.stock.RecordAcquisition(currentActor(ctx), payload.MaterialID, payload.Quantity)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Acquisition recorded",
		"data":    fiber.Map{"movement": rec},
	})
}

type CheckoutPayload struct {
	MaterialID      types.SnowflakeID `json:"material_id" validate:"required"`
	Quantity        int               `json:"quantity" validate:"required,gt=0"`
	CustodyTargetID types.SnowflakeID `json:"custody_target_id" validate:"required"`
	VehicleID       types.SnowflakeID `json:"vehicle_id"`
}

func (c *MovementController) CreateCheckout(ctx *fiber.Ctx) error {
	var payload CheckoutPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rec, err := c.stock.RecordCheckout(currentActor(ctx), services.CheckoutItem{
		MaterialID:      payload.MaterialID,
		Quantity:        payload.Quantity,
		CustodyTargetID: payload.CustodyTargetID,
		VehicleID:       payload.VehicleID,
	})
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Checkout recorded, pending signature",
		"data":    fiber.Map{"movement": rec},
	})
}

type BatchCheckoutPayload struct {
	Items []CheckoutPayload `json:"items" validate:"required,min=1,dive"`
}

func (c *MovementController) CreateBatchCheckout(ctx *fiber.Ctx) error {
	var payload BatchCheckoutPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	items := make([]services.CheckoutItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, services.CheckoutItem{
			MaterialID:      item.MaterialID,
			Quantity:        item.Quantity,
			CustodyTargetID: item.CustodyTargetID,
			VehicleID:       item.VehicleID,
		})
	}

	records, err := c.stock.RecordBatchCheckout(currentActor(ctx), items)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Batch checkout recorded",
		"data":    fiber.Map{"movements": records},
	})
}

type DisposalPayload struct {
	MaterialID types.SnowflakeID `json:"material_id" validate:"required"`
	Quantity   int               `json:"quantity" validate:"required,gt=0"`
}

func (c *MovementController) CreateDisposal(ctx *fiber.Ctx) error {
	var payload DisposalPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rec, err := c.stock.RecordDisposal(currentActor(ctx), payload.MaterialID, payload.Quantity)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Disposal recorded",
		"data":    fiber.Map{"movement": rec},
	})
}

type RepairHoldPayload struct {
	MaterialID types.SnowflakeID `json:"material_id" validate:"required"`
	Quantity   int               `json:"quantity" validate:"required,gt=0"`
	Location   string            `json:"repair_location" validate:"required"`
	Reference  string            `json:"repair_reference" validate:"required"`
	Reason     string            `json:"repair_reason" validate:"required"`
}

func (c *MovementController) CreateRepairHold(ctx *fiber.Ctx) error {
	var payload RepairHoldPayload
	if err := ctx.BodyParser(&payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rec, err := c.stock.RecordRepairHold(currentActor(ctx), payload.MaterialID, payload.Quantity,
		payload.Location, payload.Reference, payload.Reason)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Repair hold recorded",
		"data":    fiber.Map{"movement": rec},
	})
}

func (c *MovementController) ReturnMovement(ctx *fiber.Ctx) error {
	movementID, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid movement id"})
	}

	ack, err := c.stock.RecordReturn(currentActor(ctx), movementID)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Return recorded, pending acknowledgment",
		"data":    fiber.Map{"acknowledgment": ack},
	})
}

func (c *MovementController) CompleteRepair(ctx *fiber.Ctx) error {
	movementID, err := parseIDParam(ctx, "id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid movement id"})
	}

	if err := c.stock.CompleteRepair(currentActor(ctx), movementID); err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Repair completed",
	})
}

func (c *MovementController) GetMovements(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 100)

	records, err := repositories.NewMovementRepository(c.DB).Recent(limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"movements": records},
	})
}

// ExportExcel streams the recent ledger as a spreadsheet.
func (c *MovementController) ExportExcel(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 1000)

	records, err := repositories.NewMovementRepository(c.DB).Recent(limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Date")
	f.SetCellValue(sheet, "B1", "Type")
	f.SetCellValue(sheet, "C1", "Material")
	f.SetCellValue(sheet, "D1", "Quantity")
	f.SetCellValue(sheet, "E1", "Initiator")
	f.SetCellValue(sheet, "F1", "Custody Target")
	f.SetCellValue(sheet, "G1", "Vehicle")
	f.SetCellValue(sheet, "H1", "Status")
	f.SetCellValue(sheet, "I1", "Signed")
	f.SetCellValue(sheet, "J1", "Returned")

	for i, rec := range records {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), rec.Date.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), rec.Type)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), rec.MaterialDescription)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), rec.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), rec.InitiatorName)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), rec.CustodyTargetName)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), rec.VehicleDescription)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), rec.Status)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), rec.Signed)
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), rec.Returned)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="movements.xlsx"`)

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(http.StatusInternalServerError).SendString("Failed to generate Excel")
	}

	return nil
}
