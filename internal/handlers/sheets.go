package handlers

import (
	"encoding/json"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/yeheskieltame/asisten-backend/internal/apperrors"
	"github.com/yeheskieltame/asisten-backend/internal/models"
	"github.com/yeheskieltame/asisten-backend/internal/storage"
)

// SheetsHandler exposes the persistence surface as an
// operation-dispatch endpoint: {operation, data} with per-operation
// schemas.
type SheetsHandler struct {
	store    storage.Store
	validate *validator.Validate
}

// NewSheetsHandler creates a sheets handler.
func NewSheetsHandler(store storage.Store) *SheetsHandler {
	return &SheetsHandler{
		store:    store,
		validate: validator.New(),
	}
}

type sheetsRequest struct {
	Operation string          `json:"operation"`
	Data      json.RawMessage `json:"data"`
}

type getDataRequest struct {
	SheetName string `json:"sheetName" validate:"required"`
}

type updateOrderRequest struct {
	Date         string `json:"date" validate:"required"`
	CustomerName string `json:"customerName" validate:"required"`
	Email        string `json:"email" validate:"required"`
	Service      string `json:"service" validate:"required"`
	Package      string `json:"package"`
	Description  string `json:"description"`
	Deadline     string `json:"deadline"`
	Status       string `json:"status"`
}

type updateCustomerRequest struct {
	CustomerID string `json:"customerId" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Email      string `json:"email" validate:"required"`
}

type getCustomerRequest struct {
	Phone string `json:"phone" validate:"required"`
}

// HandleSheets dispatches on operation. Unknown operations and schema
// violations return 400; persistence failures return a generic 500.
func (h *SheetsHandler) HandleSheets(c *fiber.Ctx) error {
	var req sheetsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid operation",
		})
	}

	switch req.Operation {
	case "getData":
		return h.handleGetData(c, req.Data)
	case "updateOrder":
		return h.handleUpdateOrder(c, req.Data)
	case "updateCustomer":
		return h.handleUpdateCustomer(c, req.Data)
	case "getCustomer":
		return h.handleGetCustomer(c, req.Data)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid operation",
		})
	}
}

// decode unmarshals and validates an operation schema.
func (h *SheetsHandler) decode(data json.RawMessage, dest interface{}) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return apperrors.NewValidationError("malformed operation data", err)
	}
	if err := h.validate.Struct(dest); err != nil {
		return apperrors.NewValidationError("operation data failed validation", err)
	}
	return nil
}

func invalidSchema(c *fiber.Ctx, err error) error {
	log.Printf("Invalid sheets request: %v", err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request data",
	})
}

func (h *SheetsHandler) handleGetData(c *fiber.Ctx, data json.RawMessage) error {
	var req getDataRequest
	if err := h.decode(data, &req); err != nil {
		return invalidSchema(c, err)
	}

	rows, err := h.store.GetSheetData(c.Context(), req.SheetName)
	if err != nil {
		log.Printf("Error getting data from %s: %v", req.SheetName, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get data from " + req.SheetName,
		})
	}

	return c.JSON(fiber.Map{"data": rows})
}

func (h *SheetsHandler) handleUpdateOrder(c *fiber.Ctx, data json.RawMessage) error {
	var req updateOrderRequest
	if err := h.decode(data, &req); err != nil {
		return invalidSchema(c, err)
	}

	order := &models.Order{
		Date:         req.Date,
		CustomerName: req.CustomerName,
		Email:        req.Email,
		Service:      req.Service,
		Package:      req.Package,
		Description:  req.Description,
		Deadline:     req.Deadline,
		Status:       req.Status,
	}
	if err := h.store.AppendOrder(c.Context(), order); err != nil {
		log.Printf("Error updating order: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update order",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *SheetsHandler) handleUpdateCustomer(c *fiber.Ctx, data json.RawMessage) error {
	var req updateCustomerRequest
	if err := h.decode(data, &req); err != nil {
		return invalidSchema(c, err)
	}

	customer := &models.Customer{
		ID:    req.CustomerID,
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	}
	id, created, err := h.store.UpsertCustomer(c.Context(), customer)
	if err != nil {
		log.Printf("Error updating customer: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update customer",
		})
	}

	if !created {
		return c.JSON(fiber.Map{
			"success":    true,
			"message":    "Customer already exists",
			"customerId": id,
		})
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"customerId": id,
	})
}

func (h *SheetsHandler) handleGetCustomer(c *fiber.Ctx, data json.RawMessage) error {
	var req getCustomerRequest
	if err := h.decode(data, &req); err != nil {
		return invalidSchema(c, err)
	}

	customer, err := h.store.GetCustomerByPhone(c.Context(), req.Phone)
	if err != nil {
		log.Printf("Error getting customer: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get customer",
		})
	}

	if customer == nil {
		return c.JSON(fiber.Map{"exists": false})
	}
	return c.JSON(fiber.Map{
		"exists":   true,
		"customer": customer,
	})
}

// HandleSheetsGet rejects GET probes with a method hint.
func HandleSheetsGet(c *fiber.Ctx) error {
	return c.Status(fiber.StatusMethodNotAllowed).JSON(fiber.Map{
		"error": "Use POST method for Sheets API operations",
	})
}
