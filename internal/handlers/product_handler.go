package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"productsvc/internal/logging"
	"productsvc/internal/middleware"
	"productsvc/internal/models"
	"productsvc/internal/services"
	"productsvc/internal/telemetry"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts retrieves all products, newest first.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, bodyError(err))
	}

	product, err := h.service.CreateProduct(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces the fields of an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := models.ParseID(id); err != nil {
		return respondError(c, err)
	}

	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		return respondError(c, bodyError(err))
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// bodyError turns a request body decoding failure into a validation error.
func bodyError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return models.NewValidationError(typeErr.Field, fmt.Sprintf("%s must be a %s", typeErr.Field, jsonKind(typeErr.Type.Kind().String())))
	}
	if errors.Is(err, fiber.ErrUnprocessableEntity) {
		return models.NewValidationError("body", "request body must be application/json")
	}
	return models.NewValidationError("body", "request body must be valid JSON")
}

func jsonKind(kind string) string {
	switch kind {
	case "float64", "float32", "int", "int64":
		return "number"
	case "bool":
		return "boolean"
	default:
		return kind
	}
}

// respondError maps service errors to HTTP responses.
func respondError(c *fiber.Ctx, err error) error {
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &vErr):
		body := middleware.ErrorBody(c, vErr.Error())
		body["details"] = vErr.Fields
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.Is(err, models.ErrInvalidID):
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ID")
	case errors.Is(err, models.ErrNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "Product not found")
	default:
		logging.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("trace_id", telemetry.TraceID(c.UserContext())).
			Msg("product request failed")
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, err.Error())
	}
}
