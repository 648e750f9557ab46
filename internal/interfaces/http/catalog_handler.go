package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrogb/agroledger/internal/application/catalog"
	"github.com/agrogb/agroledger/internal/application/dto"
	"github.com/agrogb/agroledger/internal/domain/entity"
	"github.com/agrogb/agroledger/pkg/validator"
)

// CatalogHandler maneja el catálogo de productos y sus recetas (protegido).
type CatalogHandler struct {
	uc *catalog.CatalogUseCase
}

func NewCatalogHandler(uc *catalog.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// Create registra un producto nuevo en el catálogo.
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	p, err := h.uc.CreateProduct(toProductInput(in))
	if err != nil {
		return mapCommandError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProductResponse(p))
}

// Update edita un producto existente.
func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	p, err := h.uc.UpdateProduct(c.Params("uuid"), toProductInput(in))
	if err != nil {
		return mapCommandError(c, err)
	}
	return c.JSON(toProductResponse(p))
}

// Get devuelve un producto por uuid.
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	p, err := h.uc.GetProduct(c.Params("uuid"))
	if err != nil {
		return mapCommandError(c, err)
	}
	return c.JSON(toProductResponse(p))
}

// List devuelve el catálogo completo.
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	products, err := h.uc.ListProducts()
	if err != nil {
		return mapCommandError(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, toProductResponse(&products[i]))
	}
	return c.JSON(out)
}

// AddRecipeEdge agrega una arista de receta padre→hijo.
func (h *CatalogHandler) AddRecipeEdge(c *fiber.Ctx) error {
	var in dto.RecipeEdgeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	e, err := h.uc.AddRecipeEdge(catalog.RecipeEdgeInput{
		ParentUUID: in.ParentUUID,
		ChildUUID:  in.ChildUUID,
		Quantity:   in.Quantity,
	})
	if err != nil {
		return mapCommandError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toRecipeEdgeResponse(e))
}

// ListRecipeEdges lista las aristas de receta del producto :uuid.
func (h *CatalogHandler) ListRecipeEdges(c *fiber.Ctx) error {
	edges, err := h.uc.RecipeEdges(c.Params("uuid"))
	if err != nil {
		return mapCommandError(c, err)
	}
	out := make([]dto.RecipeEdgeResponse, 0, len(edges))
	for i := range edges {
		out = append(out, toRecipeEdgeResponse(&edges[i]))
	}
	return c.JSON(out)
}

// DeleteRecipeEdge elimina una arista de receta por uuid.
func (h *CatalogHandler) DeleteRecipeEdge(c *fiber.Ctx) error {
	if err := h.uc.DeleteRecipeEdge(c.Params("uuid")); err != nil {
		return mapCommandError(c, err)
	}
	return c.JSON(fiber.Map{"message": "arista eliminada"})
}

func toProductInput(in dto.ProductRequest) catalog.ProductInput {
	return catalog.ProductInput{
		Name:             in.Name,
		Unit:             in.Unit,
		Kind:             in.Kind,
		Notes:            in.Notes,
		Stockable:        in.Stockable,
		Sellable:         in.Sellable,
		ConversionFactor: in.ConversionFactor,
		SalePrice:        in.SalePrice,
	}
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		UUID:             p.UUID,
		Name:             p.Name,
		Unit:             p.Unit,
		Kind:             p.Kind,
		Notes:            p.Notes,
		Stockable:        p.Stockable,
		Sellable:         p.Sellable,
		ConversionFactor: p.ConversionFactor,
		SalePrice:        p.SalePrice,
	}
}

func toRecipeEdgeResponse(e *entity.RecipeEdge) dto.RecipeEdgeResponse {
	return dto.RecipeEdgeResponse{
		UUID:       e.UUID,
		ParentUUID: e.ParentUUID,
		ChildUUID:  e.ChildUUID,
		ChildName:  e.ChildName,
		Quantity:   e.Quantity,
	}
}
