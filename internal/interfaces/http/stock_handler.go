package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/agrogb/agroledger/internal/application/dto"
	"github.com/agrogb/agroledger/internal/application/ledger"
	"github.com/agrogb/agroledger/internal/domain/entity"
)

// StockHandler expone el snapshot de stock (protegido, solo lectura:
// el snapshot solo cambia a través de los comandos del libro).
type StockHandler struct {
	uc *ledger.LedgerUseCase
}

func NewStockHandler(uc *ledger.LedgerUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// List devuelve el snapshot completo.
func (h *StockHandler) List(c *fiber.Ctx) error {
	stocks, err := h.uc.ListStock()
	if err != nil {
		return mapCommandError(c, err)
	}
	out := make([]dto.StockResponse, 0, len(stocks))
	for i := range stocks {
		out = append(out, toStockResponse(&stocks[i]))
	}
	return c.JSON(out)
}

// Get devuelve el snapshot de un producto. Producto sin fila devuelve
// cantidad cero, no 404: ausencia y cero son lo mismo para el lector.
func (h *StockHandler) Get(c *fiber.Ctx) error {
	s, err := h.uc.CurrentStock(c.Params("product"))
	if err != nil {
		return mapCommandError(c, err)
	}
	return c.JSON(toStockResponse(s))
}

func toStockResponse(s *entity.Stock) dto.StockResponse {
	var lastUpdated string
	if !s.LastUpdated.IsZero() {
		lastUpdated = entity.FormatTimestamp(s.LastUpdated)
	}
	return dto.StockResponse{
		Product:     s.Product,
		Quantity:    s.Quantity,
		Unit:        s.Unit,
		Kind:        s.Kind,
		LastUpdated: lastUpdated,
	}
}
