package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/agrogb/agroledger/internal/application/dto"
	"github.com/agrogb/agroledger/internal/application/ledger"
	"github.com/agrogb/agroledger/internal/domain"
	"github.com/agrogb/agroledger/internal/domain/entity"
	"github.com/agrogb/agroledger/pkg/metrics"
	"github.com/agrogb/agroledger/pkg/validator"
)

// LedgerHandler maneja los comandos y consultas del libro (protegido).
// El path param :kind es el nombre de tabla: harvests, sales, purchases o
// disposals.
type LedgerHandler struct {
	uc *ledger.LedgerUseCase
}

func NewLedgerHandler(uc *ledger.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{uc: uc}
}

// Submit registra una transacción nueva del tipo :kind.
func (h *LedgerHandler) Submit(c *fiber.Ctx) error {
	kind := c.Params("kind")
	res, err := h.runCommand(c, kind, "")
	if err != nil {
		return mapCommandError(c, err)
	}
	metrics.TransactionsTotal.WithLabelValues(kind, "record").Inc()
	metrics.StockClampsTotal.Add(float64(len(res.Clamped)))
	return c.Status(fiber.StatusCreated).JSON(commandResponse(res))
}

// Amend corrige la transacción :uuid del tipo :kind (reversión-y-reaplicación).
func (h *LedgerHandler) Amend(c *fiber.Ctx) error {
	kind := c.Params("kind")
	res, err := h.runCommand(c, kind, c.Params("uuid"))
	if err != nil {
		return mapCommandError(c, err)
	}
	metrics.TransactionsTotal.WithLabelValues(kind, "amend").Inc()
	metrics.StockClampsTotal.Add(float64(len(res.Clamped)))
	return c.JSON(commandResponse(res))
}

// Remove elimina la transacción :uuid del tipo :kind revirtiendo su efecto.
func (h *LedgerHandler) Remove(c *fiber.Ctx) error {
	kind := c.Params("kind")
	var (
		res *ledger.CommandResult
		err error
	)
	switch kind {
	case "harvests":
		res, err = h.uc.RemoveHarvest(c.Context(), c.Params("uuid"))
	case "sales":
		res, err = h.uc.RemoveSale(c.Context(), c.Params("uuid"))
	case "purchases":
		res, err = h.uc.RemovePurchase(c.Context(), c.Params("uuid"))
	case "disposals":
		res, err = h.uc.RemoveDisposal(c.Context(), c.Params("uuid"))
	default:
		err = domain.ErrUnknownKind
	}
	if err != nil {
		return mapCommandError(c, err)
	}
	metrics.TransactionsTotal.WithLabelValues(kind, "remove").Inc()
	metrics.StockClampsTotal.Add(float64(len(res.Clamped)))
	return c.JSON(commandResponse(res))
}

// Recent lista las transacciones más recientes del tipo :kind (?limit=N).
func (h *LedgerHandler) Recent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit")
	switch c.Params("kind") {
	case "harvests":
		out, err := h.uc.RecentHarvests(limit)
		if err != nil {
			return mapCommandError(c, err)
		}
		return c.JSON(out)
	case "sales":
		out, err := h.uc.RecentSales(limit)
		if err != nil {
			return mapCommandError(c, err)
		}
		return c.JSON(out)
	case "purchases":
		out, err := h.uc.RecentPurchases(limit)
		if err != nil {
			return mapCommandError(c, err)
		}
		return c.JSON(out)
	case "disposals":
		out, err := h.uc.RecentDisposals(limit)
		if err != nil {
			return mapCommandError(c, err)
		}
		return c.JSON(out)
	default:
		return mapCommandError(c, domain.ErrUnknownKind)
	}
}

// runCommand parsea el body según :kind y despacha al comando de registro
// (uuid vacío) o de corrección.
func (h *LedgerHandler) runCommand(c *fiber.Ctx, kind, uuid string) (*ledger.CommandResult, error) {
	switch kind {
	case "harvests":
		var in dto.HarvestRequest
		date, err := parseBody(c, &in, &in.Date)
		if err != nil {
			return nil, err
		}
		cmd := ledger.HarvestInput{
			Culture: in.Culture, Product: in.Product, Quantity: in.Quantity,
			Frozen: in.Frozen, Date: date, Notes: in.Notes,
		}
		if uuid == "" {
			return h.uc.SubmitHarvest(c.Context(), cmd)
		}
		return h.uc.AmendHarvest(c.Context(), uuid, cmd)
	case "sales":
		var in dto.SaleRequest
		date, err := parseBody(c, &in, &in.Date)
		if err != nil {
			return nil, err
		}
		cmd := ledger.SaleInput{
			Client: in.Client, Product: in.Product, Quantity: in.Quantity,
			Value: in.Value, Date: date, Notes: in.Notes,
		}
		if uuid == "" {
			return h.uc.SubmitSale(c.Context(), cmd)
		}
		return h.uc.AmendSale(c.Context(), uuid, cmd)
	case "purchases":
		var in dto.PurchaseRequest
		date, err := parseBody(c, &in, &in.Date)
		if err != nil {
			return nil, err
		}
		cmd := ledger.PurchaseInput{
			Item: in.Item, Quantity: in.Quantity, Value: in.Value,
			Culture: in.Culture, Date: date, Notes: in.Notes, Details: in.Details,
		}
		if uuid == "" {
			return h.uc.SubmitPurchase(c.Context(), cmd)
		}
		return h.uc.AmendPurchase(c.Context(), uuid, cmd)
	case "disposals":
		var in dto.DisposalRequest
		date, err := parseBody(c, &in, &in.Date)
		if err != nil {
			return nil, err
		}
		cmd := ledger.DisposalInput{
			Product: in.Product, Quantity: in.Quantity, Reason: in.Reason, Date: date,
		}
		if uuid == "" {
			return h.uc.SubmitDisposal(c.Context(), cmd)
		}
		return h.uc.AmendDisposal(c.Context(), uuid, cmd)
	default:
		return nil, domain.ErrUnknownKind
	}
}

// parseBody parsea y valida el body, y convierte la fecha "YYYY-MM-DD".
func parseBody(c *fiber.Ctx, in any, dateField *string) (time.Time, error) {
	if err := c.BodyParser(in); err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	if err := validator.Struct(in); err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	date, err := time.Parse(entity.DateLayout, *dateField)
	if err != nil {
		return time.Time{}, domain.ErrInvalidInput
	}
	return date, nil
}

func commandResponse(res *ledger.CommandResult) dto.CommandResponse {
	return dto.CommandResponse{UUID: res.UUID, ClampedProducts: res.Clamped}
}

func mapCommandError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrUnknownKind):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_KIND", Message: "tipo de transacción desconocido"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "registro no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "registro duplicado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
