package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrogb/agroledger/internal/domain"
	"github.com/agrogb/agroledger/internal/domain/entity"
	"github.com/agrogb/agroledger/internal/domain/repository"
	"github.com/agrogb/agroledger/pkg/logger"
)

// LedgerUseCase implementa los comandos del libro (registrar, corregir y
// eliminar colheitas, ventas, compras y descartes) de forma transaccional:
// el registro y su efecto sobre el snapshot de stock se aplican en una sola
// transacción local, con dirty=1 y last_updated fresco para el push posterior.
//
// Corregir/eliminar usa reversión-y-reaplicación: primero se niega el efecto
// original del registro (con su fecha de ocurrencia original) y después se
// calcula y aplica el efecto nuevo. Nunca un diff directo.
type LedgerUseCase struct {
	txRunner     TxRunner
	harvestRepo  repository.HarvestRepository
	saleRepo     repository.SaleRepository
	purchaseRepo repository.PurchaseRepository
	disposalRepo repository.DisposalRepository
	stockRepo    repository.StockRepository
	catalogRepo  repository.CatalogRepository
	cutover      time.Time
	log          *logger.Logger
}

// NewLedgerUseCase construye el caso de uso. Los repos sueltos se usan para
// lecturas; toda mutación pasa por el txRunner.
func NewLedgerUseCase(
	txRunner TxRunner,
	harvestRepo repository.HarvestRepository,
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
	disposalRepo repository.DisposalRepository,
	stockRepo repository.StockRepository,
	catalogRepo repository.CatalogRepository,
	cutover time.Time,
	log *logger.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:     txRunner,
		harvestRepo:  harvestRepo,
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
		disposalRepo: disposalRepo,
		stockRepo:    stockRepo,
		catalogRepo:  catalogRepo,
		cutover:      cutover,
		log:          log,
	}
}

// HarvestInput entrada para registrar/corregir una colheita.
type HarvestInput struct {
	Culture  string
	Product  string
	Quantity decimal.Decimal
	Frozen   decimal.Decimal
	Date     time.Time
	Notes    string
}

// SaleInput entrada para registrar/corregir una venta.
type SaleInput struct {
	Client   string
	Product  string
	Quantity decimal.Decimal
	Value    decimal.Decimal
	Date     time.Time
	Notes    string
}

// PurchaseInput entrada para registrar/corregir una compra.
type PurchaseInput struct {
	Item     string
	Quantity decimal.Decimal
	Value    decimal.Decimal
	Culture  string
	Date     time.Time
	Notes    string
	Details  string
}

// DisposalInput entrada para registrar/corregir un descarte.
type DisposalInput struct {
	Product  string
	Quantity decimal.Decimal
	Reason   string
	Date     time.Time
}

// CommandResult resultado de un comando del libro. Clamped lista los
// productos cuyo snapshot quedó ajustado a cero durante el comando
// (advertencia para el usuario, no error: la transacción se registró entera).
type CommandResult struct {
	UUID    string
	Clamped []string
}

func (r *CommandResult) addClamp(product string, clamped bool) {
	if clamped {
		r.Clamped = append(r.Clamped, product)
	}
}

// ── Colheitas ─────────────────────────────────────────────────────────────────

// SubmitHarvest registra una colheita y suma la cantidad al snapshot.
func (uc *LedgerUseCase) SubmitHarvest(ctx context.Context, in HarvestInput) (*CommandResult, error) {
	if in.Product == "" || !in.Quantity.GreaterThan(decimal.Zero) || in.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	res := &CommandResult{UUID: uuid.New().String()}

	err := uc.txRunner.Run(ctx, func(
		harvestRepo repository.HarvestRepository,
		_ repository.SaleRepository,
		_ repository.PurchaseRepository,
		_ repository.DisposalRepository,
		stockRepo repository.StockRepository,
		_ repository.CatalogRepository,
	) error {
		h := &entity.Harvest{
			SyncMeta: entity.SyncMeta{UUID: res.UUID, LastUpdated: now, Dirty: true},
			Culture:  domain.NormalizeName(in.Culture),
			Product:  domain.NormalizeName(in.Product),
			Quantity: in.Quantity,
			Frozen:   in.Frozen,
			Date:     in.Date,
			Notes:    domain.NormalizeName(in.Notes),
		}
		if err := harvestRepo.Create(h); err != nil {
			return err
		}
		clamped, err := uc.applyDelta(stockRepo, h.Product, h.Quantity, h.Date, now)
		res.addClamp(h.Product, clamped)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// AmendHarvest corrige una colheita: revierte el efecto original (con la
// fecha original) y aplica el nuevo.
func (uc *LedgerUseCase) AmendHarvest(ctx context.Context, recordUUID string, in HarvestInput) (*CommandResult, error) {
	if in.Product == "" || !in.Quantity.GreaterThan(decimal.Zero) || in.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	res := &CommandResult{UUID: recordUUID}

	err := uc.txRunner.Run(ctx, func(
		harvestRepo repository.HarvestRepository,
		_ repository.SaleRepository,
		_ repository.PurchaseRepository,
		_ repository.DisposalRepository,
		stockRepo repository.StockRepository,
		_ repository.CatalogRepository,
	) error {
		old, err := harvestRepo.GetByUUID(recordUUID)
		if err != nil {
			return err
		}
		clamped, err := uc.applyDelta(stockRepo, old.Product, old.Quantity.Neg(), old.Date, now)
		if err != nil {
			return err
		}
		res.addClamp(old.Product, clamped)

		old.Culture = domain.NormalizeName(in.Culture)
		old.Product = domain.NormalizeName(in.Product)
		old.Quantity = in.Quantity
		old.Frozen = in.Frozen
		old.Date = in.Date
		old.Notes = domain.NormalizeName(in.Notes)
		old.LastUpdated = now
		old.Dirty = true
		if err := harvestRepo.Update(old); err != nil {
			return err
		}
		clamped, err = uc.applyDelta(stockRepo, old.Product, old.Quantity, old.Date, now)
		res.addClamp(old.Product, clamped)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// RemoveHarvest elimina una colheita revirtiendo antes su efecto.
func (uc *LedgerUseCase) RemoveHarvest(ctx context.Context, recordUUID string) (*CommandResult, error) {
	now := time.Now()
	res := &CommandResult{UUID: recordUUID}

	err := uc.txRunner.Run(ctx, func(
		harvestRepo repository.HarvestRepository,
		_ repository.SaleRepository,
		_ repository.PurchaseRepository,
		_ repository.DisposalRepository,
		stockRepo repository.StockRepository,
		_ repository.CatalogRepository,
	) error {
		old, err := harvestRepo.GetByUUID(recordUUID)
		if err != nil {
			return err
		}
		clamped, err := uc.applyDelta(stockRepo, old.Product, old.Quantity.Neg(), old.Date, now)
		if err != nil {
			return err
		}
		res.addClamp(old.Product, clamped)
		return harvestRepo.Delete(recordUUID)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ── Ventas ────────────────────────────────────────────────────────────────────

// SubmitSale registra una venta y descuenta stock vía expansión de receta:
// componentes si el producto tiene receta, el producto mismo si no.
func (uc *LedgerUseCase) SubmitSale(ctx context.Context, in SaleInput) (*CommandResult, error) {
	if in.Product == "" || !in.Quantity.GreaterThan(decimal.Zero) || in.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if in.Value.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	res := &CommandResult{UUID: uuid.New().String()}

	err := uc.txRunner.Run(ctx, func(
		_ repository.HarvestRepository,
		saleRepo repository.SaleRepository,
		_ repository.PurchaseRepository,
		_ repository.DisposalRepository,
		stockRepo repository.StockRepository,
		catalogRepo repository.CatalogRepository,
	) error {
		s := &entity.Sale{
			SyncMeta: entity.SyncMeta{UUID: res.UUID, LastUpdated: now, Dirty: true},
			Client:   domain.NormalizeName(in.Client),
			Product:  domain.NormalizeName(in.Product),
			Quantity: in.Quantity,
			Value:    in.Value,
			Date:     in.Date,
			Notes:    domain.NormalizeName(in.Notes),
		}
		if err := saleRepo.Create(s); err != nil {
			return err
		}
		return uc.applySaleEffect(catalogRepo, stockRepo, s.Product, s.Quantity, s.Date, now, decimal.NewFromInt(-1), res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// AmendSale corrige una venta: devuelve al stock el efecto expandido original
// y descuenta el nuevo.
func (uc *LedgerUseCase) AmendSale(ctx context.Context, recordUUID string, in SaleInput) (*CommandResult, error) {
	if in.Product == "" || !in.Quantity.GreaterThan(decimal.Zero) || in.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if in.Value.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	res := &CommandResult{UUID: recordUUID}

	err := uc.txRunner.Run(ctx, func(
		_ repository.HarvestRepository,
		saleRepo repository.SaleRepository,
		_ repository.PurchaseRepository,
		_ repository.DisposalRepository,
		stockRepo repository.StockRepository,
		catalogRepo repository.CatalogRepository,
	) error {
		old, err := saleRepo.GetByUUID(recordUUID)
		if err != nil {
			return err
		}
		// Reversión: +1 (devuelve al stock) con la fecha original
		if err := uc.applySaleEffect(catalogRepo, stockRepo, old.Product, old.Quantity, old.Date, now, decimal.NewFromInt(1), res); err != nil {
			return err
		}

		old.Client = domain.NormalizeName(in.Client)
		old.Product = domain.NormalizeName(in.Product)
		old.Quantity = in.Quantity
		old.Value = in.Value
		old.Date = in.Date
		old.Notes = domain.NormalizeName(in.Notes)
		old.LastUpdated = now
		old.Dirty = true
		if err := saleRepo.Update(old); err != nil {
			return err
		}
		return uc.applySaleEffect(catalogRepo, stockRepo, old.Product, old.Quantity, old.Date, now, decimal.NewFromInt(-1), res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// RemoveSale elimina una venta devolviendo antes su efecto expandido al stock.
func (uc *LedgerUseCase) RemoveSale(ctx context.Context, recordUUID string) (*CommandResult, error) {
	now := time.Now()
	res := &CommandResult{UUID: recordUUID}

	err := uc.txRunner.Run(ctx, func(
		_ repository.HarvestRepository,
		saleRepo repository.SaleRepository,
		_ repository.PurchaseRepository,
		_ repository.DisposalRepository,
		stockRepo repository.StockRepository,
		catalogRepo repository.CatalogRepository,
	) error {
		old, err := saleRepo.GetByUUID(recordUUID)
		if err != nil {
			return err
		}
		if err := uc.applySaleEffect(catalogRepo, stockRepo, old.Product, old.Quantity, old.Date, now, decimal.NewFromInt(1), res); err != nil {
			return err
		}
		return saleRepo.Delete(recordUUID)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// applySaleEffect expande la venta y aplica cada línea multiplicada por sign
// (-1 venta, +1 reversión). La reversión re-expande con la receta vigente:
// si la receta cambió desde la venta original la reversión es aproximada
// (riesgo asumido, igual que el ajuste a cero).
func (uc *LedgerUseCase) applySaleEffect(
	catalogRepo repository.CatalogRepository,
	stockRepo repository.StockRepository,
	product string,
	qty decimal.Decimal,
	occurrence time.Time,
	now time.Time,
	sign decimal.Decimal,
	res *CommandResult,
) error {
	lines, err := expandSale(catalogRepo, product, qty)
	if err != nil {
		return err
	}
	for _, line := range lines {
		clamped, err := uc.applyDelta(stockRepo, line.Product, line.Quantity.Mul(sign), occurrence, now)
		if err != nil {
			return err
		}
		res.addClamp(line.Product, clamped)
	}
	return nil
}

// ── Compras ───────────────────────────────────────────────────────────────────

// SubmitPurchase registra una compra y suma el item al snapshot.
func (uc *LedgerUseCase) SubmitPurchase(ctx context.Context, in PurchaseInput) (*CommandResult, error) {
	if in.Item == "" || !in.Quantity.GreaterThan(decimal.Zero) || in.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if in.Value.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	res := &CommandResult{UUID: uuid.New().String()}

	err := uc.txRunner.Run(ctx, func(
		_ repository.HarvestRepository,
		_ repository.SaleRepository,
		purchaseRepo repository.PurchaseRepository,
		_ repository.DisposalRepository,
		stockRepo repository.StockRepository,
		_ repository.CatalogRepository,
	) error {
		p := &entity.Purchase{
			SyncMeta: entity.SyncMeta{UUID: res.UUID, LastUpdated: now, Dirty: true},
			Item:     domain.NormalizeName(in.Item),
			Quantity: in.Quantity,
			Value:    in.Value,
			Culture:  domain.NormalizeName(in.Culture),
			Date:     in.Date,
			Notes:    domain.NormalizeName(in.Notes),
			Details:  domain.NormalizeName(in.Details),
		}
		if err := purchaseRepo.Create(p); err != nil {
			return err
		}
		clamped, err := uc.applyDelta(stockRepo, p.Item, p.Quantity, p.Date, now)
		res.addClamp(p.Item, clamped)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// AmendPurchase corrige una compra con reversión-y-reaplicación.
func (uc *LedgerUseCase) AmendPurchase(ctx context.Context, recordUUID string, in PurchaseInput) (*CommandResult, error) {
	if in.Item == "" || !in.Quantity.GreaterThan(decimal.Zero) || in.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if in.Value.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	res := &CommandResult{UUID: recordUUID}

	err := uc.txRunner.Run(ctx, func(
		_ repository.HarvestRepository,
		_ repository.SaleRepository,
		purchaseRepo repository.PurchaseRepository,
		_ repository.DisposalRepository,
		stockRepo repository.StockRepository,
		_ repository.CatalogRepository,
	) error {
		old, err := purchaseRepo.GetByUUID(recordUUID)
		if err != nil {
			return err
		}
		clamped, err := uc.applyDelta(stockRepo, old.Item, old.Quantity.Neg(), old.Date, now)
		if err != nil {
			return err
		}
		res.addClamp(old.Item, clamped)

		old.Item = domain.NormalizeName(in.Item)
		old.Quantity = in.Quantity
		old.Value = in.Value
		old.Culture = domain.NormalizeName(in.Culture)
		old.Date = in.Date
		old.Notes = domain.NormalizeName(in.Notes)
		old.Details = domain.NormalizeName(in.Details)
		old.LastUpdated = now
		old.Dirty = true
		if err := purchaseRepo.Update(old); err != nil {
			return err
		}
		clamped, err = uc.applyDelta(stockRepo, old.Item, old.Quantity, old.Date, now)
		res.addClamp(old.Item, clamped)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// RemovePurchase elimina una compra revirtiendo antes su efecto.
func (uc *LedgerUseCase) RemovePurchase(ctx context.Context, recordUUID string) (*CommandResult, error) {
	now := time.Now()
	res := &CommandResult{UUID: recordUUID}

	err := uc.txRunner.Run(ctx, func(
		_ repository.HarvestRepository,
		_ repository.SaleRepository,
		purchaseRepo repository.PurchaseRepository,
		_ repository.DisposalRepository,
		stockRepo repository.StockRepository,
		_ repository.CatalogRepository,
	) error {
		old, err := purchaseRepo.GetByUUID(recordUUID)
		if err != nil {
			return err
		}
		clamped, err := uc.applyDelta(stockRepo, old.Item, old.Quantity.Neg(), old.Date, now)
		if err != nil {
			return err
		}
		res.addClamp(old.Item, clamped)
		return purchaseRepo.Delete(recordUUID)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ── Descartes ─────────────────────────────────────────────────────────────────

// SubmitDisposal registra un descarte y descuenta la cantidad del snapshot.
func (uc *LedgerUseCase) SubmitDisposal(ctx context.Context, in DisposalInput) (*CommandResult, error) {
	if in.Product == "" || !in.Quantity.GreaterThan(decimal.Zero) || in.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	res := &CommandResult{UUID: uuid.New().String()}

	err := uc.txRunner.Run(ctx, func(
		_ repository.HarvestRepository,
		_ repository.SaleRepository,
		_ repository.PurchaseRepository,
		disposalRepo repository.DisposalRepository,
		stockRepo repository.StockRepository,
		_ repository.CatalogRepository,
	) error {
		d := &entity.Disposal{
			SyncMeta: entity.SyncMeta{UUID: res.UUID, LastUpdated: now, Dirty: true},
			Product:  domain.NormalizeName(in.Product),
			Quantity: in.Quantity,
			Reason:   domain.NormalizeName(in.Reason),
			Date:     in.Date,
		}
		if err := disposalRepo.Create(d); err != nil {
			return err
		}
		clamped, err := uc.applyDelta(stockRepo, d.Product, d.Quantity.Neg(), d.Date, now)
		res.addClamp(d.Product, clamped)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// AmendDisposal corrige un descarte con reversión-y-reaplicación.
func (uc *LedgerUseCase) AmendDisposal(ctx context.Context, recordUUID string, in DisposalInput) (*CommandResult, error) {
	if in.Product == "" || !in.Quantity.GreaterThan(decimal.Zero) || in.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	res := &CommandResult{UUID: recordUUID}

	err := uc.txRunner.Run(ctx, func(
		_ repository.HarvestRepository,
		_ repository.SaleRepository,
		_ repository.PurchaseRepository,
		disposalRepo repository.DisposalRepository,
		stockRepo repository.StockRepository,
		_ repository.CatalogRepository,
	) error {
		old, err := disposalRepo.GetByUUID(recordUUID)
		if err != nil {
			return err
		}
		// El efecto original fue -Quantity; la reversión lo devuelve.
		clamped, err := uc.applyDelta(stockRepo, old.Product, old.Quantity, old.Date, now)
		if err != nil {
			return err
		}
		res.addClamp(old.Product, clamped)

		old.Product = domain.NormalizeName(in.Product)
		old.Quantity = in.Quantity
		old.Reason = domain.NormalizeName(in.Reason)
		old.Date = in.Date
		old.LastUpdated = now
		old.Dirty = true
		if err := disposalRepo.Update(old); err != nil {
			return err
		}
		clamped, err = uc.applyDelta(stockRepo, old.Product, old.Quantity.Neg(), old.Date, now)
		res.addClamp(old.Product, clamped)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// RemoveDisposal elimina un descarte devolviendo antes la cantidad al stock.
func (uc *LedgerUseCase) RemoveDisposal(ctx context.Context, recordUUID string) (*CommandResult, error) {
	now := time.Now()
	res := &CommandResult{UUID: recordUUID}

	err := uc.txRunner.Run(ctx, func(
		_ repository.HarvestRepository,
		_ repository.SaleRepository,
		_ repository.PurchaseRepository,
		disposalRepo repository.DisposalRepository,
		stockRepo repository.StockRepository,
		_ repository.CatalogRepository,
	) error {
		old, err := disposalRepo.GetByUUID(recordUUID)
		if err != nil {
			return err
		}
		clamped, err := uc.applyDelta(stockRepo, old.Product, old.Quantity, old.Date, now)
		if err != nil {
			return err
		}
		res.addClamp(old.Product, clamped)
		return disposalRepo.Delete(recordUUID)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
