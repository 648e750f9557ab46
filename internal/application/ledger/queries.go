package ledger

import (
	"github.com/agrogb/agroledger/internal/domain"
	"github.com/agrogb/agroledger/internal/domain/entity"
)

// defaultRecentLimit registros recientes por tabla cuando no se pide otro.
const defaultRecentLimit = 50

// CurrentStock devuelve el snapshot de un producto. Sin fila previa devuelve
// una fila en cero: ausencia y cero son indistinguibles para el lector.
func (uc *LedgerUseCase) CurrentStock(product string) (*entity.Stock, error) {
	name := domain.NormalizeName(product)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.stockRepo.Get(name)
}

// ListStock lista el snapshot completo ordenado por producto.
func (uc *LedgerUseCase) ListStock() ([]entity.Stock, error) {
	return uc.stockRepo.List()
}

// RecentHarvests lista las colheitas más recientes (por fecha de ocurrencia).
func (uc *LedgerUseCase) RecentHarvests(limit int) ([]entity.Harvest, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return uc.harvestRepo.Recent(limit)
}

// RecentSales lista las ventas más recientes.
func (uc *LedgerUseCase) RecentSales(limit int) ([]entity.Sale, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return uc.saleRepo.Recent(limit)
}

// RecentPurchases lista las compras más recientes.
func (uc *LedgerUseCase) RecentPurchases(limit int) ([]entity.Purchase, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return uc.purchaseRepo.Recent(limit)
}

// RecentDisposals lista los descartes más recientes.
func (uc *LedgerUseCase) RecentDisposals(limit int) ([]entity.Disposal, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return uc.disposalRepo.Recent(limit)
}
