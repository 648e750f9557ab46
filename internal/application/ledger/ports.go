package ledger

import (
	"context"

	"github.com/agrogb/agroledger/internal/domain/repository"
)

// TxRunner abstrae la transacción local. El callback recibe repos atados a la
// misma transacción: persistir el registro y actualizar el snapshot ocurren
// juntos o no ocurren (una aplicación parcial no debe ser observable ni tras
// un crash).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		harvestRepo repository.HarvestRepository,
		saleRepo repository.SaleRepository,
		purchaseRepo repository.PurchaseRepository,
		disposalRepo repository.DisposalRepository,
		stockRepo repository.StockRepository,
		catalogRepo repository.CatalogRepository,
	) error) error
}
