package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agrogb/agroledger/internal/application/ledger"
	"github.com/agrogb/agroledger/internal/domain/repository"
)

// Ensure TxRunner implements ledger.TxRunner.
var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SQLite.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner construye el runner sobre la conexión local.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Registro del libro y actualización del snapshot quedan
// así atómicos aun ante un crash a mitad de comando.
func (r *TxRunner) Run(ctx context.Context, fn func(
	harvestRepo repository.HarvestRepository,
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
	disposalRepo repository.DisposalRepository,
	stockRepo repository.StockRepository,
	catalogRepo repository.CatalogRepository,
) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	harvestRepo := NewHarvestRepository(tx)
	saleRepo := NewSaleRepository(tx)
	purchaseRepo := NewPurchaseRepository(tx)
	disposalRepo := NewDisposalRepository(tx)
	stockRepo := NewStockRepository(tx)
	catalogRepo := NewCatalogRepository(tx)

	if err := fn(harvestRepo, saleRepo, purchaseRepo, disposalRepo, stockRepo, catalogRepo); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
