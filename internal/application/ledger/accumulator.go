package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrogb/agroledger/internal/domain/repository"
	"github.com/agrogb/agroledger/internal/domain/stock"
)

// applyDelta aplica un delta firmado al snapshot del producto dentro de la
// transacción actual. Reglas, en este orden:
//
//  1. corte histórico: ocurrencia anterior a la fecha de corte → no-op.
//  2. lookup-or-create: sin fila previa, la cantidad inicial es max(0, delta).
//  3. acumulación con ajuste: newQty = max(0, current + delta). Si hubo
//     ajuste se reporta (el libro conserva la cantidad real; solo el
//     snapshot se recorta).
//  4. refresca last_updated.
//
// Devuelve true si la acumulación quedó ajustada a cero.
func (uc *LedgerUseCase) applyDelta(stockRepo repository.StockRepository, product string, delta decimal.Decimal, occurrence time.Time, now time.Time) (bool, error) {
	if stock.IsHistorical(occurrence, uc.cutover) {
		uc.log.Debug().
			Str("product", product).
			Str("date", occurrence.Format("2006-01-02")).
			Msg("registro histórico: snapshot inalterado")
		return false, nil
	}

	s, err := stockRepo.Get(product)
	if err != nil {
		return false, err
	}
	next, clamped := stock.Accumulate(s.Quantity, delta)
	if clamped {
		uc.log.Warn().
			Str("product", product).
			Str("current", s.Quantity.String()).
			Str("delta", delta.String()).
			Msg("stock insuficiente: snapshot ajustado a cero")
	}
	s.Quantity = next
	s.LastUpdated = now
	if err := stockRepo.Upsert(s); err != nil {
		return false, err
	}
	return clamped, nil
}
