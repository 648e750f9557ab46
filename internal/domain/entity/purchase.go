package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase representa una compra de insumo: entrada de stock del item comprado.
type Purchase struct {
	ID int64
	SyncMeta
	Item     string
	Quantity decimal.Decimal
	Value    decimal.Decimal // valor monetario total de la compra
	Culture  string          // cultura a la que se imputa (opcional)
	Date     time.Time
	Notes    string
	Details  string
}
