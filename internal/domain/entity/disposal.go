package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Disposal representa un descarte: salida de stock por pérdida o desecho.
type Disposal struct {
	ID int64
	SyncMeta
	Product  string
	Quantity decimal.Decimal // kg descartados, siempre positiva
	Reason   string
	Date     time.Time
}
