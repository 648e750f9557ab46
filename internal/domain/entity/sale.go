package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa una venta. El efecto sobre el snapshot se resuelve vía
// receta: si el producto vendido tiene receta se descuentan sus componentes,
// si no se descuenta el producto mismo.
type Sale struct {
	ID int64
	SyncMeta
	Client   string
	Product  string
	Quantity decimal.Decimal
	Value    decimal.Decimal // valor monetario unitario de la venta
	Date     time.Time
	Notes    string
}
