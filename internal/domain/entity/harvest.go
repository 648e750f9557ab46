package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Harvest representa una colheita: entrada de producto al stock.
// Quantity siempre positiva; el efecto sobre el snapshot es +Quantity.
type Harvest struct {
	ID      int64 // id local autoincremental; nunca viaja al remoto
	SyncMeta
	Culture  string
	Product  string
	Quantity decimal.Decimal
	Frozen   decimal.Decimal // kg congelados dentro de la cantidad
	Date     time.Time       // fecha de ocurrencia (solo día)
	Notes    string
}
