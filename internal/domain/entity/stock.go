package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock es el snapshot derivado de cantidad actual por producto: una vista
// materializada sobre el libro, no una fuente de verdad. Invariante:
// Quantity >= 0 siempre (los saldos negativos se ajustan a cero).
// Es local a cada dispositivo y no se sincroniza.
type Stock struct {
	Product     string
	Quantity    decimal.Decimal
	LastUpdated time.Time

	// Datos del catálogo cargados por JOIN para listados (pueden ir vacíos).
	Unit string
	Kind string
}
