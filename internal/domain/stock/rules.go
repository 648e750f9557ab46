// Package stock contiene las reglas puras de acumulación del snapshot,
// separadas de la persistencia para poder testearlas sin DB.
package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// Accumulate aplica un delta firmado a la cantidad actual con la regla de
// no-negativo: si la suma queda por debajo de cero se ajusta a cero.
// El segundo valor indica si hubo ajuste (condición reportable, no fatal:
// el libro registra la transacción completa, solo el snapshot se recorta).
func Accumulate(current, delta decimal.Decimal) (decimal.Decimal, bool) {
	next := current.Add(delta)
	if next.LessThan(decimal.Zero) {
		return decimal.Zero, true
	}
	return next, false
}

// IsHistorical indica si una fecha de ocurrencia cae antes del corte.
// Los registros históricos se guardan en el libro pero no perturban el
// snapshot vivo: permiten sembrar datos retroactivos sin corromper el stock.
func IsHistorical(occurrence, cutover time.Time) bool {
	if occurrence.IsZero() {
		return false
	}
	return occurrence.Before(cutover)
}
