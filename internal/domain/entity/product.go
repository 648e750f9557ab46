package entity

import "github.com/shopspring/decimal"

// Product es una entrada del catálogo (cadastro). El registro en catálogo es
// opcional: el libro acepta nombres avulsos y los trata como stock directo.
type Product struct {
	ID int64
	SyncMeta
	Name             string
	Unit             string // KG, UN, L, CX…
	Kind             string // PRODUTO, INSUMO, DEFENSIVO…
	Notes            string
	Stockable        bool
	Sellable         bool
	ConversionFactor decimal.Decimal
	SalePrice        decimal.Decimal
}
