package dto

import "github.com/shopspring/decimal"

// Requests del libro. Las fechas viajan como "YYYY-MM-DD" (fecha de
// ocurrencia, no de registro) y las cantidades como números decimales.

// HarvestRequest registro/corrección de colheita.
type HarvestRequest struct {
	Culture  string          `json:"culture"`
	Product  string          `json:"product" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
	Frozen   decimal.Decimal `json:"frozen"`
	Date     string          `json:"date" validate:"required,datetime=2006-01-02"`
	Notes    string          `json:"notes"`
}

// SaleRequest registro/corrección de venta.
type SaleRequest struct {
	Client   string          `json:"client"`
	Product  string          `json:"product" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
	Value    decimal.Decimal `json:"value"`
	Date     string          `json:"date" validate:"required,datetime=2006-01-02"`
	Notes    string          `json:"notes"`
}

// PurchaseRequest registro/corrección de compra.
type PurchaseRequest struct {
	Item     string          `json:"item" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
	Value    decimal.Decimal `json:"value"`
	Culture  string          `json:"culture"`
	Date     string          `json:"date" validate:"required,datetime=2006-01-02"`
	Notes    string          `json:"notes"`
	Details  string          `json:"details"`
}

// DisposalRequest registro/corrección de descarte.
type DisposalRequest struct {
	Product  string          `json:"product" validate:"required"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
	Reason   string          `json:"reason"`
	Date     string          `json:"date" validate:"required,datetime=2006-01-02"`
}

// CommandResponse respuesta de un comando del libro. ClampedProducts lista
// los productos cuyo snapshot quedó ajustado a cero (advertencia).
type CommandResponse struct {
	UUID            string   `json:"uuid"`
	ClampedProducts []string `json:"clamped_products,omitempty"`
}

// StockResponse fila del snapshot de stock.
type StockResponse struct {
	Product     string          `json:"product"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit,omitempty"`
	Kind        string          `json:"kind,omitempty"`
	LastUpdated string          `json:"last_updated"`
}
