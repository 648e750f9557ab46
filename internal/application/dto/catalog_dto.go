package dto

import "github.com/shopspring/decimal"

// ProductRequest alta/edición de un producto del catálogo.
type ProductRequest struct {
	Name             string          `json:"name" validate:"required"`
	Unit             string          `json:"unit"`
	Kind             string          `json:"kind"`
	Notes            string          `json:"notes"`
	Stockable        bool            `json:"stockable"`
	Sellable         bool            `json:"sellable"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	SalePrice        decimal.Decimal `json:"sale_price"`
}

// ProductResponse producto del catálogo.
type ProductResponse struct {
	UUID             string          `json:"uuid"`
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	Kind             string          `json:"kind"`
	Notes            string          `json:"notes,omitempty"`
	Stockable        bool            `json:"stockable"`
	Sellable         bool            `json:"sellable"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	SalePrice        decimal.Decimal `json:"sale_price"`
}

// RecipeEdgeRequest alta de una arista de receta padre→hijo.
type RecipeEdgeRequest struct {
	ParentUUID string          `json:"parent_uuid" validate:"required,uuid4"`
	ChildUUID  string          `json:"child_uuid" validate:"required,uuid4"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
}

// RecipeEdgeResponse arista de receta con el nombre del hijo resuelto.
type RecipeEdgeResponse struct {
	UUID       string          `json:"uuid"`
	ParentUUID string          `json:"parent_uuid"`
	ChildUUID  string          `json:"child_uuid"`
	ChildName  string          `json:"child_name"`
	Quantity   decimal.Decimal `json:"quantity"`
}
