package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/agrogb/agroledger/internal/domain/repository"
)

// consumption es una línea de consumo de stock derivada de una venta:
// Quantity unidades (positivas) a descontar de Product.
type consumption struct {
	Product  string
	Quantity decimal.Decimal
}

// expandSale resuelve el efecto de vender qty unidades de product, con
// expansión de receta de un solo nivel y cadena de fallback deliberada:
//
//  1. producto en catálogo con receta → consume los componentes hijos
//     (quantity_per_unit * qty cada uno) y NO descuenta el padre: un bien
//     compuesto no se stockea.
//  2. producto en catálogo sin receta → descuenta el producto mismo.
//  3. producto no registrado (nombre avulso) → descuenta el producto mismo.
//
// El registro en catálogo es opcional; el libro debe comportarse bien con
// nombres no registrados.
func expandSale(catalogRepo repository.CatalogRepository, product string, qty decimal.Decimal) ([]consumption, error) {
	prod, err := catalogRepo.GetByName(product)
	if err != nil {
		return nil, err
	}
	if prod != nil {
		edges, err := catalogRepo.RecipeEdges(prod.UUID)
		if err != nil {
			return nil, err
		}
		if len(edges) > 0 {
			out := make([]consumption, 0, len(edges))
			for _, e := range edges {
				if e.ChildName == "" {
					// arista colgante: el hijo ya no existe en catálogo
					continue
				}
				out = append(out, consumption{
					Product:  e.ChildName,
					Quantity: e.Quantity.Mul(qty),
				})
			}
			return out, nil
		}
	}
	return []consumption{{Product: product, Quantity: qty}}, nil
}
