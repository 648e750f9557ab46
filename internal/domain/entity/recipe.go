package entity

import "github.com/shopspring/decimal"

// RecipeEdge es una arista de la lista de materiales (BOM): vender una unidad
// del producto padre consume Quantity unidades del item hijo. Un producto con
// aristas es un bien compuesto y no se stockea él mismo al vender.
// La expansión es de un solo nivel: no hay recursión de recetas.
type RecipeEdge struct {
	ID int64
	SyncMeta
	ParentUUID string
	ChildUUID  string
	Quantity   decimal.Decimal // unidades del hijo por unidad del padre

	// ChildName se carga por JOIN con el catálogo para evitar una segunda
	// consulta al expandir; no es columna propia de la tabla recipes.
	ChildName string
}
