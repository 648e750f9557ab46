package repository

import "github.com/agrogb/agroledger/internal/domain/entity"

// StockRepository define el puerto para consultar/actualizar el snapshot de
// stock por producto. Usado dentro de transacciones para garantizar que el
// read-modify-write no se intercale con otro comando.
type StockRepository interface {
	// Get devuelve el snapshot del producto; si no existe fila devuelve un
	// snapshot en cero (la fila se crea perezosamente en el primer Upsert).
	Get(product string) (*entity.Stock, error)
	Upsert(s *entity.Stock) error
	List() ([]entity.Stock, error)
}
