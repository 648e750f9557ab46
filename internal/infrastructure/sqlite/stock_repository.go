package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/agrogb/agroledger/internal/domain/entity"
	"github.com/agrogb/agroledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre SQLite (usable con db o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar db o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el snapshot actual de un producto. Sin fila devuelve un
// snapshot en cero: la fila se crea recién en el primer Upsert.
func (r *StockRepo) Get(product string) (*entity.Stock, error) {
	query := `SELECT product, quantity, last_updated FROM stock WHERE product = ?`
	var (
		s           entity.Stock
		lastUpdated string
	)
	err := r.q.QueryRow(query, product).Scan(&s.Product, &s.Quantity, &lastUpdated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &entity.Stock{Product: product, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	if s.LastUpdated, err = entity.ParseTimestamp(lastUpdated); err != nil {
		return nil, fmt.Errorf("last_updated inválido %q: %w", lastUpdated, err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad del snapshot (por producto).
func (r *StockRepo) Upsert(s *entity.Stock) error {
	query := `
		INSERT INTO stock (product, quantity, last_updated)
		VALUES (?, ?, ?)
		ON CONFLICT (product)
		DO UPDATE SET quantity = excluded.quantity, last_updated = excluded.last_updated`
	_, err := r.q.Exec(query, s.Product, s.Quantity, entity.FormatTimestamp(s.LastUpdated))
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// List devuelve el snapshot completo con unidad y tipo del catálogo (si el
// producto está registrado), ordenado por producto.
func (r *StockRepo) List() ([]entity.Stock, error) {
	query := `
		SELECT s.product, s.quantity, s.last_updated,
		       COALESCE(p.unit, ''), COALESCE(p.kind, '')
		FROM stock s
		LEFT JOIN products p ON p.name = s.product
		ORDER BY s.product`
	rows, err := r.q.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()

	var out []entity.Stock
	for rows.Next() {
		var (
			s           entity.Stock
			lastUpdated string
		)
		if err := rows.Scan(&s.Product, &s.Quantity, &lastUpdated, &s.Unit, &s.Kind); err != nil {
			return nil, fmt.Errorf("list stock: %w", err)
		}
		if s.LastUpdated, err = entity.ParseTimestamp(lastUpdated); err != nil {
			return nil, fmt.Errorf("last_updated inválido %q: %w", lastUpdated, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
