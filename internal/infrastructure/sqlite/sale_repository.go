package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/agrogb/agroledger/internal/domain"
	"github.com/agrogb/agroledger/internal/domain/entity"
	"github.com/agrogb/agroledger/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre SQLite (usable con db o tx).
type SaleRepo struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta una venta nueva.
func (r *SaleRepo) Create(s *entity.Sale) error {
	query := `
		INSERT INTO sales (uuid, client, product, quantity, value, date, notes, last_updated, dirty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.q.Exec(query,
		s.UUID, s.Client, s.Product, s.Quantity, s.Value,
		s.Date.Format(entity.DateLayout), s.Notes,
		entity.FormatTimestamp(s.LastUpdated), s.Dirty,
	)
	if err != nil {
		return fmt.Errorf("create sale: %w", mapSQLError(err))
	}
	s.ID, _ = res.LastInsertId()
	return nil
}

// GetByUUID busca una venta por uuid.
func (r *SaleRepo) GetByUUID(uuid string) (*entity.Sale, error) {
	query := `
		SELECT id, uuid, client, product, quantity, value, date, notes, last_updated, dirty
		FROM sales WHERE uuid = ?`
	s, err := scanSale(r.q.QueryRow(query, uuid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// Update reescribe la venta identificada por uuid.
func (r *SaleRepo) Update(s *entity.Sale) error {
	query := `
		UPDATE sales
		SET client = ?, product = ?, quantity = ?, value = ?, date = ?, notes = ?, last_updated = ?, dirty = ?
		WHERE uuid = ?`
	res, err := r.q.Exec(query,
		s.Client, s.Product, s.Quantity, s.Value,
		s.Date.Format(entity.DateLayout), s.Notes,
		entity.FormatTimestamp(s.LastUpdated), s.Dirty, s.UUID,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", mapSQLError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la venta por uuid.
func (r *SaleRepo) Delete(uuid string) error {
	res, err := r.q.Exec(`DELETE FROM sales WHERE uuid = ?`, uuid)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Recent lista las ventas más recientes por fecha de ocurrencia.
func (r *SaleRepo) Recent(limit int) ([]entity.Sale, error) {
	query := `
		SELECT id, uuid, client, product, quantity, value, date, notes, last_updated, dirty
		FROM sales ORDER BY date DESC, id DESC LIMIT ?`
	rows, err := r.q.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent sales: %w", err)
	}
	defer rows.Close()

	var out []entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("recent sales: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func scanSale(row rowScanner) (*entity.Sale, error) {
	var (
		s           entity.Sale
		date        string
		lastUpdated string
	)
	err := row.Scan(&s.ID, &s.UUID, &s.Client, &s.Product, &s.Quantity, &s.Value,
		&date, &s.Notes, &lastUpdated, &s.Dirty)
	if err != nil {
		return nil, err
	}
	if s.Date, err = time.Parse(entity.DateLayout, date); err != nil {
		return nil, fmt.Errorf("fecha inválida %q: %w", date, err)
	}
	if s.LastUpdated, err = entity.ParseTimestamp(lastUpdated); err != nil {
		return nil, fmt.Errorf("last_updated inválido %q: %w", lastUpdated, err)
	}
	return &s, nil
}
