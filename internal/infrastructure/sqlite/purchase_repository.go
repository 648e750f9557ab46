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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de PurchaseRepository sobre SQLite (usable con db o tx).
type PurchaseRepo struct {
	q Querier
}

func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create inserta una compra nueva.
func (r *PurchaseRepo) Create(p *entity.Purchase) error {
	query := `
		INSERT INTO purchases (uuid, item, quantity, value, culture, date, notes, details, last_updated, dirty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.q.Exec(query,
		p.UUID, p.Item, p.Quantity, p.Value, p.Culture,
		p.Date.Format(entity.DateLayout), p.Notes, p.Details,
		entity.FormatTimestamp(p.LastUpdated), p.Dirty,
	)
	if err != nil {
		return fmt.Errorf("create purchase: %w", mapSQLError(err))
	}
	p.ID, _ = res.LastInsertId()
	return nil
}

// GetByUUID busca una compra por uuid.
func (r *PurchaseRepo) GetByUUID(uuid string) (*entity.Purchase, error) {
	query := `
		SELECT id, uuid, item, quantity, value, culture, date, notes, details, last_updated, dirty
		FROM purchases WHERE uuid = ?`
	p, err := scanPurchase(r.q.QueryRow(query, uuid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// Update reescribe la compra identificada por uuid.
func (r *PurchaseRepo) Update(p *entity.Purchase) error {
	query := `
		UPDATE purchases
		SET item = ?, quantity = ?, value = ?, culture = ?, date = ?, notes = ?, details = ?, last_updated = ?, dirty = ?
		WHERE uuid = ?`
	res, err := r.q.Exec(query,
		p.Item, p.Quantity, p.Value, p.Culture,
		p.Date.Format(entity.DateLayout), p.Notes, p.Details,
		entity.FormatTimestamp(p.LastUpdated), p.Dirty, p.UUID,
	)
	if err != nil {
		return fmt.Errorf("update purchase: %w", mapSQLError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la compra por uuid.
func (r *PurchaseRepo) Delete(uuid string) error {
	res, err := r.q.Exec(`DELETE FROM purchases WHERE uuid = ?`, uuid)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Recent lista las compras más recientes por fecha de ocurrencia.
func (r *PurchaseRepo) Recent(limit int) ([]entity.Purchase, error) {
	query := `
		SELECT id, uuid, item, quantity, value, culture, date, notes, details, last_updated, dirty
		FROM purchases ORDER BY date DESC, id DESC LIMIT ?`
	rows, err := r.q.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent purchases: %w", err)
	}
	defer rows.Close()

	var out []entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("recent purchases: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanPurchase(row rowScanner) (*entity.Purchase, error) {
	var (
		p           entity.Purchase
		date        string
		lastUpdated string
	)
	err := row.Scan(&p.ID, &p.UUID, &p.Item, &p.Quantity, &p.Value, &p.Culture,
		&date, &p.Notes, &p.Details, &lastUpdated, &p.Dirty)
	if err != nil {
		return nil, err
	}
	if p.Date, err = time.Parse(entity.DateLayout, date); err != nil {
		return nil, fmt.Errorf("fecha inválida %q: %w", date, err)
	}
	if p.LastUpdated, err = entity.ParseTimestamp(lastUpdated); err != nil {
		return nil, fmt.Errorf("last_updated inválido %q: %w", lastUpdated, err)
	}
	return &p, nil
}
