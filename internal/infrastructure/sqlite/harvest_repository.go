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

var _ repository.HarvestRepository = (*HarvestRepo)(nil)

// HarvestRepo implementación de HarvestRepository sobre SQLite (usable con db o tx).
type HarvestRepo struct {
	q Querier
}

// NewHarvestRepository construye el adaptador de colheitas. Pasar db o tx (Querier).
func NewHarvestRepository(q Querier) *HarvestRepo {
	return &HarvestRepo{q: q}
}

// Create inserta una colheita nueva.
func (r *HarvestRepo) Create(h *entity.Harvest) error {
	query := `
		INSERT INTO harvests (uuid, culture, product, quantity, frozen, date, notes, last_updated, dirty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.q.Exec(query,
		h.UUID, h.Culture, h.Product, h.Quantity, h.Frozen,
		h.Date.Format(entity.DateLayout), h.Notes,
		entity.FormatTimestamp(h.LastUpdated), h.Dirty,
	)
	if err != nil {
		return fmt.Errorf("create harvest: %w", mapSQLError(err))
	}
	h.ID, _ = res.LastInsertId()
	return nil
}

// GetByUUID busca una colheita por uuid.
func (r *HarvestRepo) GetByUUID(uuid string) (*entity.Harvest, error) {
	query := `
		SELECT id, uuid, culture, product, quantity, frozen, date, notes, last_updated, dirty
		FROM harvests WHERE uuid = ?`
	h, err := scanHarvest(r.q.QueryRow(query, uuid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get harvest: %w", err)
	}
	return h, nil
}

// Update reescribe la colheita identificada por uuid.
func (r *HarvestRepo) Update(h *entity.Harvest) error {
	query := `
		UPDATE harvests
		SET culture = ?, product = ?, quantity = ?, frozen = ?, date = ?, notes = ?, last_updated = ?, dirty = ?
		WHERE uuid = ?`
	res, err := r.q.Exec(query,
		h.Culture, h.Product, h.Quantity, h.Frozen,
		h.Date.Format(entity.DateLayout), h.Notes,
		entity.FormatTimestamp(h.LastUpdated), h.Dirty, h.UUID,
	)
	if err != nil {
		return fmt.Errorf("update harvest: %w", mapSQLError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la colheita por uuid.
func (r *HarvestRepo) Delete(uuid string) error {
	res, err := r.q.Exec(`DELETE FROM harvests WHERE uuid = ?`, uuid)
	if err != nil {
		return fmt.Errorf("delete harvest: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Recent lista las colheitas más recientes por fecha de ocurrencia.
func (r *HarvestRepo) Recent(limit int) ([]entity.Harvest, error) {
	query := `
		SELECT id, uuid, culture, product, quantity, frozen, date, notes, last_updated, dirty
		FROM harvests ORDER BY date DESC, id DESC LIMIT ?`
	rows, err := r.q.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent harvests: %w", err)
	}
	defer rows.Close()

	var out []entity.Harvest
	for rows.Next() {
		h, err := scanHarvest(rows)
		if err != nil {
			return nil, fmt.Errorf("recent harvests: %w", err)
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

// rowScanner cubre *sql.Row y *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanHarvest(row rowScanner) (*entity.Harvest, error) {
	var (
		h           entity.Harvest
		date        string
		lastUpdated string
	)
	err := row.Scan(&h.ID, &h.UUID, &h.Culture, &h.Product, &h.Quantity, &h.Frozen,
		&date, &h.Notes, &lastUpdated, &h.Dirty)
	if err != nil {
		return nil, err
	}
	if h.Date, err = time.Parse(entity.DateLayout, date); err != nil {
		return nil, fmt.Errorf("fecha inválida %q: %w", date, err)
	}
	if h.LastUpdated, err = entity.ParseTimestamp(lastUpdated); err != nil {
		return nil, fmt.Errorf("last_updated inválido %q: %w", lastUpdated, err)
	}
	return &h, nil
}
