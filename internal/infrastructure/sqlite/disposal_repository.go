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

var _ repository.DisposalRepository = (*DisposalRepo)(nil)

// DisposalRepo implementación de DisposalRepository sobre SQLite (usable con db o tx).
type DisposalRepo struct {
	q Querier
}

func NewDisposalRepository(q Querier) *DisposalRepo {
	return &DisposalRepo{q: q}
}

// Create inserta un descarte nuevo.
func (r *DisposalRepo) Create(d *entity.Disposal) error {
	query := `
		INSERT INTO disposals (uuid, product, quantity, reason, date, last_updated, dirty)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.q.Exec(query,
		d.UUID, d.Product, d.Quantity, d.Reason,
		d.Date.Format(entity.DateLayout),
		entity.FormatTimestamp(d.LastUpdated), d.Dirty,
	)
	if err != nil {
		return fmt.Errorf("create disposal: %w", mapSQLError(err))
	}
	d.ID, _ = res.LastInsertId()
	return nil
}

// GetByUUID busca un descarte por uuid.
func (r *DisposalRepo) GetByUUID(uuid string) (*entity.Disposal, error) {
	query := `
		SELECT id, uuid, product, quantity, reason, date, last_updated, dirty
		FROM disposals WHERE uuid = ?`
	d, err := scanDisposal(r.q.QueryRow(query, uuid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get disposal: %w", err)
	}
	return d, nil
}

// Update reescribe el descarte identificado por uuid.
func (r *DisposalRepo) Update(d *entity.Disposal) error {
	query := `
		UPDATE disposals
		SET product = ?, quantity = ?, reason = ?, date = ?, last_updated = ?, dirty = ?
		WHERE uuid = ?`
	res, err := r.q.Exec(query,
		d.Product, d.Quantity, d.Reason,
		d.Date.Format(entity.DateLayout),
		entity.FormatTimestamp(d.LastUpdated), d.Dirty, d.UUID,
	)
	if err != nil {
		return fmt.Errorf("update disposal: %w", mapSQLError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el descarte por uuid.
func (r *DisposalRepo) Delete(uuid string) error {
	res, err := r.q.Exec(`DELETE FROM disposals WHERE uuid = ?`, uuid)
	if err != nil {
		return fmt.Errorf("delete disposal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Recent lista los descartes más recientes por fecha de ocurrencia.
func (r *DisposalRepo) Recent(limit int) ([]entity.Disposal, error) {
	query := `
		SELECT id, uuid, product, quantity, reason, date, last_updated, dirty
		FROM disposals ORDER BY date DESC, id DESC LIMIT ?`
	rows, err := r.q.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent disposals: %w", err)
	}
	defer rows.Close()

	var out []entity.Disposal
	for rows.Next() {
		d, err := scanDisposal(rows)
		if err != nil {
			return nil, fmt.Errorf("recent disposals: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func scanDisposal(row rowScanner) (*entity.Disposal, error) {
	var (
		d           entity.Disposal
		date        string
		lastUpdated string
	)
	err := row.Scan(&d.ID, &d.UUID, &d.Product, &d.Quantity, &d.Reason,
		&date, &lastUpdated, &d.Dirty)
	if err != nil {
		return nil, err
	}
	if d.Date, err = time.Parse(entity.DateLayout, date); err != nil {
		return nil, fmt.Errorf("fecha inválida %q: %w", date, err)
	}
	if d.LastUpdated, err = entity.ParseTimestamp(lastUpdated); err != nil {
		return nil, fmt.Errorf("last_updated inválido %q: %w", lastUpdated, err)
	}
	return &d, nil
}
