package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/agrogb/agroledger/internal/domain"
	"github.com/agrogb/agroledger/internal/domain/entity"
	"github.com/agrogb/agroledger/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo implementación de CatalogRepository sobre SQLite (usable con db o tx).
type CatalogRepo struct {
	q Querier
}

func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

const productColumns = `id, uuid, name, unit, kind, notes, stockable, sellable,
	conversion_factor, sale_price, last_updated, dirty`

// Create inserta un producto nuevo en el catálogo.
func (r *CatalogRepo) Create(p *entity.Product) error {
	query := `
		INSERT INTO products (uuid, name, unit, kind, notes, stockable, sellable, conversion_factor, sale_price, last_updated, dirty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.q.Exec(query,
		p.UUID, p.Name, p.Unit, p.Kind, p.Notes, p.Stockable, p.Sellable,
		p.ConversionFactor, p.SalePrice,
		entity.FormatTimestamp(p.LastUpdated), p.Dirty,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", mapSQLError(err))
	}
	p.ID, _ = res.LastInsertId()
	return nil
}

// Update reescribe el producto identificado por uuid.
func (r *CatalogRepo) Update(p *entity.Product) error {
	query := `
		UPDATE products
		SET name = ?, unit = ?, kind = ?, notes = ?, stockable = ?, sellable = ?,
		    conversion_factor = ?, sale_price = ?, last_updated = ?, dirty = ?
		WHERE uuid = ?`
	res, err := r.q.Exec(query,
		p.Name, p.Unit, p.Kind, p.Notes, p.Stockable, p.Sellable,
		p.ConversionFactor, p.SalePrice,
		entity.FormatTimestamp(p.LastUpdated), p.Dirty, p.UUID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", mapSQLError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByName busca por nombre normalizado; (nil, nil) si no está registrado.
func (r *CatalogRepo) GetByName(name string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE name = ?`
	p, err := scanProduct(r.q.QueryRow(query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by name: %w", err)
	}
	return p, nil
}

// GetByUUID busca un producto por uuid; (nil, nil) si no existe.
func (r *CatalogRepo) GetByUUID(uuid string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE uuid = ?`
	p, err := scanProduct(r.q.QueryRow(query, uuid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List devuelve el catálogo ordenado por nombre.
func (r *CatalogRepo) List() ([]entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name`
	rows, err := r.q.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("list products: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// RecipeEdges devuelve las aristas del padre con el nombre del hijo resuelto
// por JOIN. Una arista cuyo hijo ya no existe sale con ChildName vacío; el
// resolutor de recetas la ignora.
func (r *CatalogRepo) RecipeEdges(parentUUID string) ([]entity.RecipeEdge, error) {
	query := `
		SELECT r.id, r.uuid, r.parent_uuid, r.child_uuid, r.quantity, r.last_updated, r.dirty,
		       COALESCE(p.name, '')
		FROM recipes r
		LEFT JOIN products p ON p.uuid = r.child_uuid
		WHERE r.parent_uuid = ?
		ORDER BY r.id`
	rows, err := r.q.Query(query, parentUUID)
	if err != nil {
		return nil, fmt.Errorf("recipe edges: %w", err)
	}
	defer rows.Close()

	var out []entity.RecipeEdge
	for rows.Next() {
		var (
			e           entity.RecipeEdge
			lastUpdated string
		)
		err := rows.Scan(&e.ID, &e.UUID, &e.ParentUUID, &e.ChildUUID, &e.Quantity,
			&lastUpdated, &e.Dirty, &e.ChildName)
		if err != nil {
			return nil, fmt.Errorf("recipe edges: %w", err)
		}
		if e.LastUpdated, err = entity.ParseTimestamp(lastUpdated); err != nil {
			return nil, fmt.Errorf("last_updated inválido %q: %w", lastUpdated, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// AddRecipeEdge inserta una arista de receta.
func (r *CatalogRepo) AddRecipeEdge(e *entity.RecipeEdge) error {
	query := `
		INSERT INTO recipes (uuid, parent_uuid, child_uuid, quantity, last_updated, dirty)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.q.Exec(query,
		e.UUID, e.ParentUUID, e.ChildUUID, e.Quantity,
		entity.FormatTimestamp(e.LastUpdated), e.Dirty,
	)
	if err != nil {
		return fmt.Errorf("add recipe edge: %w", mapSQLError(err))
	}
	e.ID, _ = res.LastInsertId()
	return nil
}

// DeleteRecipeEdge elimina una arista por uuid.
func (r *CatalogRepo) DeleteRecipeEdge(uuid string) error {
	res, err := r.q.Exec(`DELETE FROM recipes WHERE uuid = ?`, uuid)
	if err != nil {
		return fmt.Errorf("delete recipe edge: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var (
		p           entity.Product
		lastUpdated string
	)
	err := row.Scan(&p.ID, &p.UUID, &p.Name, &p.Unit, &p.Kind, &p.Notes,
		&p.Stockable, &p.Sellable, &p.ConversionFactor, &p.SalePrice,
		&lastUpdated, &p.Dirty)
	if err != nil {
		return nil, err
	}
	if p.LastUpdated, err = entity.ParseTimestamp(lastUpdated); err != nil {
		return nil, fmt.Errorf("last_updated inválido %q: %w", lastUpdated, err)
	}
	return &p, nil
}
