package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/agrogb/agroledger/internal/application/sync"
	"github.com/agrogb/agroledger/internal/domain"
	"github.com/agrogb/agroledger/internal/domain/entity"
)

var _ sync.TableStore = (*SyncStore)(nil)

// syncColumns registra, por tabla sincronizable, las columnas que viajan al
// remoto. El id local y la bandera dirty quedan fuera siempre; uuid y
// last_updated van siempre primero. stock y users no aparecen: son locales.
var syncColumns = map[string][]string{
	"harvests":  {"uuid", "last_updated", "culture", "product", "quantity", "frozen", "date", "notes"},
	"sales":     {"uuid", "last_updated", "client", "product", "quantity", "value", "date", "notes"},
	"purchases": {"uuid", "last_updated", "item", "quantity", "value", "culture", "date", "notes", "details"},
	"disposals": {"uuid", "last_updated", "product", "quantity", "reason", "date"},
	"products":  {"uuid", "last_updated", "name", "unit", "kind", "notes", "stockable", "sellable", "conversion_factor", "sale_price"},
	"recipes":   {"uuid", "last_updated", "parent_uuid", "child_uuid", "quantity"},
}

// SyncTables devuelve las tablas sincronizables en orden de dependencia:
// el catálogo y las recetas antes que las tablas del libro.
func SyncTables() []string {
	return []string{"products", "recipes", "harvests", "sales", "purchases", "disposals"}
}

// SyncStore expone las tablas sincronizables como filas genéricas para el
// coordinador: lectura de filas dirty, marca de sincronizado, watermark y
// upsert de filas bajadas.
type SyncStore struct {
	db *sql.DB
}

func NewSyncStore(db *sql.DB) *SyncStore {
	return &SyncStore{db: db}
}

// DirtyRows devuelve las filas pendientes de push de la tabla, ya sin id
// local ni bandera dirty.
func (s *SyncStore) DirtyRows(table string) ([]sync.Row, error) {
	cols, ok := syncColumns[table]
	if !ok {
		return nil, domain.ErrUnknownTable
	}
	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE dirty != 0 ORDER BY last_updated",
		strings.Join(cols, ", "), table,
	)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("dirty rows %s: %w", table, err)
	}
	defer rows.Close()

	var out []sync.Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("dirty rows %s: %w", table, err)
		}
		row := make(sync.Row, len(cols))
		for i, col := range cols {
			row[col] = normalizeValue(vals[i])
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// MarkSynced limpia la bandera dirty de la fila ya subida.
func (s *SyncStore) MarkSynced(table, uuid string) error {
	if _, ok := syncColumns[table]; !ok {
		return domain.ErrUnknownTable
	}
	query := fmt.Sprintf("UPDATE %s SET dirty = 0 WHERE uuid = ?", table)
	if _, err := s.db.Exec(query, uuid); err != nil {
		return fmt.Errorf("mark synced %s: %w", table, err)
	}
	return nil
}

// Watermark devuelve el last_updated más alto de la tabla, o el epoch si
// está vacía. El formato UTC con milisegundos hace que el máximo
// lexicográfico (MAX de SQLite sobre TEXT) sea también el cronológico.
func (s *SyncStore) Watermark(table string) (string, error) {
	if _, ok := syncColumns[table]; !ok {
		return "", domain.ErrUnknownTable
	}
	query := fmt.Sprintf("SELECT COALESCE(MAX(last_updated), ?) FROM %s", table)
	var wm string
	if err := s.db.QueryRow(query, entity.EpochTimestamp).Scan(&wm); err != nil {
		return "", fmt.Errorf("watermark %s: %w", table, err)
	}
	return wm, nil
}

// UpsertRemote aplica una fila bajada del remoto: upsert por uuid con
// dirty=0. Columnas desconocidas de la fila (p.ej. el id remoto) se ignoran.
func (s *SyncStore) UpsertRemote(table string, row sync.Row) error {
	cols, ok := syncColumns[table]
	if !ok {
		return domain.ErrUnknownTable
	}
	rowUUID, _ := row["uuid"].(string)
	if rowUUID == "" {
		return fmt.Errorf("upsert remote %s: fila sin uuid: %w", table, domain.ErrInvalidInput)
	}

	insertCols := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+1)
	updates := make([]string, 0, len(cols))
	for _, col := range cols {
		v, present := row[col]
		if !present {
			continue
		}
		insertCols = append(insertCols, col)
		args = append(args, v)
		if col != "uuid" {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", col, col))
		}
	}
	insertCols = append(insertCols, "dirty")
	args = append(args, 0)
	updates = append(updates, "dirty = 0")

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (uuid) DO UPDATE SET %s",
		table,
		strings.Join(insertCols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", "),
		strings.Join(updates, ", "),
	)
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("upsert remote %s: %w", table, err)
	}
	return nil
}

// PendingCount cuenta las filas dirty de la tabla.
func (s *SyncStore) PendingCount(table string) (int, error) {
	if _, ok := syncColumns[table]; !ok {
		return 0, domain.ErrUnknownTable
	}
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE dirty != 0", table)
	var n int
	if err := s.db.QueryRow(query).Scan(&n); err != nil {
		return 0, fmt.Errorf("pending count %s: %w", table, err)
	}
	return n, nil
}

// normalizeValue deja los valores escaneados listos para JSON: los TEXT
// llegan como []byte y se convierten a string; el resto pasa tal cual.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
