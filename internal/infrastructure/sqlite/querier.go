package sqlite

import (
	"database/sql"
	"strings"

	"github.com/agrogb/agroledger/internal/domain"
)

// Querier es el subconjunto común de *sql.DB y *sql.Tx que usan los repos:
// el mismo repo sirve fuera de transacción (lecturas) o atado a una (comandos).
type Querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// mapSQLError traduce errores del driver a errores de dominio.
func mapSQLError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return domain.ErrDuplicate
	}
	return err
}
