package sync

import "context"

// Row es una fila genérica de sincronización: columnas → valores, lista para
// serializar a JSON. El store local ya entrega las filas sin id local ni
// bandera dirty (ninguno de los dos viaja).
type Row = map[string]any

// TableStore puerto del lado local para una tabla sincronizable.
type TableStore interface {
	// DirtyRows devuelve las filas pendientes de push, sin id ni dirty.
	DirtyRows(table string) ([]Row, error)
	// MarkSynced limpia la bandera dirty de una fila ya subida.
	MarkSynced(table, uuid string) error
	// Watermark devuelve el last_updated más alto de la tabla (o el epoch
	// si está vacía), en el formato de timestamp del libro.
	Watermark(table string) (string, error)
	// UpsertRemote aplica una fila bajada del remoto: upsert por uuid con
	// dirty=0 (lo bajado ya está sincronizado por definición).
	UpsertRemote(table string, row Row) error
	// PendingCount cuenta las filas dirty de la tabla.
	PendingCount(table string) (int, error)
}

// ReportStore puerto clave→valor para persistir el informe del último ciclo
// de sincronización, de modo que sobreviva reinicios del proceso.
type ReportStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// RemoteStore puerto del backend remoto compartido.
type RemoteStore interface {
	// Upsert sube una fila resolviendo el conflicto por uuid (LWW).
	Upsert(ctx context.Context, table string, row Row) error
	// Select baja las filas con last_updated estrictamente posterior a la
	// marca de agua, en orden ascendente de last_updated.
	Select(ctx context.Context, table, watermark string) ([]Row, error)
	// Ping verifica accesibilidad del remoto.
	Ping(ctx context.Context) error
}
