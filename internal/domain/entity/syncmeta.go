package entity

import "time"

// Formatos de fecha usados en las columnas TEXT del almacén local y en el remoto.
// Los timestamps van siempre en UTC con milisegundos; así el orden lexicográfico
// coincide con el cronológico y sirve como watermark de pull.
const (
	TimestampLayout = "2006-01-02T15:04:05.000Z"
	DateLayout      = "2006-01-02"
)

// EpochTimestamp es el watermark por defecto cuando una tabla local está vacía.
const EpochTimestamp = "1970-01-01T00:00:00.000Z"

// SyncMeta son los metadatos embebidos en toda entidad sincronizable.
// UUID identifica la fila entre dispositivos; el id autoincremental local
// jamás viaja al remoto. Dirty != false marca cambios pendientes de push.
type SyncMeta struct {
	UUID        string
	LastUpdated time.Time
	Dirty       bool
}

// FormatTimestamp serializa un instante al formato de columna last_updated.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp lee un last_updated; acepta también RFC3339 con zona,
// que es lo que devuelven algunos remotos.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(TimestampLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
