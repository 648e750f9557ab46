package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrUserNotFound     = errors.New("usuario no encontrado")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrDuplicate        = errors.New("recurso duplicado")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrForbidden        = errors.New("acceso denegado")
	ErrConflict         = errors.New("conflicto con el estado actual")
	ErrSyncInFlight     = errors.New("sincronización en curso para la tabla")
	ErrRemoteDisabled   = errors.New("almacén remoto no configurado")
	ErrUnknownTable     = errors.New("tabla desconocida")
	ErrUnknownKind      = errors.New("tipo de transacción desconocido")
)
