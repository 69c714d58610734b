package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrInvalidScalar  = errors.New("escalar monetario inválido")
	ErrDivisionByZero = errors.New("división por cero")
	ErrDuplicate      = errors.New("recurso duplicado")
	ErrConflict       = errors.New("conflicto con el estado actual")
	ErrGhostRow       = errors.New("fila degenerada persistida")
)
