package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// ErrAlreadyCancelled se retorna al intentar cancelar un movimiento
	// que ya está en estado CANCELLED (la cancelación es terminal).
	ErrAlreadyCancelled = errors.New("el movimiento ya fue cancelado")

	// ErrInvalidReference indica que una tienda o equipo referenciado no existe
	// (traducción de una violación de clave foránea en la capa de persistencia).
	ErrInvalidReference = errors.New("referencia a tienda o equipo inexistente")
)
