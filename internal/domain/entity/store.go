package entity

import "time"

// Store representa una tienda donde puede ubicarse un equipo.
// El mantenimiento de tiendas es de catálogo; aquí es solo referencia y nombre.
type Store struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
