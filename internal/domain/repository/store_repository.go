package repository

import "github.com/tu-usuario/activos-api/internal/domain/entity"

// StoreRepository define el puerto de lectura de tiendas (referencia de catálogo).
type StoreRepository interface {
	GetByID(id string) (*entity.Store, error)
	List(limit, offset int) ([]*entity.Store, error)
}
