package repository

import "github.com/tu-usuario/activos-api/internal/domain/entity"

// EquipmentRepository define el puerto de persistencia para Equipment (DIP).
// Este núcleo solo lee equipos y muta su ubicación actual.
type EquipmentRepository interface {
	GetByID(id string) (*entity.Equipment, error)
	// GetByIDForUpdate obtiene el equipo bloqueando la fila (SELECT FOR UPDATE).
	// Solo tiene sentido dentro de una transacción.
	GetByIDForUpdate(id string) (*entity.Equipment, error)
	// UpdateLocation fija la ubicación actual e incrementa la versión de la fila.
	UpdateLocation(id string, loc entity.Location) error
	ListByIDs(ids []string) ([]*entity.Equipment, error)
}
