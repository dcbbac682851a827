package repository

import (
	"time"

	"github.com/tu-usuario/activos-api/internal/domain/entity"
)

// MovementEdit campos editables de un movimiento existente. El origen, destino,
// tipo y equipo de la fila son inmutables y no aparecen aquí.
type MovementEdit struct {
	LifecycleState string
	ReceiptCode    *string
	TicketRef      *string
	DepartedAt     time.Time
	ArrivedAt      *time.Time
	Reason         string
	Notes          string
}

// MovementRepository define el puerto de persistencia para el libro de movimientos.
type MovementRepository interface {
	Create(m *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	// GetByIDForUpdate obtiene el movimiento bloqueando la fila (SELECT FOR UPDATE).
	// Solo tiene sentido dentro de una transacción.
	GetByIDForUpdate(id string) (*entity.Movement, error)
	GetDetailByID(id string) (*entity.MovementWithDetails, error)
	// UpdateState cambia el estado del movimiento y, si vienen, estampa
	// arrived_at y receipt_code. Devuelve false si ninguna fila coincidió.
	UpdateState(id, state string, arrivedAt *time.Time, receiptCode *string) (bool, error)
	// UpdateEditable aplica la edición completa. Devuelve false si no existe la fila.
	UpdateEditable(id string, edit MovementEdit) (bool, error)
	// ListByEquipment devuelve el timeline de un equipo, salida más reciente
	// primero, desempate por fecha de creación descendente.
	ListByEquipment(equipmentID string) ([]*entity.MovementWithDetails, error)
	// List devuelve la página filtrada y el total de filas que cumplen el filtro.
	List(filter entity.MovementFilter) ([]*entity.MovementWithDetails, int, error)
}
