package movements

import (
	"context"

	"github.com/tu-usuario/activos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Es la única frontera de atomicidad del motor
// de movimientos: o se insertan todas las filas del lote y se actualizan todos
// los punteros de ubicación, o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		equipRepo repository.EquipmentRepository,
	) error) error
}
