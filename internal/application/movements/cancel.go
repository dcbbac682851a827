package movements

import (
	"context"
	"fmt"

	"github.com/tu-usuario/activos-api/internal/domain"
	"github.com/tu-usuario/activos-api/internal/domain/entity"
	"github.com/tu-usuario/activos-api/internal/domain/repository"
)

// CancelMovementUseCase cancela un movimiento y revierte la ubicación del
// equipo al origen registrado en esa misma fila. Es una reversión puntual:
// no reconstruye el historial completo del equipo. CANCELLED es terminal.
type CancelMovementUseCase struct {
	txRunner TxRunner
}

// NewCancelMovementUseCase construye el caso de uso.
func NewCancelMovementUseCase(txRunner TxRunner) *CancelMovementUseCase {
	return &CancelMovementUseCase{txRunner: txRunner}
}

// Cancel marca el movimiento como CANCELLED y devuelve el equipo a su origen,
// todo dentro de una transacción.
func (uc *CancelMovementUseCase) Cancel(ctx context.Context, movementID string) error {
	return uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		equipRepo repository.EquipmentRepository,
	) error {
		mov, err := movRepo.GetByIDForUpdate(movementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		if mov.LifecycleState == entity.StateCancelled {
			return domain.ErrAlreadyCancelled
		}

		eq, err := equipRepo.GetByIDForUpdate(mov.EquipmentID)
		if err != nil {
			return err
		}
		if eq == nil {
			return fmt.Errorf("equipo %s: %w", mov.EquipmentID, domain.ErrNotFound)
		}

		matched, err := movRepo.UpdateState(movementID, entity.StateCancelled, nil, nil)
		if err != nil {
			return err
		}
		if !matched {
			return domain.ErrNotFound
		}
		return equipRepo.UpdateLocation(mov.EquipmentID, mov.Origin())
	})
}
