package movements

import (
	"context"

	"github.com/tu-usuario/activos-api/internal/application/dto"
	"github.com/tu-usuario/activos-api/internal/domain"
	"github.com/tu-usuario/activos-api/internal/domain/entity"
	"github.com/tu-usuario/activos-api/internal/domain/movement"
	"github.com/tu-usuario/activos-api/internal/domain/repository"
)

// UpdateMovementUseCase confirma la entrega de un movimiento o edita sus
// campos mutables. Ninguna de las dos operaciones toca la ubicación del
// equipo: el puntero quedó fijado al crear el movimiento.
type UpdateMovementUseCase struct {
	movRepo repository.MovementRepository
}

// NewUpdateMovementUseCase construye el caso de uso.
func NewUpdateMovementUseCase(movRepo repository.MovementRepository) *UpdateMovementUseCase {
	return &UpdateMovementUseCase{movRepo: movRepo}
}

// ConfirmState avanza el estado del movimiento (convencionalmente a COMPLETED)
// y estampa, si vienen, la fecha de llegada y el código de acta. Documenta la
// recepción física; la ubicación del equipo ya refleja el destino.
func (uc *UpdateMovementUseCase) ConfirmState(ctx context.Context, movementID string, in dto.UpdateStateRequest) (*dto.MovementResponse, error) {
	if errs := movement.ValidateConfirmState(in.LifecycleState); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	mov, err := uc.movRepo.GetByID(movementID)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	if mov.LifecycleState == entity.StateCancelled {
		return nil, domain.ErrAlreadyCancelled
	}
	if in.ArrivedAt != nil && in.ArrivedAt.Before(mov.DepartedAt) {
		return nil, &ValidationError{Fields: []movement.FieldError{
			{Field: "arrived_at", Message: "la llegada no puede ser anterior a la salida"},
		}}
	}

	matched, err := uc.movRepo.UpdateState(movementID, in.LifecycleState, in.ArrivedAt, in.ReceiptCode)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, domain.ErrNotFound
	}
	return uc.detail(movementID)
}

// Edit aplica la edición completa de los campos mutables del movimiento.
// El estado solo admite PENDING, IN_TRANSIT o COMPLETED; la cancelación
// tiene su propia ruta y queda excluida aquí.
func (uc *UpdateMovementUseCase) Edit(ctx context.Context, movementID string, in dto.EditMovementRequest) (*dto.MovementResponse, error) {
	if errs := movement.ValidateEdit(in.LifecycleState, in.DepartedAt, in.ArrivedAt); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	mov, err := uc.movRepo.GetByID(movementID)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	// CANCELLED es terminal: la edición no puede resucitar el movimiento
	// (la ubicación del equipo ya fue revertida al cancelar).
	if mov.LifecycleState == entity.StateCancelled {
		return nil, domain.ErrAlreadyCancelled
	}
	matched, err := uc.movRepo.UpdateEditable(movementID, repository.MovementEdit{
		LifecycleState: in.LifecycleState,
		ReceiptCode:    in.ReceiptCode,
		TicketRef:      in.TicketRef,
		DepartedAt:     in.DepartedAt,
		ArrivedAt:      in.ArrivedAt,
		Reason:         in.Reason,
		Notes:          in.Notes,
	})
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, domain.ErrNotFound
	}
	return uc.detail(movementID)
}

func (uc *UpdateMovementUseCase) detail(movementID string) (*dto.MovementResponse, error) {
	detail, err := uc.movRepo.GetDetailByID(movementID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.ToMovementResponse(detail)
	return &out, nil
}
