package movements

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/activos-api/internal/application/dto"
	"github.com/tu-usuario/activos-api/internal/domain"
	"github.com/tu-usuario/activos-api/internal/domain/entity"
	"github.com/tu-usuario/activos-api/internal/domain/movement"
	"github.com/tu-usuario/activos-api/internal/domain/repository"
)

// ValidationError agrupa los errores por campo detectados antes de tocar la BD.
type ValidationError struct {
	Fields []movement.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validación fallida: " + strings.Join(parts, "; ")
}

// CreateBatchUseCase registra un lote de movimientos de forma transaccional:
// por cada equipo inserta una fila en el libro y fija su ubicación actual al
// destino del descriptor. El puntero se actualiza al crear, no al confirmar:
// "en tránsito" ya significa que el destino es la ubicación registrada.
type CreateBatchUseCase struct {
	txRunner  TxRunner
	storeRepo repository.StoreRepository
}

// NewCreateBatchUseCase construye el caso de uso.
func NewCreateBatchUseCase(txRunner TxRunner, storeRepo repository.StoreRepository) *CreateBatchUseCase {
	return &CreateBatchUseCase{txRunner: txRunner, storeRepo: storeRepo}
}

// CreateBatch valida el descriptor compartido, verifica las tiendas
// referenciadas y aplica el lote dentro de una transacción. Los ids duplicados
// en el lote no se deduplican: cada ocurrencia produce su propia fila.
func (uc *CreateBatchUseCase) CreateBatch(ctx context.Context, actorID string, in dto.CreateMovementsRequest) (*dto.CreateMovementsResponse, error) {
	var fieldErrs []movement.FieldError
	if len(in.EquipmentIDs) == 0 {
		fieldErrs = append(fieldErrs, movement.FieldError{Field: "equipment_ids", Message: "se requiere al menos un equipo"})
	}
	desc := movement.Descriptor{
		Kind:           in.Kind,
		Origin:         entity.Location{Kind: in.OriginKind, StoreID: in.OriginStoreID, Person: in.OriginPerson},
		Destination:    entity.Location{Kind: in.DestKind, StoreID: in.DestStoreID, Person: in.DestPerson},
		LifecycleState: in.LifecycleState,
		DepartedAt:     in.DepartedAt,
		ArrivedAt:      in.ArrivedAt,
	}
	fieldErrs = append(fieldErrs, movement.ValidateDescriptor(desc)...)
	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	// Verificar que las tiendas referenciadas existan antes de abrir la tx.
	for _, storeID := range []*string{in.OriginStoreID, in.DestStoreID} {
		if storeID == nil {
			continue
		}
		store, err := uc.storeRepo.GetByID(*storeID)
		if err != nil {
			return nil, err
		}
		if store == nil {
			return nil, fmt.Errorf("tienda %s: %w", *storeID, domain.ErrInvalidReference)
		}
	}

	receiptCode := in.ReceiptCode
	if receiptCode == nil || *receiptCode == "" {
		code := newReceiptCode(in.DepartedAt)
		receiptCode = &code
	}

	now := time.Now()
	movementIDs := make([]string, 0, len(in.EquipmentIDs))

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		equipRepo repository.EquipmentRepository,
	) error {
		for _, equipmentID := range in.EquipmentIDs {
			// Bloquea la fila del equipo para serializar movimientos concurrentes
			// sobre el mismo activo dentro de la transacción.
			eq, err := equipRepo.GetByIDForUpdate(equipmentID)
			if err != nil {
				return err
			}
			if eq == nil {
				return fmt.Errorf("equipo %s: %w", equipmentID, domain.ErrNotFound)
			}
			mov := &entity.Movement{
				ID:             uuid.New().String(),
				EquipmentID:    equipmentID,
				Kind:           in.Kind,
				OriginKind:     in.OriginKind,
				OriginStoreID:  in.OriginStoreID,
				OriginPerson:   in.OriginPerson,
				DestKind:       in.DestKind,
				DestStoreID:    in.DestStoreID,
				DestPerson:     in.DestPerson,
				LifecycleState: in.LifecycleState,
				ReceiptCode:    receiptCode,
				TicketRef:      in.TicketRef,
				DepartedAt:     in.DepartedAt,
				ArrivedAt:      in.ArrivedAt,
				ActorID:        actorID,
				Reason:         in.Reason,
				Notes:          in.Notes,
				IsActive:       true,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
			if err := equipRepo.UpdateLocation(equipmentID, desc.Destination); err != nil {
				return err
			}
			movementIDs = append(movementIDs, mov.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.CreateMovementsResponse{
		Count:       len(movementIDs),
		MovementIDs: movementIDs,
		ReceiptCode: *receiptCode,
	}, nil
}

// newReceiptCode genera el código de acta compartido por el lote:
// ACTA-YYYYMMDD-XXXXXXXX.
func newReceiptCode(departedAt time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("ACTA-%s-%s", departedAt.Format("20060102"), suffix)
}
