package movements

import (
	"context"

	"github.com/tu-usuario/activos-api/internal/application/dto"
	"github.com/tu-usuario/activos-api/internal/domain/entity"
	"github.com/tu-usuario/activos-api/internal/domain/movement"
	"github.com/tu-usuario/activos-api/internal/domain/repository"
)

// ValidateLocationUseCase verificación previa (opcional y consultiva) de que
// cada equipo listado está registrado donde el cliente cree que está. Detecta
// pantallas desactualizadas o peticiones cruzadas antes de intentar un
// movimiento; el orquestador no la repite al crear.
type ValidateLocationUseCase struct {
	equipRepo repository.EquipmentRepository
}

// NewValidateLocationUseCase construye el caso de uso.
func NewValidateLocationUseCase(equipRepo repository.EquipmentRepository) *ValidateLocationUseCase {
	return &ValidateLocationUseCase{equipRepo: equipRepo}
}

// Validate compara la ubicación registrada de cada equipo contra la esperada
// y devuelve un resultado por equipo, en el mismo orden del lote.
func (uc *ValidateLocationUseCase) Validate(ctx context.Context, in dto.ValidateLocationRequest) ([]dto.LocationCheckResult, error) {
	var fieldErrs []movement.FieldError
	if len(in.EquipmentIDs) == 0 {
		fieldErrs = append(fieldErrs, movement.FieldError{Field: "equipment_ids", Message: "se requiere al menos un equipo"})
	}
	expected := entity.Location{Kind: in.ExpectedKind, StoreID: in.StoreID}
	fieldErrs = append(fieldErrs, movement.ValidateExpectedLocation(expected)...)
	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	list, err := uc.equipRepo.ListByIDs(in.EquipmentIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Equipment, len(list))
	for _, eq := range list {
		byID[eq.ID] = eq
	}

	results := make([]dto.LocationCheckResult, 0, len(in.EquipmentIDs))
	for _, id := range in.EquipmentIDs {
		eq, ok := byID[id]
		if !ok {
			results = append(results, dto.LocationCheckResult{EquipmentID: id})
			continue
		}
		results = append(results, dto.LocationCheckResult{
			EquipmentID:    id,
			Found:          true,
			Matches:        movement.MatchesLocation(eq, expected),
			CurrentKind:    eq.LocationKind,
			CurrentStoreID: eq.StoreID,
		})
	}
	return results, nil
}
