package movements

import (
	"context"
	"strings"
	"time"

	"github.com/tu-usuario/activos-api/internal/application/dto"
	"github.com/tu-usuario/activos-api/internal/domain"
	"github.com/tu-usuario/activos-api/internal/domain/entity"
	"github.com/tu-usuario/activos-api/internal/domain/movement"
	"github.com/tu-usuario/activos-api/internal/domain/repository"
)

// HistoryUseCase proyecciones de solo lectura sobre el libro de movimientos:
// timeline por equipo, listado filtrado/paginado y detalle individual.
type HistoryUseCase struct {
	movRepo   repository.MovementRepository
	equipRepo repository.EquipmentRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(movRepo repository.MovementRepository, equipRepo repository.EquipmentRepository) *HistoryUseCase {
	return &HistoryUseCase{movRepo: movRepo, equipRepo: equipRepo}
}

// Timeline devuelve todos los movimientos de un equipo, salida más reciente
// primero, con nombres de tienda y actor resueltos.
func (uc *HistoryUseCase) Timeline(ctx context.Context, equipmentID string) ([]dto.MovementResponse, error) {
	eq, err := uc.equipRepo.GetByID(equipmentID)
	if err != nil {
		return nil, err
	}
	if eq == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.movRepo.ListByEquipment(equipmentID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.ToMovementResponse(m))
	}
	return out, nil
}

// GetByID devuelve un movimiento con sus campos legibles.
func (uc *HistoryUseCase) GetByID(ctx context.Context, movementID string) (*dto.MovementResponse, error) {
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

// List traduce los query params a un filtro de dominio y devuelve la página
// con su total.
func (uc *HistoryUseCase) List(ctx context.Context, q dto.MovementListQuery) (*dto.MovementListResponse, error) {
	filter, err := uc.buildFilter(q)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.movRepo.List(*filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Total:     total,
		Limit:     filter.Limit,
		Offset:    filter.Offset,
		Movements: out,
	}, nil
}

func (uc *HistoryUseCase) buildFilter(q dto.MovementListQuery) (*entity.MovementFilter, error) {
	q.DefaultPage()
	var fieldErrs []movement.FieldError

	from, err := parseDate(q.From)
	if err != nil {
		fieldErrs = append(fieldErrs, movement.FieldError{Field: "from", Message: "fecha inválida"})
	}
	to, err := parseDate(q.To)
	if err != nil {
		fieldErrs = append(fieldErrs, movement.FieldError{Field: "to", Message: "fecha inválida"})
	}
	if q.Kind != "" && !entity.ValidMovementKind(q.Kind) {
		fieldErrs = append(fieldErrs, movement.FieldError{Field: "kind", Message: "tipo de movimiento inválido"})
	}
	if q.LifecycleState != "" && !entity.ValidLifecycleState(q.LifecycleState) {
		fieldErrs = append(fieldErrs, movement.FieldError{Field: "lifecycle_state", Message: "estado inválido"})
	}
	if q.OriginKind != "" && !entity.ValidLocationKind(q.OriginKind) {
		fieldErrs = append(fieldErrs, movement.FieldError{Field: "origin_kind", Message: "tipo de ubicación inválido"})
	}
	if q.DestKind != "" && !entity.ValidLocationKind(q.DestKind) {
		fieldErrs = append(fieldErrs, movement.FieldError{Field: "dest_kind", Message: "tipo de ubicación inválido"})
	}
	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	var storeIDs []string
	for _, id := range strings.Split(q.StoreIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			storeIDs = append(storeIDs, id)
		}
	}

	return &entity.MovementFilter{
		Search:         strings.TrimSpace(q.Search),
		DepartedFrom:   from,
		DepartedTo:     to,
		Kind:           q.Kind,
		LifecycleState: q.LifecycleState,
		OriginKind:     q.OriginKind,
		DestKind:       q.DestKind,
		StoreIDs:       storeIDs,
		Limit:          q.Limit,
		Offset:         q.Offset,
	}, nil
}

// parseDate acepta RFC 3339 o fecha simple YYYY-MM-DD.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
