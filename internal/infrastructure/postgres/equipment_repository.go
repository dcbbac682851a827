package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/activos-api/internal/domain"
	"github.com/tu-usuario/activos-api/internal/domain/entity"
	"github.com/tu-usuario/activos-api/internal/domain/repository"
)

var _ repository.EquipmentRepository = (*EquipmentRepo)(nil)

// EquipmentRepo implementación sobre PostgreSQL (usable con pool o tx).
type EquipmentRepo struct {
	q Querier
}

// NewEquipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEquipmentRepository(q Querier) *EquipmentRepo {
	return &EquipmentRepo{q: q}
}

const equipmentColumns = `id, inventory_tag, serial, category, brand, model, location_kind, store_id, version, created_at, updated_at`

// GetByID obtiene un equipo por ID.
func (r *EquipmentRepo) GetByID(id string) (*entity.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1`
	return r.scanOne(query, id)
}

// GetByIDForUpdate obtiene el equipo y bloquea la fila (SELECT FOR UPDATE).
// Serializa movimientos y cancelaciones concurrentes sobre el mismo activo.
func (r *EquipmentRepo) GetByIDForUpdate(id string) (*entity.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

func (r *EquipmentRepo) scanOne(query string, args ...any) (*entity.Equipment, error) {
	var e entity.Equipment
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&e.ID, &e.InventoryTag, &e.Serial, &e.Category, &e.Brand, &e.Model,
		&e.LocationKind, &e.StoreID, &e.Version, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get equipment: %w", err)
	}
	return &e, nil
}

// UpdateLocation fija la ubicación actual del equipo e incrementa la versión.
// store_id se limpia cuando la nueva ubicación no es una tienda.
func (r *EquipmentRepo) UpdateLocation(id string, loc entity.Location) error {
	var storeID *string
	if loc.Kind == entity.LocationStore {
		storeID = loc.StoreID
	}
	query := `
		UPDATE equipment
		SET location_kind = $2, store_id = $3, version = version + 1, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, loc.Kind, storeID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("update location: %w", domain.ErrInvalidReference)
		}
		return fmt.Errorf("update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update location: equipo %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListByIDs obtiene los equipos cuyos ids estén en la lista (los inexistentes
// simplemente no aparecen en el resultado).
func (r *EquipmentRepo) ListByIDs(ids []string) ([]*entity.Equipment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = ANY($1)`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("list equipment by ids: %w", err)
	}
	defer rows.Close()
	var list []*entity.Equipment
	for rows.Next() {
		var e entity.Equipment
		if err := rows.Scan(&e.ID, &e.InventoryTag, &e.Serial, &e.Category, &e.Brand, &e.Model,
			&e.LocationKind, &e.StoreID, &e.Version, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
