package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/activos-api/internal/domain"
	"github.com/tu-usuario/activos-api/internal/domain/entity"
	"github.com/tu-usuario/activos-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). La traducción de filtros a SQL vive únicamente aquí.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `m.id, m.equipment_id, m.kind,
	m.origin_kind, m.origin_store_id, m.origin_person,
	m.dest_kind, m.dest_store_id, m.dest_person,
	m.lifecycle_state, m.receipt_code, m.ticket_ref,
	m.departed_at, m.arrived_at, m.actor_id, m.reason, m.notes,
	m.is_active, m.created_at, m.updated_at`

const movementDetailSelect = `
	SELECT ` + movementColumns + `,
		e.inventory_tag, e.serial,
		COALESCE(os.name, ''), COALESCE(ds.name, ''), COALESCE(u.name, '')
	FROM movements m
	JOIN equipment e ON e.id = m.equipment_id
	LEFT JOIN stores os ON os.id = m.origin_store_id
	LEFT JOIN stores ds ON ds.id = m.dest_store_id
	LEFT JOIN users u ON u.id = m.actor_id`

// Create persiste una fila del libro. Una clave foránea rota (equipo o tienda
// inexistente) se traduce a ErrInvalidReference para la capa de arriba.
func (r *MovementRepo) Create(m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, equipment_id, kind,
			origin_kind, origin_store_id, origin_person,
			dest_kind, dest_store_id, dest_person,
			lifecycle_state, receipt_code, ticket_ref,
			departed_at, arrived_at, actor_id, reason, notes,
			is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.EquipmentID, m.Kind,
		m.OriginKind, m.OriginStoreID, m.OriginPerson,
		m.DestKind, m.DestStoreID, m.DestPerson,
		m.LifecycleState, m.ReceiptCode, m.TicketRef,
		m.DepartedAt, m.ArrivedAt, m.ActorID, m.Reason, m.Notes,
		m.IsActive, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("create movement: %w", domain.ErrInvalidReference)
		}
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID (sin joins).
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements m WHERE m.id = $1`
	return r.scanOne(query, id)
}

// GetByIDForUpdate obtiene el movimiento bloqueando la fila (SELECT FOR UPDATE).
func (r *MovementRepo) GetByIDForUpdate(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements m WHERE m.id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

func (r *MovementRepo) scanOne(query string, args ...any) (*entity.Movement, error) {
	var m entity.Movement
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&m.ID, &m.EquipmentID, &m.Kind,
		&m.OriginKind, &m.OriginStoreID, &m.OriginPerson,
		&m.DestKind, &m.DestStoreID, &m.DestPerson,
		&m.LifecycleState, &m.ReceiptCode, &m.TicketRef,
		&m.DepartedAt, &m.ArrivedAt, &m.ActorID, &m.Reason, &m.Notes,
		&m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// GetDetailByID obtiene un movimiento con nombres de tienda, actor y equipo.
func (r *MovementRepo) GetDetailByID(id string) (*entity.MovementWithDetails, error) {
	query := movementDetailSelect + ` WHERE m.id = $1`
	var d entity.MovementWithDetails
	err := r.q.QueryRow(context.Background(), query, id).Scan(detailDest(&d)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement detail: %w", err)
	}
	return &d, nil
}

// UpdateState cambia el estado y estampa metadatos de llegada si vienen.
// Devuelve false si ninguna fila coincidió.
func (r *MovementRepo) UpdateState(id, state string, arrivedAt *time.Time, receiptCode *string) (bool, error) {
	query := `
		UPDATE movements
		SET lifecycle_state = $2,
			arrived_at = COALESCE($3, arrived_at),
			receipt_code = COALESCE($4, receipt_code),
			updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, state, arrivedAt, receiptCode)
	if err != nil {
		return false, fmt.Errorf("update movement state: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateEditable aplica la edición completa de los campos mutables.
// Origen, destino, tipo y equipo no se tocan jamás.
func (r *MovementRepo) UpdateEditable(id string, edit repository.MovementEdit) (bool, error) {
	query := `
		UPDATE movements
		SET lifecycle_state = $2, receipt_code = $3, ticket_ref = $4,
			departed_at = $5, arrived_at = $6, reason = $7, notes = $8,
			updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		id, edit.LifecycleState, edit.ReceiptCode, edit.TicketRef,
		edit.DepartedAt, edit.ArrivedAt, edit.Reason, edit.Notes,
	)
	if err != nil {
		return false, fmt.Errorf("update movement: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListByEquipment devuelve el timeline de un equipo: salida más reciente
// primero, desempate por fecha de creación descendente.
func (r *MovementRepo) ListByEquipment(equipmentID string) ([]*entity.MovementWithDetails, error) {
	query := movementDetailSelect + `
	WHERE m.equipment_id = $1 AND m.is_active
	ORDER BY m.departed_at DESC, m.created_at DESC`
	rows, err := r.q.Query(context.Background(), query, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("list by equipment: %w", err)
	}
	defer rows.Close()
	return scanDetails(rows)
}

// List devuelve la página filtrada y el total de filas que cumplen el filtro.
func (r *MovementRepo) List(filter entity.MovementFilter) ([]*entity.MovementWithDetails, int, error) {
	where, args := buildMovementFilter(filter)

	countQuery := `
	SELECT COUNT(*)
	FROM movements m
	JOIN equipment e ON e.id = m.equipment_id
	LEFT JOIN stores os ON os.id = m.origin_store_id
	LEFT JOIN stores ds ON ds.id = m.dest_store_id
	LEFT JOIN users u ON u.id = m.actor_id` + where
	var total int
	if err := r.q.QueryRow(context.Background(), countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := fmt.Sprintf(movementDetailSelect+where+`
	ORDER BY m.departed_at DESC, m.created_at DESC
	LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list, err := scanDetails(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// buildMovementFilter traduce el filtro de dominio a una cláusula WHERE con
// parámetros posicionales. Es el único punto del repo donde se arma SQL a
// partir de entrada del usuario.
func buildMovementFilter(f entity.MovementFilter) (string, []any) {
	where := ` WHERE m.is_active`
	var args []any
	pos := 1

	add := func(clause string, value any) {
		where += fmt.Sprintf(" AND "+clause, pos)
		args = append(args, value)
		pos++
	}

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		where += fmt.Sprintf(` AND (e.inventory_tag ILIKE $%d OR e.serial ILIKE $%d
			OR m.receipt_code ILIKE $%d OR os.name ILIKE $%d OR ds.name ILIKE $%d
			OR m.origin_person ILIKE $%d OR m.dest_person ILIKE $%d)`,
			pos, pos, pos, pos, pos, pos, pos)
		args = append(args, pattern)
		pos++
	}
	if f.DepartedFrom != nil {
		add("m.departed_at >= $%d", *f.DepartedFrom)
	}
	if f.DepartedTo != nil {
		add("m.departed_at <= $%d", *f.DepartedTo)
	}
	if f.Kind != "" {
		add("m.kind = $%d", f.Kind)
	}
	if f.LifecycleState != "" {
		add("m.lifecycle_state = $%d", f.LifecycleState)
	}
	if f.OriginKind != "" {
		add("m.origin_kind = $%d", f.OriginKind)
	}
	if f.DestKind != "" {
		add("m.dest_kind = $%d", f.DestKind)
	}
	if len(f.StoreIDs) > 0 {
		where += fmt.Sprintf(" AND (m.origin_store_id = ANY($%d) OR m.dest_store_id = ANY($%d))", pos, pos)
		args = append(args, f.StoreIDs)
		pos++
	}
	return where, args
}

func detailDest(d *entity.MovementWithDetails) []any {
	return []any{
		&d.ID, &d.EquipmentID, &d.Kind,
		&d.OriginKind, &d.OriginStoreID, &d.OriginPerson,
		&d.DestKind, &d.DestStoreID, &d.DestPerson,
		&d.LifecycleState, &d.ReceiptCode, &d.TicketRef,
		&d.DepartedAt, &d.ArrivedAt, &d.ActorID, &d.Reason, &d.Notes,
		&d.IsActive, &d.CreatedAt, &d.UpdatedAt,
		&d.EquipmentTag, &d.EquipmentSerial,
		&d.OriginStoreName, &d.DestStoreName, &d.ActorName,
	}
}

func scanDetails(rows pgx.Rows) ([]*entity.MovementWithDetails, error) {
	var list []*entity.MovementWithDetails
	for rows.Next() {
		var d entity.MovementWithDetails
		if err := rows.Scan(detailDest(&d)...); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
