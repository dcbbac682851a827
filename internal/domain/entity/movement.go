package entity

import "time"

// Tipos de movimiento de equipos.
const (
	MovementWarehouseIntake = "WAREHOUSE_INTAKE" // ingreso al almacén central
	MovementAssignmentOut   = "ASSIGNMENT_OUT"   // salida por asignación
	MovementReplacementOut  = "REPLACEMENT_OUT"  // salida por reemplazo
	MovementLoanOut         = "LOAN_OUT"         // salida por préstamo
	MovementStoreReturn     = "STORE_RETURN"     // devolución desde tienda
	MovementPersonReturn    = "PERSON_RETURN"    // devolución de una persona
	MovementStoreTransfer   = "STORE_TRANSFER"   // traslado entre tiendas
	MovementStateChange     = "STATE_CHANGE"     // cambio de estado sin traslado físico
)

// Estados del ciclo de vida de un movimiento.
const (
	StatePending   = "PENDING"
	StateInTransit = "IN_TRANSIT"
	StateCompleted = "COMPLETED"
	StateCancelled = "CANCELLED"
)

// ValidMovementKind indica si el tipo de movimiento pertenece al dominio.
func ValidMovementKind(kind string) bool {
	switch kind {
	case MovementWarehouseIntake, MovementAssignmentOut, MovementReplacementOut,
		MovementLoanOut, MovementStoreReturn, MovementPersonReturn,
		MovementStoreTransfer, MovementStateChange:
		return true
	}
	return false
}

// ValidLifecycleState indica si el estado pertenece al dominio.
func ValidLifecycleState(state string) bool {
	switch state {
	case StatePending, StateInTransit, StateCompleted, StateCancelled:
		return true
	}
	return false
}

// Movement es una fila del libro de movimientos: un intento de traslado de un
// equipo entre ubicaciones. Origen, destino, tipo y equipo son inmutables una
// vez creada la fila; solo estado, acta, ticket, fechas y notas se editan.
type Movement struct {
	ID             string
	EquipmentID    string
	Kind           string
	OriginKind     string
	OriginStoreID  *string
	OriginPerson   *string
	DestKind       string
	DestStoreID    *string
	DestPerson     *string
	LifecycleState string
	ReceiptCode    *string // código de acta de entrega
	TicketRef      *string // ticket externo (mesa de ayuda)
	DepartedAt     time.Time
	ArrivedAt      *time.Time
	ActorID        string
	Reason         string
	Notes          string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Origin devuelve la ubicación de origen registrada en el movimiento.
func (m *Movement) Origin() Location {
	return Location{Kind: m.OriginKind, StoreID: m.OriginStoreID, Person: m.OriginPerson}
}

// Destination devuelve la ubicación de destino registrada en el movimiento.
func (m *Movement) Destination() Location {
	return Location{Kind: m.DestKind, StoreID: m.DestStoreID, Person: m.DestPerson}
}

// MovementWithDetails movimiento con nombres legibles para listados y timeline.
type MovementWithDetails struct {
	Movement
	EquipmentTag    string `json:"equipment_tag"`
	EquipmentSerial string `json:"equipment_serial"`
	OriginStoreName string `json:"origin_store_name,omitempty"`
	DestStoreName   string `json:"dest_store_name,omitempty"`
	ActorName       string `json:"actor_name,omitempty"`
}

// MovementFilter filtros para el listado de movimientos.
type MovementFilter struct {
	Search         string // texto libre: placa, serial, acta, tienda, persona
	DepartedFrom   *time.Time
	DepartedTo     *time.Time
	Kind           string
	LifecycleState string
	OriginKind     string
	DestKind       string
	StoreIDs       []string // origen o destino en alguna de estas tiendas
	Limit          int
	Offset         int
}
