package dto

import (
	"time"

	"github.com/tu-usuario/activos-api/internal/domain/entity"
)

// CreateMovementsRequest body para POST /api/movements: lote de equipos que
// comparten un mismo descriptor de movimiento.
type CreateMovementsRequest struct {
	EquipmentIDs   []string   `json:"equipment_ids"`
	Kind           string     `json:"kind"`
	OriginKind     string     `json:"origin_kind"`
	OriginStoreID  *string    `json:"origin_store_id,omitempty"`
	OriginPerson   *string    `json:"origin_person,omitempty"`
	DestKind       string     `json:"dest_kind"`
	DestStoreID    *string    `json:"dest_store_id,omitempty"`
	DestPerson     *string    `json:"dest_person,omitempty"`
	LifecycleState string     `json:"lifecycle_state"`
	DepartedAt     time.Time  `json:"departed_at"`
	ArrivedAt      *time.Time `json:"arrived_at,omitempty"`
	ReceiptCode    *string    `json:"receipt_code,omitempty"`
	TicketRef      *string    `json:"ticket_ref,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// CreateMovementsResponse respuesta del alta en lote.
type CreateMovementsResponse struct {
	Count       int      `json:"count"`
	MovementIDs []string `json:"movement_ids"`
	ReceiptCode string   `json:"receipt_code"`
}

// UpdateStateRequest body para PATCH /api/movements/:id/state (confirmación).
type UpdateStateRequest struct {
	LifecycleState string     `json:"lifecycle_state"`
	ArrivedAt      *time.Time `json:"arrived_at,omitempty"`
	ReceiptCode    *string    `json:"receipt_code,omitempty"`
}

// EditMovementRequest body para PUT /api/movements/:id (edición completa).
type EditMovementRequest struct {
	LifecycleState string     `json:"lifecycle_state"`
	ReceiptCode    *string    `json:"receipt_code,omitempty"`
	TicketRef      *string    `json:"ticket_ref,omitempty"`
	DepartedAt     time.Time  `json:"departed_at"`
	ArrivedAt      *time.Time `json:"arrived_at,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// ValidateLocationRequest body para POST /api/movements/validate-location.
type ValidateLocationRequest struct {
	EquipmentIDs []string `json:"equipment_ids"`
	ExpectedKind string   `json:"expected_location_kind"`
	StoreID      *string  `json:"store_id,omitempty"`
}

// LocationCheckResult resultado por equipo de la verificación previa de ubicación.
type LocationCheckResult struct {
	EquipmentID    string  `json:"equipment_id"`
	Found          bool    `json:"found"`
	Matches        bool    `json:"matches"`
	CurrentKind    string  `json:"current_kind,omitempty"`
	CurrentStoreID *string `json:"current_store_id,omitempty"`
}

// MovementListQuery filtros de GET /api/movements (query params).
type MovementListQuery struct {
	Search         string `query:"search"`
	From           string `query:"from"`  // fecha de salida desde (RFC 3339 o YYYY-MM-DD)
	To             string `query:"to"`    // fecha de salida hasta
	Kind           string `query:"kind"`
	LifecycleState string `query:"lifecycle_state"`
	OriginKind     string `query:"origin_kind"`
	DestKind       string `query:"dest_kind"`
	StoreIDs       string `query:"store_ids"` // ids separados por coma
	PageRequest
}

// MovementResponse movimiento con campos legibles para la UI.
type MovementResponse struct {
	ID              string     `json:"id"`
	EquipmentID     string     `json:"equipment_id"`
	EquipmentTag    string     `json:"equipment_tag,omitempty"`
	EquipmentSerial string     `json:"equipment_serial,omitempty"`
	Kind            string     `json:"kind"`
	OriginKind      string     `json:"origin_kind"`
	OriginStoreID   *string    `json:"origin_store_id,omitempty"`
	OriginStoreName string     `json:"origin_store_name,omitempty"`
	OriginPerson    *string    `json:"origin_person,omitempty"`
	DestKind        string     `json:"dest_kind"`
	DestStoreID     *string    `json:"dest_store_id,omitempty"`
	DestStoreName   string     `json:"dest_store_name,omitempty"`
	DestPerson      *string    `json:"dest_person,omitempty"`
	LifecycleState  string     `json:"lifecycle_state"`
	ReceiptCode     *string    `json:"receipt_code,omitempty"`
	TicketRef       *string    `json:"ticket_ref,omitempty"`
	DepartedAt      time.Time  `json:"departed_at"`
	ArrivedAt       *time.Time `json:"arrived_at,omitempty"`
	ActorID         string     `json:"actor_id"`
	ActorName       string     `json:"actor_name,omitempty"`
	Reason          string     `json:"reason,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// MovementListResponse página de movimientos con total.
type MovementListResponse struct {
	Total     int                `json:"total"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
	Movements []MovementResponse `json:"movements"`
}

// ToMovementResponse mapea la proyección con detalles al DTO de salida.
func ToMovementResponse(m *entity.MovementWithDetails) MovementResponse {
	return MovementResponse{
		ID:              m.ID,
		EquipmentID:     m.EquipmentID,
		EquipmentTag:    m.EquipmentTag,
		EquipmentSerial: m.EquipmentSerial,
		Kind:            m.Kind,
		OriginKind:      m.OriginKind,
		OriginStoreID:   m.OriginStoreID,
		OriginStoreName: m.OriginStoreName,
		OriginPerson:    m.OriginPerson,
		DestKind:        m.DestKind,
		DestStoreID:     m.DestStoreID,
		DestStoreName:   m.DestStoreName,
		DestPerson:      m.DestPerson,
		LifecycleState:  m.LifecycleState,
		ReceiptCode:     m.ReceiptCode,
		TicketRef:       m.TicketRef,
		DepartedAt:      m.DepartedAt,
		ArrivedAt:       m.ArrivedAt,
		ActorID:         m.ActorID,
		ActorName:       m.ActorName,
		Reason:          m.Reason,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
