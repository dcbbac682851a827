package movement

import (
	"time"

	"github.com/tu-usuario/activos-api/internal/domain/entity"
)

// FieldError describe un error de validación sobre un campo concreto.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Descriptor es la parte compartida de un lote de movimientos: tipo, origen,
// destino, estado inicial y fechas. Se valida completa antes de tocar la BD.
type Descriptor struct {
	Kind           string
	Origin         entity.Location
	Destination    entity.Location
	LifecycleState string
	DepartedAt     time.Time
	ArrivedAt      *time.Time
}

// ValidateDescriptor valida tipo, origen, destino, estado y fechas de un
// descriptor de movimiento. Devuelve un error por cada campo fuera de dominio;
// lista vacía significa descriptor válido.
func ValidateDescriptor(d Descriptor) []FieldError {
	var errs []FieldError
	if !entity.ValidMovementKind(d.Kind) {
		errs = append(errs, FieldError{Field: "kind", Message: "tipo de movimiento inválido"})
	}
	errs = append(errs, ValidateLocation("origin", d.Origin)...)
	errs = append(errs, ValidateLocation("dest", d.Destination)...)
	switch d.LifecycleState {
	case entity.StatePending, entity.StateInTransit:
		// estados iniciales permitidos
	case entity.StateCancelled:
		errs = append(errs, FieldError{Field: "lifecycle_state", Message: "un movimiento no puede crearse cancelado"})
	case entity.StateCompleted:
		errs = append(errs, FieldError{Field: "lifecycle_state", Message: "un movimiento se crea en PENDING o IN_TRANSIT; la finalización usa la confirmación"})
	default:
		errs = append(errs, FieldError{Field: "lifecycle_state", Message: "estado inválido"})
	}
	errs = append(errs, validateDates(d.DepartedAt, d.ArrivedAt)...)
	return errs
}

// ValidateLocation valida una ubicación: tipo en dominio, referencia de tienda
// presente si y solo si el tipo es STORE, persona presente si y solo si el
// tipo es PERSON.
func ValidateLocation(prefix string, loc entity.Location) []FieldError {
	var errs []FieldError
	if !entity.ValidLocationKind(loc.Kind) {
		return append(errs, FieldError{Field: prefix + "_kind", Message: "tipo de ubicación inválido"})
	}
	switch loc.Kind {
	case entity.LocationStore:
		if loc.StoreID == nil || *loc.StoreID == "" {
			errs = append(errs, FieldError{Field: prefix + "_store_id", Message: "tienda requerida cuando el tipo es STORE"})
		}
	case entity.LocationPerson:
		if loc.Person == nil || *loc.Person == "" {
			errs = append(errs, FieldError{Field: prefix + "_person", Message: "persona requerida cuando el tipo es PERSON"})
		}
	}
	if loc.Kind != entity.LocationStore && loc.StoreID != nil {
		errs = append(errs, FieldError{Field: prefix + "_store_id", Message: "tienda solo aplica cuando el tipo es STORE"})
	}
	if loc.Kind != entity.LocationPerson && loc.Person != nil {
		errs = append(errs, FieldError{Field: prefix + "_person", Message: "persona solo aplica cuando el tipo es PERSON"})
	}
	return errs
}

// ValidateExpectedLocation valida la ubicación esperada de la verificación
// previa: tipo en dominio y referencia de tienda si y solo si el tipo es STORE.
// La comparación es por tipo (y tienda); nunca se exige persona.
func ValidateExpectedLocation(loc entity.Location) []FieldError {
	var errs []FieldError
	if !entity.ValidLocationKind(loc.Kind) {
		return append(errs, FieldError{Field: "expected_location_kind", Message: "tipo de ubicación inválido"})
	}
	if loc.Kind == entity.LocationStore && (loc.StoreID == nil || *loc.StoreID == "") {
		errs = append(errs, FieldError{Field: "store_id", Message: "tienda requerida cuando el tipo es STORE"})
	}
	if loc.Kind != entity.LocationStore && loc.StoreID != nil {
		errs = append(errs, FieldError{Field: "store_id", Message: "tienda solo aplica cuando el tipo es STORE"})
	}
	return errs
}

// ValidateEdit valida los campos editables de un movimiento existente:
// departed_at obligatorio, estado restringido a PENDING/IN_TRANSIT/COMPLETED
// (la cancelación tiene su propia ruta) y coherencia de fechas.
func ValidateEdit(state string, departedAt time.Time, arrivedAt *time.Time) []FieldError {
	var errs []FieldError
	if !editableState(state) {
		errs = append(errs, FieldError{Field: "lifecycle_state", Message: "estado inválido; la cancelación usa su propia ruta"})
	}
	errs = append(errs, validateDates(departedAt, arrivedAt)...)
	return errs
}

// ValidateConfirmState valida el estado destino de una confirmación.
func ValidateConfirmState(state string) []FieldError {
	if !editableState(state) {
		return []FieldError{{Field: "lifecycle_state", Message: "estado inválido; la cancelación usa su propia ruta"}}
	}
	return nil
}

func editableState(state string) bool {
	switch state {
	case entity.StatePending, entity.StateInTransit, entity.StateCompleted:
		return true
	}
	return false
}

func validateDates(departedAt time.Time, arrivedAt *time.Time) []FieldError {
	var errs []FieldError
	if departedAt.IsZero() {
		errs = append(errs, FieldError{Field: "departed_at", Message: "fecha de salida requerida"})
	}
	if arrivedAt != nil && !departedAt.IsZero() && arrivedAt.Before(departedAt) {
		errs = append(errs, FieldError{Field: "arrived_at", Message: "la llegada no puede ser anterior a la salida"})
	}
	return errs
}

// MatchesLocation verifica que la ubicación registrada del equipo coincida con
// la ubicación esperada (tipo, y tienda si el tipo es STORE). Es la verificación
// previa opcional que detecta pantallas desactualizadas antes de mover.
func MatchesLocation(eq *entity.Equipment, expected entity.Location) bool {
	if eq.LocationKind != expected.Kind {
		return false
	}
	if expected.Kind != entity.LocationStore {
		return true
	}
	if eq.StoreID == nil || expected.StoreID == nil {
		return false
	}
	return *eq.StoreID == *expected.StoreID
}
