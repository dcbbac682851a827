package entity

import "time"

// Tipos de ubicación de un equipo.
const (
	LocationWarehouse = "WAREHOUSE" // almacén central
	LocationStore     = "STORE"     // tienda
	LocationPerson    = "PERSON"    // asignado a una persona
)

// ValidLocationKind indica si el tipo de ubicación pertenece al dominio.
func ValidLocationKind(kind string) bool {
	switch kind {
	case LocationWarehouse, LocationStore, LocationPerson:
		return true
	}
	return false
}

// Equipment representa un equipo físico (computador, periférico, accesorio).
// Los datos de catálogo (categoría, marca, modelo) se gestionan fuera de este
// núcleo; aquí solo se muta la ubicación actual y su versión.
type Equipment struct {
	ID           string
	InventoryTag string // placa de inventario
	Serial       string
	Category     string
	Brand        string
	Model        string
	LocationKind string  // WAREHOUSE, STORE, PERSON
	StoreID      *string // presente solo si LocationKind == STORE
	Version      int     // contador de versión, se incrementa en cada cambio de ubicación
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Location ubicación actual o destino de un movimiento (tipo + referencia).
type Location struct {
	Kind    string
	StoreID *string
	Person  *string
}

// AtWarehouse construye una ubicación de almacén central.
func AtWarehouse() Location {
	return Location{Kind: LocationWarehouse}
}

// AtStore construye una ubicación de tienda.
func AtStore(storeID string) Location {
	return Location{Kind: LocationStore, StoreID: &storeID}
}

// AtPerson construye una ubicación asignada a una persona.
func AtPerson(person string) Location {
	return Location{Kind: LocationPerson, Person: &person}
}
