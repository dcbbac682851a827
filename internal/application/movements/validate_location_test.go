package movements_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/activos-api/internal/application/dto"
	"github.com/tu-usuario/activos-api/internal/application/movements"
	"github.com/tu-usuario/activos-api/internal/domain/entity"
)

func TestValidateLocation_ReportaCoincidenciasYDesfases(t *testing.T) {
	db := seededDB()
	db.addEquipment("eq-20", "INV-0020", entity.AtStore("store-5"))

	uc := movements.NewValidateLocationUseCase(&fakeEquipmentRepo{db: db})
	results, err := uc.Validate(context.Background(), dto.ValidateLocationRequest{
		EquipmentIDs: []string{"eq-10", "eq-20", "eq-404"},
		ExpectedKind: entity.LocationWarehouse,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Found)
	assert.True(t, results[0].Matches, "eq-10 sí está en el almacén")

	assert.True(t, results[1].Found)
	assert.False(t, results[1].Matches, "eq-20 está en tienda, no en almacén")
	assert.Equal(t, entity.LocationStore, results[1].CurrentKind)

	assert.False(t, results[2].Found)
	assert.False(t, results[2].Matches)
}

func TestValidateLocation_TiendaEsperadaComparaReferencia(t *testing.T) {
	db := seededDB()
	db.addEquipment("eq-20", "INV-0020", entity.AtStore("store-5"))

	storeID := "store-9"
	uc := movements.NewValidateLocationUseCase(&fakeEquipmentRepo{db: db})
	results, err := uc.Validate(context.Background(), dto.ValidateLocationRequest{
		EquipmentIDs: []string{"eq-20"},
		ExpectedKind: entity.LocationStore,
		StoreID:      &storeID,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Matches, "misma clase de ubicación pero tienda distinta")
}

func TestValidateLocation_PersonEsperadoComparaPorTipo(t *testing.T) {
	db := seededDB()
	db.addEquipment("eq-30", "INV-0030", entity.AtPerson("Laura Peña"))

	// El cuerpo de la verificación no trae persona: PERSON compara solo por tipo.
	uc := movements.NewValidateLocationUseCase(&fakeEquipmentRepo{db: db})
	results, err := uc.Validate(context.Background(), dto.ValidateLocationRequest{
		EquipmentIDs: []string{"eq-30", "eq-10"},
		ExpectedKind: entity.LocationPerson,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].Matches, "eq-30 está asignado a una persona")
	assert.False(t, results[1].Matches, "eq-10 está en el almacén")
}

func TestValidateLocation_UbicacionEsperadaInvalida(t *testing.T) {
	db := seededDB()
	uc := movements.NewValidateLocationUseCase(&fakeEquipmentRepo{db: db})
	_, err := uc.Validate(context.Background(), dto.ValidateLocationRequest{
		EquipmentIDs: []string{"eq-10"},
		ExpectedKind: entity.LocationStore, // sin store_id
	})
	var vErr *movements.ValidationError
	require.ErrorAs(t, err, &vErr)
}
