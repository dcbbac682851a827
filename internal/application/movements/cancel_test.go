package movements_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/activos-api/internal/application/movements"
	"github.com/tu-usuario/activos-api/internal/domain"
	"github.com/tu-usuario/activos-api/internal/domain/entity"
)

// mueveEquipo crea un lote de un solo equipo y devuelve el id del movimiento.
func mueveEquipo(t *testing.T, db *memDB, equipmentID string) string {
	t.Helper()
	uc := movements.NewCreateBatchUseCase(&fakeTxRunner{db: db}, &fakeStoreRepo{db: db})
	out, err := uc.CreateBatch(context.Background(), testActorID, batchRequest(equipmentID))
	require.NoError(t, err)
	require.Len(t, out.MovementIDs, 1)
	return out.MovementIDs[0]
}

func TestCancel_RevierteAlOrigenDelMovimiento(t *testing.T) {
	db := seededDB()
	movID := mueveEquipo(t, db, "eq-10")
	require.Equal(t, entity.LocationStore, db.equipment["eq-10"].LocationKind)

	uc := movements.NewCancelMovementUseCase(&fakeTxRunner{db: db})
	require.NoError(t, uc.Cancel(context.Background(), movID))

	assert.Equal(t, entity.StateCancelled, db.movements[movID].LifecycleState)
	eq := db.equipment["eq-10"]
	assert.Equal(t, entity.LocationWarehouse, eq.LocationKind)
	assert.Nil(t, eq.StoreID, "la referencia de tienda debe limpiarse al volver al almacén")
}

func TestCancel_ReversionPuntualIgnoraUbicacionActual(t *testing.T) {
	// El equipo se movió dos veces; cancelar el primer movimiento revierte al
	// origen de ESE movimiento, sin inspeccionar los posteriores.
	db := seededDB()
	firstMov := mueveEquipo(t, db, "eq-10") // WAREHOUSE -> store-5

	second := batchRequest("eq-10")
	second.OriginKind = entity.LocationStore
	origin := "store-5"
	second.OriginStoreID = &origin
	dest := "store-9"
	second.DestStoreID = &dest
	second.Kind = entity.MovementStoreTransfer
	createUC := movements.NewCreateBatchUseCase(&fakeTxRunner{db: db}, &fakeStoreRepo{db: db})
	_, err := createUC.CreateBatch(context.Background(), testActorID, second)
	require.NoError(t, err)
	require.Equal(t, "store-9", *db.equipment["eq-10"].StoreID)

	uc := movements.NewCancelMovementUseCase(&fakeTxRunner{db: db})
	require.NoError(t, uc.Cancel(context.Background(), firstMov))

	eq := db.equipment["eq-10"]
	assert.Equal(t, entity.LocationWarehouse, eq.LocationKind)
	assert.Nil(t, eq.StoreID)
}

func TestCancel_DobleCancelacionFalla(t *testing.T) {
	db := seededDB()
	movID := mueveEquipo(t, db, "eq-10")

	uc := movements.NewCancelMovementUseCase(&fakeTxRunner{db: db})
	require.NoError(t, uc.Cancel(context.Background(), movID))

	locBefore := db.equipment["eq-10"].LocationKind
	versionBefore := db.equipment["eq-10"].Version

	err := uc.Cancel(context.Background(), movID)
	require.ErrorIs(t, err, domain.ErrAlreadyCancelled)

	// La segunda llamada no cambia nada.
	assert.Equal(t, entity.StateCancelled, db.movements[movID].LifecycleState)
	assert.Equal(t, locBefore, db.equipment["eq-10"].LocationKind)
	assert.Equal(t, versionBefore, db.equipment["eq-10"].Version)
}

func TestCancel_MovimientoInexistente(t *testing.T) {
	db := seededDB()
	uc := movements.NewCancelMovementUseCase(&fakeTxRunner{db: db})
	err := uc.Cancel(context.Background(), "mov-404")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
