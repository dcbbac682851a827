package movements_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/activos-api/internal/application/dto"
	"github.com/tu-usuario/activos-api/internal/application/movements"
	"github.com/tu-usuario/activos-api/internal/domain"
	"github.com/tu-usuario/activos-api/internal/domain/entity"
)

const testActorID = "user-1"

func seededDB() *memDB {
	db := newMemDB()
	db.addStore("store-5", "Tienda Centro")
	db.addStore("store-9", "Tienda Norte")
	db.addUser(testActorID, "Laura Peña")
	db.addEquipment("eq-10", "INV-0010", entity.AtWarehouse())
	db.addEquipment("eq-11", "INV-0011", entity.AtWarehouse())
	db.addEquipment("eq-12", "INV-0012", entity.AtWarehouse())
	return db
}

func batchRequest(equipmentIDs ...string) dto.CreateMovementsRequest {
	storeID := "store-5"
	return dto.CreateMovementsRequest{
		EquipmentIDs:   equipmentIDs,
		Kind:           entity.MovementAssignmentOut,
		OriginKind:     entity.LocationWarehouse,
		DestKind:       entity.LocationStore,
		DestStoreID:    &storeID,
		LifecycleState: entity.StateInTransit,
		DepartedAt:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateBatch_InsertaFilasYActualizaUbicaciones(t *testing.T) {
	db := seededDB()
	uc := movements.NewCreateBatchUseCase(&fakeTxRunner{db: db}, &fakeStoreRepo{db: db})

	out, err := uc.CreateBatch(context.Background(), testActorID, batchRequest("eq-10", "eq-11", "eq-12"))
	require.NoError(t, err)

	assert.Equal(t, 3, out.Count)
	assert.Len(t, out.MovementIDs, 3)
	assert.Len(t, db.movements, 3)

	// El puntero de ubicación se fija al crear, aunque el estado sea IN_TRANSIT.
	for _, id := range []string{"eq-10", "eq-11", "eq-12"} {
		eq := db.equipment[id]
		assert.Equal(t, entity.LocationStore, eq.LocationKind, id)
		require.NotNil(t, eq.StoreID, id)
		assert.Equal(t, "store-5", *eq.StoreID, id)
		assert.Equal(t, 2, eq.Version, id)
	}
}

func TestCreateBatch_GeneraCodigoDeActaCompartido(t *testing.T) {
	db := seededDB()
	uc := movements.NewCreateBatchUseCase(&fakeTxRunner{db: db}, &fakeStoreRepo{db: db})

	out, err := uc.CreateBatch(context.Background(), testActorID, batchRequest("eq-10", "eq-11"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out.ReceiptCode, "ACTA-20240110-"), out.ReceiptCode)
	for _, m := range db.movements {
		require.NotNil(t, m.ReceiptCode)
		assert.Equal(t, out.ReceiptCode, *m.ReceiptCode)
	}
}

func TestCreateBatch_FallaReferencialAMitadDeLote_NoDejaCambios(t *testing.T) {
	db := seededDB()
	db.failCreateFor = "eq-11" // el segundo insert del lote viola una constraint
	uc := movements.NewCreateBatchUseCase(&fakeTxRunner{db: db}, &fakeStoreRepo{db: db})

	_, err := uc.CreateBatch(context.Background(), testActorID, batchRequest("eq-10", "eq-11", "eq-12"))
	require.ErrorIs(t, err, domain.ErrInvalidReference)

	// Cero cambios netos: ni filas de movimiento ni punteros movidos.
	assert.Empty(t, db.movements)
	for _, id := range []string{"eq-10", "eq-11", "eq-12"} {
		eq := db.equipment[id]
		assert.Equal(t, entity.LocationWarehouse, eq.LocationKind, id)
		assert.Nil(t, eq.StoreID, id)
		assert.Equal(t, 1, eq.Version, id)
	}
}

func TestCreateBatch_EquipoInexistente_RevierteLoteCompleto(t *testing.T) {
	db := seededDB()
	uc := movements.NewCreateBatchUseCase(&fakeTxRunner{db: db}, &fakeStoreRepo{db: db})

	_, err := uc.CreateBatch(context.Background(), testActorID, batchRequest("eq-10", "eq-no-existe"))
	require.ErrorIs(t, err, domain.ErrNotFound)

	assert.Empty(t, db.movements)
	assert.Equal(t, entity.LocationWarehouse, db.equipment["eq-10"].LocationKind)
}

func TestCreateBatch_IdsDuplicadosProducenFilasSeparadas(t *testing.T) {
	db := seededDB()
	uc := movements.NewCreateBatchUseCase(&fakeTxRunner{db: db}, &fakeStoreRepo{db: db})

	out, err := uc.CreateBatch(context.Background(), testActorID, batchRequest("eq-10", "eq-10"))
	require.NoError(t, err)

	assert.Equal(t, 2, out.Count)
	assert.Len(t, db.movements, 2)
}

func TestCreateBatch_LoteVacioRechazado(t *testing.T) {
	db := seededDB()
	uc := movements.NewCreateBatchUseCase(&fakeTxRunner{db: db}, &fakeStoreRepo{db: db})

	_, err := uc.CreateBatch(context.Background(), testActorID, batchRequest())
	var vErr *movements.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Len(t, vErr.Fields, 1)
	assert.Equal(t, "equipment_ids", vErr.Fields[0].Field)
}

func TestCreateBatch_TiendaDestinoInexistente(t *testing.T) {
	db := seededDB()
	uc := movements.NewCreateBatchUseCase(&fakeTxRunner{db: db}, &fakeStoreRepo{db: db})

	in := batchRequest("eq-10")
	badStore := "store-404"
	in.DestStoreID = &badStore
	_, err := uc.CreateBatch(context.Background(), testActorID, in)
	require.ErrorIs(t, err, domain.ErrInvalidReference)
	assert.Empty(t, db.movements)
}

func TestCreateBatch_DescriptorInvalidoNoLlegaALaBD(t *testing.T) {
	db := seededDB()
	uc := movements.NewCreateBatchUseCase(&fakeTxRunner{db: db}, &fakeStoreRepo{db: db})

	in := batchRequest("eq-10")
	in.Kind = "NO_EXISTE"
	in.LifecycleState = entity.StateCancelled
	_, err := uc.CreateBatch(context.Background(), testActorID, in)

	var vErr *movements.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Fields, 2)
	assert.Empty(t, db.movements)
}

func TestCreateBatch_ErrorNoEsValidacion(t *testing.T) {
	db := seededDB()
	db.failCreateFor = "eq-10"
	uc := movements.NewCreateBatchUseCase(&fakeTxRunner{db: db}, &fakeStoreRepo{db: db})

	_, err := uc.CreateBatch(context.Background(), testActorID, batchRequest("eq-10"))
	var vErr *movements.ValidationError
	assert.False(t, errors.As(err, &vErr))
}
