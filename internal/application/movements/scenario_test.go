package movements_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/activos-api/internal/application/dto"
	"github.com/tu-usuario/activos-api/internal/application/movements"
	"github.com/tu-usuario/activos-api/internal/domain/entity"
)

// Ciclo completo de un equipo: sale del almacén hacia una tienda, se confirma
// la entrega con acta, y luego el movimiento se cancela y el equipo vuelve a
// su origen.
func TestCicloCompleto_AsignarConfirmarCancelar(t *testing.T) {
	ctx := context.Background()
	db := seededDB()

	createUC := movements.NewCreateBatchUseCase(&fakeTxRunner{db: db}, &fakeStoreRepo{db: db})
	updateUC := movements.NewUpdateMovementUseCase(&fakeMovementRepo{db: db})
	cancelUC := movements.NewCancelMovementUseCase(&fakeTxRunner{db: db})

	// Paso 1: lote [eq-10], ASSIGNMENT_OUT, WAREHOUSE -> STORE(store-5), IN_TRANSIT.
	out, err := createUC.CreateBatch(ctx, testActorID, batchRequest("eq-10"))
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	movID := out.MovementIDs[0]

	eq := db.equipment["eq-10"]
	assert.Equal(t, entity.LocationStore, eq.LocationKind, "la ubicación cambia de inmediato")
	assert.Equal(t, "store-5", *eq.StoreID)
	assert.Equal(t, entity.StateInTransit, db.movements[movID].LifecycleState)

	// Paso 2: confirmación con acta y fecha de llegada.
	arrived := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)
	acta := "ACTA-01"
	confirmed, err := updateUC.ConfirmState(ctx, movID, dto.UpdateStateRequest{
		LifecycleState: entity.StateCompleted,
		ArrivedAt:      &arrived,
		ReceiptCode:    &acta,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StateCompleted, confirmed.LifecycleState)
	assert.Equal(t, entity.LocationStore, db.equipment["eq-10"].LocationKind, "confirmar no mueve el puntero")
	assert.Equal(t, "store-5", *db.equipment["eq-10"].StoreID)

	// Paso 3: cancelación; el equipo vuelve al origen del movimiento.
	require.NoError(t, cancelUC.Cancel(ctx, movID))
	assert.Equal(t, entity.StateCancelled, db.movements[movID].LifecycleState)
	assert.Equal(t, entity.LocationWarehouse, db.equipment["eq-10"].LocationKind)
	assert.Nil(t, db.equipment["eq-10"].StoreID, "la referencia de tienda queda limpia")
}
