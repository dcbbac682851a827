package movements

import (
	"context"
	"fmt"

	"github.com/tu-usuario/activos-api/internal/application/dto"
	"github.com/xuri/excelize/v2"
)

// exportMaxRows tope de filas por exportación.
const exportMaxRows = 10000

// ExportUseCase exporta el listado filtrado de movimientos a una hoja de cálculo.
type ExportUseCase struct {
	history *HistoryUseCase
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(history *HistoryUseCase) *ExportUseCase {
	return &ExportUseCase{history: history}
}

// Export aplica los mismos filtros del listado y arma el archivo .xlsx.
// El llamador es responsable de cerrar el archivo.
func (uc *ExportUseCase) Export(ctx context.Context, q dto.MovementListQuery) (*excelize.File, error) {
	q.Limit = exportMaxRows
	q.Offset = 0
	page, err := uc.history.List(ctx, q)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"movimiento_id", "equipo", "placa", "serial", "tipo",
		"origen", "destino", "estado", "acta", "ticket",
		"salida", "llegada", "registrado_por", "motivo",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("export: encabezado: %w", err)
	}

	row := 2
	for _, m := range page.Movements {
		arrived := ""
		if m.ArrivedAt != nil {
			arrived = m.ArrivedAt.Format("2006-01-02")
		}
		values := []interface{}{
			m.ID,
			m.EquipmentID,
			m.EquipmentTag,
			m.EquipmentSerial,
			m.Kind,
			formatLocation(m.OriginKind, m.OriginStoreName, m.OriginPerson),
			formatLocation(m.DestKind, m.DestStoreName, m.DestPerson),
			m.LifecycleState,
			deref(m.ReceiptCode),
			deref(m.TicketRef),
			m.DepartedAt.Format("2006-01-02"),
			arrived,
			m.ActorName,
			m.Reason,
		}
		cell := fmt.Sprintf("A%d", row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("export: fila %d: %w", row, err)
		}
		row++
	}
	return f, nil
}

func formatLocation(kind, storeName string, person *string) string {
	switch {
	case storeName != "":
		return kind + " / " + storeName
	case person != nil && *person != "":
		return kind + " / " + *person
	}
	return kind
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
