package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores de negocio expuestos en /metrics.
var (
	movementsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "movements_created_total",
		Help: "Filas de movimiento registradas en el libro.",
	})
	movementsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "movements_cancelled_total",
		Help: "Movimientos cancelados con reversión de ubicación.",
	})
	movementsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "movements_rejected_total",
		Help: "Lotes rechazados por validación o referencias inválidas.",
	})
)
