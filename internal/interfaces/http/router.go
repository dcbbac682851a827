package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tu-usuario/activos-api/internal/application/auth"
	"github.com/tu-usuario/activos-api/internal/application/movements"
	"github.com/tu-usuario/activos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CreateBatch    *movements.CreateBatchUseCase
	UpdateMovement *movements.UpdateMovementUseCase
	CancelMovement *movements.CancelMovementUseCase
	ValidateLoc    *movements.ValidateLocationUseCase
	History        *movements.HistoryUseCase
	Export         *movements.ExportUseCase
	AuthUC         *auth.AuthUseCase
	JWTSecret      string
	MetricsEnabled bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	if deps.MetricsEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Las mutaciones del libro exigen rol operativo; las lecturas
	// quedan abiertas a cualquier usuario autenticado.
	writer := RequireRole(entity.RoleAdmin, entity.RoleAlmacenista)

	movHandler := NewMovementHandler(
		deps.CreateBatch, deps.UpdateMovement, deps.CancelMovement,
		deps.ValidateLoc, deps.History, deps.Export,
	)

	movGroup := protected.Group("/movements")
	movGroup.Post("/", writer, movHandler.Create)
	movGroup.Post("/validate-location", movHandler.ValidateLocation)
	movGroup.Get("/export", movHandler.Export)
	movGroup.Get("/", movHandler.List)
	movGroup.Get("/:id", movHandler.GetByID)
	movGroup.Patch("/:id/state", writer, movHandler.ConfirmState)
	movGroup.Put("/:id", writer, movHandler.Edit)
	movGroup.Post("/:id/cancel", writer, movHandler.Cancel)

	// Timeline por equipo (protegido)
	protected.Get("/equipment/:id/movements", movHandler.Timeline)
}
