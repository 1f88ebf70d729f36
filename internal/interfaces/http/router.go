package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/coopvalle/dotaciones-api/internal/application/auth"
	appdelivery "github.com/coopvalle/dotaciones-api/internal/application/delivery"
	"github.com/coopvalle/dotaciones-api/internal/application/retirement"
	"github.com/coopvalle/dotaciones-api/internal/application/stock"
	"github.com/coopvalle/dotaciones-api/internal/application/usecase"
	"github.com/coopvalle/dotaciones-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SupplyUC    *usecase.SupplyUseCase
	Ledger      *stock.LedgerUseCase
	DeliverUC   *appdelivery.DeliverUseCase
	AssociateUC *usecase.AssociateUseCase
	MigratorUC  *retirement.MigratorUseCase
	StatsUC     *usecase.StatsUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Lectura para cualquier usuario autenticado;
// las mutaciones de stock y entregas requieren rol almacen o admin, y el retiro de
// asociados solo admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	canWrite := RequireRole(entity.RoleAdmin, entity.RoleAlmacen)

	// Inventario (protegido)
	supplies := protected.Group("/supplies")
	stockHandler := NewStockHandler(deps.SupplyUC, deps.Ledger)
	supplies.Get("/", stockHandler.ListSupplies)
	supplies.Post("/", canWrite, stockHandler.CreateSupply)
	supplies.Get("/:ref", stockHandler.GetSupply)

	stockGroup := protected.Group("/stock")
	stockGroup.Post("/receipts", canWrite, stockHandler.Receipt)
	stockGroup.Post("/receipts/:movementId/revert", canWrite, stockHandler.RevertReceipt)
	stockGroup.Get("/movements", stockHandler.ListMovements)

	// Entregas (protegido)
	deliveries := protected.Group("/deliveries")
	deliveryHandler := NewDeliveryHandler(deps.DeliverUC)
	deliveries.Post("/", canWrite, deliveryHandler.Deliver)
	deliveries.Post("/:id/revert", canWrite, deliveryHandler.Revert)

	// Asociados y archivo (protegido)
	associateHandler := NewAssociateHandler(deps.AssociateUC, deps.DeliverUC, deps.MigratorUC)
	associates := protected.Group("/associates")
	associates.Get("/", associateHandler.List)
	associates.Post("/", canWrite, associateHandler.Create)
	associates.Get("/:id", associateHandler.Get)
	associates.Get("/:id/deliveries", associateHandler.Deliveries)
	associates.Post("/:id/retire", RequireRole(entity.RoleAdmin), associateHandler.Retire)

	retired := protected.Group("/retired-associates")
	retired.Get("/", associateHandler.ListRetired)
	retired.Get("/:id/history", associateHandler.RetiredHistory)

	// Stats (protegido)
	statsHandler := NewStatsHandler(deps.StatsUC)
	protected.Get("/stats", statsHandler.Stats)
}
