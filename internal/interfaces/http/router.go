package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agrogb/agroledger/internal/application/auth"
	"github.com/agrogb/agroledger/internal/application/catalog"
	"github.com/agrogb/agroledger/internal/application/ledger"
	"github.com/agrogb/agroledger/internal/application/sync"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC  *ledger.LedgerUseCase
	CatalogUC *catalog.CatalogUseCase
	AuthUC    *auth.AuthUseCase
	SyncCoord *sync.Coordinator
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Auth (login público; registro y listado solo para administradores)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", AuthMiddleware(deps.JWTSecret), RequireAdmin(), authHandler.Register)
	authGroup.Get("/users", AuthMiddleware(deps.JWTSecret), RequireAdmin(), authHandler.ListUsers)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Transacciones del libro (protegido)
	transactions := protected.Group("/transactions")
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	transactions.Post("/:kind", ledgerHandler.Submit)
	transactions.Get("/:kind", ledgerHandler.Recent)
	transactions.Put("/:kind/:uuid", ledgerHandler.Amend)
	transactions.Delete("/:kind/:uuid", ledgerHandler.Remove)

	// Snapshot de stock (protegido, solo lectura)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.LedgerUC)
	stock.Get("/", stockHandler.List)
	stock.Get("/:product", stockHandler.Get)

	// Catálogo y recetas (protegido)
	catalogGroup := protected.Group("/catalog")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	catalogGroup.Post("/", catalogHandler.Create)
	catalogGroup.Get("/", catalogHandler.List)
	catalogGroup.Get("/:uuid", catalogHandler.Get)
	catalogGroup.Put("/:uuid", catalogHandler.Update)
	catalogGroup.Get("/:uuid/recipes", catalogHandler.ListRecipeEdges)
	recipes := protected.Group("/recipes")
	recipes.Post("/", catalogHandler.AddRecipeEdge)
	recipes.Delete("/:uuid", catalogHandler.DeleteRecipeEdge)

	// Sincronización (protegido)
	syncGroup := protected.Group("/sync")
	syncHandler := NewSyncHandler(deps.SyncCoord)
	syncGroup.Post("/run", syncHandler.Run)
	syncGroup.Get("/pending", syncHandler.Pending)
	syncGroup.Get("/status", syncHandler.Status)
	syncGroup.Get("/ping", syncHandler.Ping)
}
