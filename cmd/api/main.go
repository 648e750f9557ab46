package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/agrogb/agroledger/internal/application/auth"
	"github.com/agrogb/agroledger/internal/application/catalog"
	"github.com/agrogb/agroledger/internal/application/ledger"
	appsync "github.com/agrogb/agroledger/internal/application/sync"
	"github.com/agrogb/agroledger/internal/infrastructure/remote"
	"github.com/agrogb/agroledger/internal/infrastructure/sqlite"
	httpRouter "github.com/agrogb/agroledger/internal/interfaces/http"
	"github.com/agrogb/agroledger/pkg/config"
	"github.com/agrogb/agroledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Path).
		Msg("iniciando aplicación")

	db, err := sqlite.Open(cfg.Store.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén local")
	}
	defer db.Close()
	if err := sqlite.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrar esquema local")
	}

	configStore := sqlite.NewConfigStore(db)
	deviceID, err := configStore.DeviceID()
	if err != nil {
		log.Fatal().Err(err).Msg("identificador de dispositivo")
	}
	log.Info().Str("device_id", deviceID).Msg("dispositivo identificado")

	harvestRepo := sqlite.NewHarvestRepository(db)
	saleRepo := sqlite.NewSaleRepository(db)
	purchaseRepo := sqlite.NewPurchaseRepository(db)
	disposalRepo := sqlite.NewDisposalRepository(db)
	stockRepo := sqlite.NewStockRepository(db)
	catalogRepo := sqlite.NewCatalogRepository(db)
	userRepo := sqlite.NewUserRepository(db)
	txRunner := sqlite.NewTxRunner(db)

	ledgerUC := ledger.NewLedgerUseCase(
		txRunner, harvestRepo, saleRepo, purchaseRepo, disposalRepo,
		stockRepo, catalogRepo, cfg.Store.CutoverDate, log,
	)
	catalogUC := catalog.NewCatalogUseCase(catalogRepo, log)
	authUC := auth.NewAuthUseCase(userRepo, cfg.JWT, log)

	// Remoto opcional: sin REMOTE_URL la app corre en modo solo local y todo
	// ciclo de sync devuelve "almacén remoto no configurado".
	var remoteStore appsync.RemoteStore
	if cfg.Remote.URL != "" {
		remoteStore = remote.NewClient(cfg.Remote.URL, cfg.Remote.APIKey)
	} else {
		log.Warn().Msg("REMOTE_URL vacío: sincronización deshabilitada")
	}
	tables := cfg.Sync.Tables
	if len(tables) == 0 {
		tables = sqlite.SyncTables()
	}
	syncCoord := appsync.NewCoordinator(sqlite.NewSyncStore(db), remoteStore, configStore, tables, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		LedgerUC:  ledgerUC,
		CatalogUC: catalogUC,
		AuthUC:    authUC,
		SyncCoord: syncCoord,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
