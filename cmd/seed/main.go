// Comando seed: crea el administrador inicial y un catálogo de ejemplo en el
// almacén local. Idempotente: corre sobre una base ya sembrada sin duplicar.
package main

import (
	"errors"
	"flag"

	"github.com/shopspring/decimal"

	"github.com/agrogb/agroledger/internal/application/auth"
	"github.com/agrogb/agroledger/internal/application/catalog"
	"github.com/agrogb/agroledger/internal/domain"
	"github.com/agrogb/agroledger/internal/infrastructure/sqlite"
	"github.com/agrogb/agroledger/pkg/config"
	"github.com/agrogb/agroledger/pkg/logger"
)

func main() {
	adminUser := flag.String("admin-user", "admin", "username del administrador inicial")
	adminPass := flag.String("admin-pass", "", "contraseña del administrador inicial (obligatoria)")
	withCatalog := flag.Bool("catalog", true, "sembrar catálogo de ejemplo")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	if *adminPass == "" {
		log.Fatal().Msg("falta -admin-pass")
	}

	db, err := sqlite.Open(cfg.Store.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén local")
	}
	defer db.Close()
	if err := sqlite.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrar esquema local")
	}

	authUC := auth.NewAuthUseCase(sqlite.NewUserRepository(db), cfg.JWT, log)
	if err := authUC.EnsureAdmin(*adminUser, *adminPass); err != nil {
		log.Fatal().Err(err).Msg("crear administrador inicial")
	}

	if *withCatalog {
		seedCatalog(catalog.NewCatalogUseCase(sqlite.NewCatalogRepository(db), log), log)
	}
	log.Info().Str("store", cfg.Store.Path).Msg("seed completado")
}

func seedCatalog(uc *catalog.CatalogUseCase, log *logger.Logger) {
	products := []catalog.ProductInput{
		{Name: "MORANGO", Unit: "KG", Kind: "PRODUTO", Stockable: true, Sellable: true},
		{Name: "ALFACE", Unit: "UN", Kind: "PRODUTO", Stockable: true, Sellable: true},
		{Name: "CAIXA MORANGO", Unit: "CX", Kind: "PRODUTO", Sellable: true},
		{Name: "ADUBO ORGANICO", Unit: "KG", Kind: "INSUMO", Stockable: true},
	}
	byName := make(map[string]string, len(products))
	for _, in := range products {
		p, err := uc.CreateProduct(in)
		if err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				continue
			}
			log.Fatal().Err(err).Str("name", in.Name).Msg("sembrar producto")
		}
		byName[p.Name] = p.UUID
	}

	// Receta de ejemplo: una caja de morango consume 4 kg de morango.
	parent, okP := byName["CAIXA MORANGO"]
	child, okC := byName["MORANGO"]
	if okP && okC {
		_, err := uc.AddRecipeEdge(catalog.RecipeEdgeInput{
			ParentUUID: parent,
			ChildUUID:  child,
			Quantity:   decimal.NewFromInt(4),
		})
		if err != nil && !errors.Is(err, domain.ErrDuplicate) {
			log.Fatal().Err(err).Msg("sembrar receta")
		}
	}
}
