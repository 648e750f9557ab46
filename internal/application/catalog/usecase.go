package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrogb/agroledger/internal/domain"
	"github.com/agrogb/agroledger/internal/domain/entity"
	"github.com/agrogb/agroledger/internal/domain/repository"
	"github.com/agrogb/agroledger/pkg/logger"
)

// CatalogUseCase administra el catálogo de productos y sus recetas.
type CatalogUseCase struct {
	catalogRepo repository.CatalogRepository
	log         *logger.Logger
}

func NewCatalogUseCase(catalogRepo repository.CatalogRepository, log *logger.Logger) *CatalogUseCase {
	return &CatalogUseCase{catalogRepo: catalogRepo, log: log}
}

// ProductInput entrada para crear/actualizar un producto del catálogo.
type ProductInput struct {
	Name             string
	Unit             string
	Kind             string
	Notes            string
	Stockable        bool
	Sellable         bool
	ConversionFactor decimal.Decimal
	SalePrice        decimal.Decimal
}

// CreateProduct registra un producto nuevo. El nombre se normaliza y debe ser
// único en el catálogo.
func (uc *CatalogUseCase) CreateProduct(in ProductInput) (*entity.Product, error) {
	name := domain.NormalizeName(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.catalogRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	p := &entity.Product{
		SyncMeta:         entity.SyncMeta{UUID: uuid.New().String(), LastUpdated: time.Now(), Dirty: true},
		Name:             name,
		Unit:             domain.NormalizeName(in.Unit),
		Kind:             domain.NormalizeName(in.Kind),
		Notes:            domain.NormalizeName(in.Notes),
		Stockable:        in.Stockable,
		Sellable:         in.Sellable,
		ConversionFactor: in.ConversionFactor,
		SalePrice:        in.SalePrice,
	}
	if err := uc.catalogRepo.Create(p); err != nil {
		return nil, err
	}
	uc.log.Info().Str("uuid", p.UUID).Str("name", p.Name).Msg("producto registrado")
	return p, nil
}

// UpdateProduct actualiza un producto existente por uuid.
func (uc *CatalogUseCase) UpdateProduct(productUUID string, in ProductInput) (*entity.Product, error) {
	name := domain.NormalizeName(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.catalogRepo.GetByUUID(productUUID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if name != p.Name {
		other, err := uc.catalogRepo.GetByName(name)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
	}
	p.Name = name
	p.Unit = domain.NormalizeName(in.Unit)
	p.Kind = domain.NormalizeName(in.Kind)
	p.Notes = domain.NormalizeName(in.Notes)
	p.Stockable = in.Stockable
	p.Sellable = in.Sellable
	p.ConversionFactor = in.ConversionFactor
	p.SalePrice = in.SalePrice
	p.LastUpdated = time.Now()
	p.Dirty = true
	if err := uc.catalogRepo.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProduct busca un producto por uuid.
func (uc *CatalogUseCase) GetProduct(productUUID string) (*entity.Product, error) {
	p, err := uc.catalogRepo.GetByUUID(productUUID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// ListProducts lista el catálogo completo ordenado por nombre.
func (uc *CatalogUseCase) ListProducts() ([]entity.Product, error) {
	return uc.catalogRepo.List()
}

// RecipeEdgeInput entrada para agregar una arista de receta.
type RecipeEdgeInput struct {
	ParentUUID string
	ChildUUID  string
	Quantity   decimal.Decimal
}

// AddRecipeEdge agrega una arista de receta padre→hijo. Padre e hijo deben
// existir en el catálogo, ser distintos, y la cantidad ser positiva.
// No hay recursión: un hijo con receta propia no se expande al vender el padre.
func (uc *CatalogUseCase) AddRecipeEdge(in RecipeEdgeInput) (*entity.RecipeEdge, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) || in.ParentUUID == in.ChildUUID {
		return nil, domain.ErrInvalidInput
	}
	parent, err := uc.catalogRepo.GetByUUID(in.ParentUUID)
	if err != nil {
		return nil, err
	}
	child, err := uc.catalogRepo.GetByUUID(in.ChildUUID)
	if err != nil {
		return nil, err
	}
	if parent == nil || child == nil {
		return nil, domain.ErrNotFound
	}
	e := &entity.RecipeEdge{
		SyncMeta:   entity.SyncMeta{UUID: uuid.New().String(), LastUpdated: time.Now(), Dirty: true},
		ParentUUID: in.ParentUUID,
		ChildUUID:  in.ChildUUID,
		Quantity:   in.Quantity,
		ChildName:  child.Name,
	}
	if err := uc.catalogRepo.AddRecipeEdge(e); err != nil {
		return nil, err
	}
	uc.log.Info().Str("parent", parent.Name).Str("child", child.Name).Msg("arista de receta agregada")
	return e, nil
}

// RecipeEdges lista las aristas de receta de un producto padre.
func (uc *CatalogUseCase) RecipeEdges(parentUUID string) ([]entity.RecipeEdge, error) {
	return uc.catalogRepo.RecipeEdges(parentUUID)
}

// DeleteRecipeEdge elimina una arista de receta por uuid.
func (uc *CatalogUseCase) DeleteRecipeEdge(edgeUUID string) error {
	return uc.catalogRepo.DeleteRecipeEdge(edgeUUID)
}
