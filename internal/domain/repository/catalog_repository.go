package repository

import "github.com/agrogb/agroledger/internal/domain/entity"

// CatalogRepository puerto del catálogo (cadastro) y sus aristas de receta.
type CatalogRepository interface {
	Create(p *entity.Product) error
	Update(p *entity.Product) error
	// GetByName busca por nombre normalizado; (nil, nil) si no está registrado
	// (los nombres avulsos son válidos en el libro).
	GetByName(name string) (*entity.Product, error)
	GetByUUID(uuid string) (*entity.Product, error)
	List() ([]entity.Product, error)

	// RecipeEdges devuelve las aristas del padre con ChildName resuelto por JOIN.
	RecipeEdges(parentUUID string) ([]entity.RecipeEdge, error)
	AddRecipeEdge(e *entity.RecipeEdge) error
	DeleteRecipeEdge(uuid string) error
}
