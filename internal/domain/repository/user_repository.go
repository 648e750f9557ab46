package repository

import "github.com/agrogb/agroledger/internal/domain/entity"

// UserRepository puerto de la tabla local de usuarios.
type UserRepository interface {
	Create(u *entity.User) error
	GetByUsername(username string) (*entity.User, error)
	List() ([]entity.User, error)
	Count() (int, error)
}
