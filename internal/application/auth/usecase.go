package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/agrogb/agroledger/internal/domain"
	"github.com/agrogb/agroledger/internal/domain/entity"
	"github.com/agrogb/agroledger/internal/domain/repository"
	"github.com/agrogb/agroledger/pkg/config"
	"github.com/agrogb/agroledger/pkg/jwt"
	"github.com/agrogb/agroledger/pkg/logger"
)

// AuthUseCase autenticación local: login contra la tabla de usuarios y
// registro de cuentas nuevas (solo por un administrador).
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
	log      *logger.Logger
}

func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg config.JWTConfig, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, log: log}
}

// Login valida las credenciales y devuelve un token firmado junto al usuario.
// Credenciales malas y usuario inexistente devuelven el mismo error.
func (uc *AuthUseCase) Login(username, password string) (string, *entity.User, error) {
	u, err := uc.userRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrUnauthorized
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(
		uc.jwtCfg.Secret,
		strconv.FormatInt(u.ID, 10),
		u.Username,
		u.Role,
		uc.jwtCfg.Issuer,
		uc.jwtCfg.Expiration,
	)
	if err != nil {
		return "", nil, err
	}
	uc.log.Info().Str("username", u.Username).Str("role", u.Role).Msg("login exitoso")
	return token, u, nil
}

// RegisterInput entrada para registrar un usuario.
type RegisterInput struct {
	Username string
	Password string
	Role     string
	Email    string
	FullName string
	Phone    string
	Address  string
}

// Register crea un usuario nuevo con contraseña hasheada (bcrypt).
func (uc *AuthUseCase) Register(in RegisterInput) (*entity.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || len(in.Password) < 6 {
		return nil, domain.ErrInvalidInput
	}
	role := strings.ToUpper(strings.TrimSpace(in.Role))
	if role == "" {
		role = entity.RoleUser
	}
	if role != entity.RoleAdmin && role != entity.RoleUser {
		return nil, domain.ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Email:        strings.TrimSpace(in.Email),
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		LastUpdated:  time.Now(),
	}
	if err := uc.userRepo.Create(u); err != nil {
		return nil, err
	}
	uc.log.Info().Str("username", u.Username).Str("role", u.Role).Msg("usuario registrado")
	return u, nil
}

// ListUsers lista los usuarios locales.
func (uc *AuthUseCase) ListUsers() ([]entity.User, error) {
	return uc.userRepo.List()
}

// EnsureAdmin crea el administrador inicial si la tabla de usuarios está
// vacía (primer arranque en un dispositivo nuevo).
func (uc *AuthUseCase) EnsureAdmin(username, password string) error {
	n, err := uc.userRepo.Count()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err = uc.Register(RegisterInput{Username: username, Password: password, Role: entity.RoleAdmin})
	if err != nil {
		return err
	}
	uc.log.Warn().Str("username", username).Msg("administrador inicial creado; cambie la contraseña")
	return nil
}
